package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// listEnvelope is the canonical shape of every list endpoint.
type listEnvelope struct {
	Data  any   `json:"data"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// messageResponse acknowledges a mutation that returns no entity.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth / user requests ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role"     validate:"required"`
}

type seedAdminRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Role  *string `json:"role,omitempty"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type changePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

// --- Task requests ---

type attachmentRequest struct {
	Name string `json:"name" validate:"required"`
	URL  string `json:"url"  validate:"required"`
}

type createTaskRequest struct {
	Title         string              `json:"title"       validate:"required"`
	Description   string              `json:"description"`
	Priority      string              `json:"priority"    validate:"omitempty,oneof=low medium high"`
	DueAt         *time.Time          `json:"due_at,omitempty"`
	Attachments   []attachmentRequest `json:"attachments" validate:"max=10,dive"`
	AssignUserID  string              `json:"assign_user_id,omitempty"`
	AssignGroupID string              `json:"assign_group_id,omitempty"`
}

type updateTaskRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Priority    *string              `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	DueAt       *time.Time           `json:"due_at,omitempty"`
	ClearDue    bool                 `json:"clear_due,omitempty"`
	Attachments *[]attachmentRequest `json:"attachments,omitempty" validate:"omitempty,max=10,dive"`
}

type updateStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Comment string `json:"comment,omitempty"`
}

type assignTaskRequest struct {
	UserID  string `json:"user_id,omitempty"`
	GroupID string `json:"group_id,omitempty"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

type reopenRequest struct {
	Comment string `json:"comment,omitempty"`
}

// --- Group requests ---

type createGroupRequest struct {
	Title       string   `json:"title"   validate:"required"`
	Description string   `json:"description"`
	LeadID      string   `json:"lead_id" validate:"required"`
	MemberIDs   []string `json:"member_ids"`
}

type updateGroupRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	LeadID      *string   `json:"lead_id,omitempty"`
	MemberIDs   *[]string `json:"member_ids,omitempty"`
	Active      *bool     `json:"active,omitempty"`
}

type addGroupTaskRequest struct {
	TaskID string `json:"task_id" validate:"required"`
}

// --- Response types ---
// Transport-owned projections: the JSON contract is decoupled from internal
// domain changes, and credentials can never leak through them.

type userResponse struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  userResponse `json:"user"`
}

type attachmentResponse struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type statusRecordResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	UpdatedBy string    `json:"updated_by"`
	Comment   string    `json:"comment,omitempty"`
}

type commentResponse struct {
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type taskResponse struct {
	ID              string                 `json:"id"`
	Seq             int64                  `json:"seq"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Priority        string                 `json:"priority"`
	DueAt           *time.Time             `json:"due_at,omitempty"`
	Attachments     []attachmentResponse   `json:"attachments"`
	CreatedBy       string                 `json:"created_by"`
	AssignedUserID  string                 `json:"assigned_user_id,omitempty"`
	AssignedGroupID string                 `json:"assigned_group_id,omitempty"`
	Status          statusRecordResponse   `json:"status"`
	StatusHistory   []statusRecordResponse `json:"status_history"`
	Comments        []commentResponse      `json:"comments"`
	Reopened        bool                   `json:"reopened"`
	CompletedAt     *time.Time             `json:"completed_at,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// taskSummaryResponse is the lightweight item used in list responses.
// It intentionally omits history and comments to keep payloads small.
type taskSummaryResponse struct {
	ID              string     `json:"id"`
	Seq             int64      `json:"seq"`
	Title           string     `json:"title"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	DueAt           *time.Time `json:"due_at,omitempty"`
	CreatedBy       string     `json:"created_by"`
	AssignedUserID  string     `json:"assigned_user_id,omitempty"`
	AssignedGroupID string     `json:"assigned_group_id,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type groupTaskResponse struct {
	TaskID     string    `json:"task_id"`
	Status     string    `json:"status"`
	AssignedBy string    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

type groupResponse struct {
	ID          string              `json:"id"`
	Seq         int64               `json:"seq"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	LeadID      string              `json:"lead_id"`
	MemberIDs   []string            `json:"member_ids"`
	Tasks       []groupTaskResponse `json:"tasks"`
	CreatedBy   string              `json:"created_by"`
	Active      bool                `json:"active"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type memberStatsResponse struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
	OnTime    int    `json:"completed_on_time"`
	Delayed   int    `json:"delayed"`
}

type groupAnalyticsResponse struct {
	GroupID string                `json:"group_id"`
	Title   string                `json:"title"`
	Members []memberStatsResponse `json:"members"`
}

type userTaskEntryResponse struct {
	TaskID     string    `json:"task_id"`
	Status     string    `json:"status"`
	AssignedBy string    `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

type userTasksResponse struct {
	UserID string                  `json:"user_id"`
	Tasks  []userTaskEntryResponse `json:"tasks"`
}
