package domain

import (
	"strings"
	"time"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusClosed     TaskStatus = "closed"

	// StatusReassigned only ever appears inside status history, recorded when
	// an existing assignment is replaced. It is never a live status.
	StatusReassigned TaskStatus = "reassigned"
)

// ParseStatus normalizes and validates a client-supplied status value.
// StatusReassigned is deliberately not settable.
func ParseStatus(s string) (TaskStatus, error) {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusTodo:
		return StatusTodo, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusClosed:
		return StatusClosed, nil
	}
	return "", ErrInvalidStatus
}

// IsTerminal reports whether the status represents finished work.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusClosed
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// ParsePriority normalizes and validates a client-supplied priority value.
func ParsePriority(s string) (TaskPriority, error) {
	switch TaskPriority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", ErrInvalidPriority
}

// MaxAttachments caps the attachment list on a task.
const MaxAttachments = 10

// Attachment records file metadata; blob storage itself lives elsewhere.
type Attachment struct {
	Name       string    `json:"name" bson:"name"`
	URL        string    `json:"url" bson:"url"`
	UploadedBy string    `json:"uploaded_by" bson:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// StatusRecord is a single attributed status value. The live record sits on
// Task.Status; superseded records are appended to Task.StatusHistory.
type StatusRecord struct {
	Status    TaskStatus `json:"status" bson:"status"`
	Timestamp time.Time  `json:"timestamp" bson:"timestamp"`
	UpdatedBy string     `json:"updated_by" bson:"updated_by"`
	Comment   string     `json:"comment,omitempty" bson:"comment,omitempty"`
}

// Comment is an immutable entry in a task's comment log.
type Comment struct {
	AuthorID  string    `json:"author_id" bson:"author_id"`
	Author    string    `json:"author" bson:"author"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Task is the core aggregate. Assignment is a tagged union: at most one of
// AssignedUserID / AssignedGroupID is non-empty at any time.
type Task struct {
	ID              string         `json:"id" bson:"_id,omitempty"`
	Seq             int64          `json:"seq" bson:"seq"`
	Title           string         `json:"title" bson:"title"`
	Description     string         `json:"description" bson:"description"`
	Priority        TaskPriority   `json:"priority" bson:"priority"`
	DueAt           *time.Time     `json:"due_at,omitempty" bson:"due_at,omitempty"`
	Attachments     []Attachment   `json:"attachments" bson:"attachments"`
	CreatedBy       string         `json:"created_by" bson:"created_by"`
	AssignedUserID  string         `json:"assigned_user_id,omitempty" bson:"assigned_user_id,omitempty"`
	AssignedGroupID string         `json:"assigned_group_id,omitempty" bson:"assigned_group_id,omitempty"`
	Status          StatusRecord   `json:"status" bson:"status"`
	StatusHistory   []StatusRecord `json:"status_history" bson:"status_history"`
	Comments        []Comment      `json:"comments" bson:"comments"`
	Reopened        bool           `json:"reopened" bson:"reopened"`
	CompletedAt     *time.Time     `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsAssigned reports whether the task currently has any assignment.
func (t *Task) IsAssigned() bool {
	return t.AssignedUserID != "" || t.AssignedGroupID != ""
}

// ApplyStatus moves the task to status, attributed to updatedBy at ts.
// The previous status record (with the transition comment attached) is
// appended to history first. A same-status call is a no-op and reports false.
func (t *Task) ApplyStatus(status TaskStatus, updatedBy, comment string, ts time.Time) bool {
	if t.Status.Status == status {
		return false
	}
	prev := t.Status
	prev.Comment = comment
	t.StatusHistory = append(t.StatusHistory, prev)
	t.Status = StatusRecord{Status: status, Timestamp: ts, UpdatedBy: updatedBy}
	if status == StatusCompleted {
		done := ts
		t.CompletedAt = &done
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = ts
	return true
}

// AssignUser binds the task to a single user, clearing any group assignment.
// Replacing an existing different assignment appends a reassignment marker to
// history; the live status is untouched.
func (t *Task) AssignUser(userID, assignedBy string, ts time.Time) {
	if t.IsAssigned() && t.AssignedUserID != userID {
		t.markReassigned(assignedBy, ts)
	}
	t.AssignedUserID = userID
	t.AssignedGroupID = ""
	t.UpdatedAt = ts
}

// AssignGroup binds the task to a group, clearing any user assignment.
func (t *Task) AssignGroup(groupID, assignedBy string, ts time.Time) {
	if t.IsAssigned() && t.AssignedGroupID != groupID {
		t.markReassigned(assignedBy, ts)
	}
	t.AssignedGroupID = groupID
	t.AssignedUserID = ""
	t.UpdatedAt = ts
}

// ClearAssignment removes both assignment branches.
func (t *Task) ClearAssignment(ts time.Time) {
	t.AssignedUserID = ""
	t.AssignedGroupID = ""
	t.UpdatedAt = ts
}

func (t *Task) markReassigned(by string, ts time.Time) {
	t.StatusHistory = append(t.StatusHistory, StatusRecord{
		Status:    StatusReassigned,
		Timestamp: ts,
		UpdatedBy: by,
	})
}

// Reopen forces a terminal task back to todo, flags it as reopened, and
// records the reopening in history with the given comment.
func (t *Task) Reopen(by, comment string, ts time.Time) {
	t.ApplyStatus(StatusTodo, by, comment, ts)
	t.Reopened = true
}
