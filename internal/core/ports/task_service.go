package ports

import (
	"context"
	"time"

	"github.com/taskhive/task-system/internal/core/domain"
)

// AttachmentInput is file metadata supplied by the client; blob upload happens
// out of band.
type AttachmentInput struct {
	Name string
	URL  string
}

// CreateTaskInput carries all data to create a task. At most one of
// AssignUserID / AssignGroupID may be set.
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      string
	DueAt         *time.Time
	Attachments   []AttachmentInput
	AssignUserID  string
	AssignGroupID string
}

// UpdateTaskInput updates plain task fields; nil means "leave unchanged".
// Attachments, when present, replace the whole list.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *string
	DueAt       *time.Time
	ClearDue    bool
	Attachments *[]AttachmentInput
}

// ListTasksInput carries parameters for the task list endpoint.
type ListTasksInput struct {
	Status    string
	Priority  string
	CreatedBy string
	Page      int
	Limit     int
}

// UpdateStatusInput moves a task to a new status with an optional comment.
type UpdateStatusInput struct {
	Status  string
	Comment string
}

// AssignTaskInput names the assignment target: exactly one of UserID/GroupID.
type AssignTaskInput struct {
	UserID  string
	GroupID string
}

// TaskPage is one page of tasks plus the unpaginated total.
type TaskPage struct {
	Items []*domain.Task
	Total int64
	Page  int
	Limit int
}

// TaskService covers the task lifecycle: creation, visibility-scoped reads,
// field edits, the status state machine, assignment, comments, and reopening.
type TaskService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error)
	List(ctx context.Context, actor domain.Actor, input ListTasksInput) (*TaskPage, error)
	Get(ctx context.Context, actor domain.Actor, ref string) (*domain.Task, error)
	Update(ctx context.Context, actor domain.Actor, ref string, input UpdateTaskInput) (*domain.Task, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, ref string, input UpdateStatusInput) (*domain.Task, error)
	Assign(ctx context.Context, actor domain.Actor, ref string, input AssignTaskInput) (*domain.Task, error)
	Unassign(ctx context.Context, actor domain.Actor, ref string) (*domain.Task, error)
	AddComment(ctx context.Context, actor domain.Actor, ref, text string) (*domain.Task, error)
	Reopen(ctx context.Context, actor domain.Actor, ref, comment string) (*domain.Task, error)
	Delete(ctx context.Context, actor domain.Actor, ref string) error
}
