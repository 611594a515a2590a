package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// TaskScope restricts which task documents a query may touch. It is produced
// by the scoping engine, never built ad hoc by handlers.
//
// When Unrestricted is false the visible set is the union of:
//   - tasks directly assigned to UserID,
//   - tasks created by UserID (managers only, IncludeCreated),
//   - tasks assigned to any group in GroupIDs.
type TaskScope struct {
	Unrestricted   bool
	UserID         string
	IncludeCreated bool
	GroupIDs       []string
}

// ListTasksFilter carries all query parameters for listing tasks.
type ListTasksFilter struct {
	Scope     TaskScope
	Status    domain.TaskStatus
	Priority  domain.TaskPriority
	CreatedBy string
	Page      int // 1-based
	Limit     int
}

// TaskRepository defines persistence operations for tasks. Find operations
// apply the scope inside the query so out-of-scope documents are
// indistinguishable from absent ones.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByID(ctx context.Context, id string, scope TaskScope) (*domain.Task, error)
	FindBySeq(ctx context.Context, seq int64, scope TaskScope) (*domain.Task, error)
	List(ctx context.Context, filter ListTasksFilter) ([]*domain.Task, int64, error)
	// Update replaces the mutable portion of the document (last-writer-wins;
	// no optimistic concurrency token is kept).
	Update(ctx context.Context, task *domain.Task) error
	// AppendComment pushes a comment atomically without rewriting the document.
	AppendComment(ctx context.Context, id string, comment domain.Comment) error
	Delete(ctx context.Context, id string) error
}
