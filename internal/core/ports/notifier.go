package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// Notifier is the outbound notification sink. Delivery transport is an
// external collaborator; implementations must be safe to call best-effort —
// callers log failures and never fail the request on them.
type Notifier interface {
	TaskAssigned(ctx context.Context, task *domain.Task, assignee *domain.User, assignedBy domain.Actor) error
	TaskStatusChanged(ctx context.Context, task *domain.Task, updatedBy domain.Actor) error
}
