package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// UserTaskService exposes the per-user assignment ledger. Admins and managers
// may read any user's ledger; employees only their own.
type UserTaskService interface {
	ListFor(ctx context.Context, actor domain.Actor, userRef string) (*domain.UserTaskIndex, error)
}
