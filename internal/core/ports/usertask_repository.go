package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// UserTaskRepository maintains the per-user assignment ledger. All writes are
// single-document atomic updates ($push/$pull/positional $set); the ledger is
// a read model of Task.AssignedUserID and may lag it on partial failure.
type UserTaskRepository interface {
	Get(ctx context.Context, userID string) (*domain.UserTaskIndex, error)
	AppendEntry(ctx context.Context, userID string, entry domain.UserTaskEntry) error
	RemoveEntry(ctx context.Context, userID, taskID string) error
	SetStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) error
}
