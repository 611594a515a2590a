package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// UserFilter carries query parameters for listing users. Roles is produced by
// the scoping engine and is already validated against the actor's privileges.
type UserFilter struct {
	Roles  []string // empty = no role restriction (admin)
	Active *bool
	Page   int // 1-based
	Limit  int
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindBySeq(ctx context.Context, seq int64) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// CountByRole reports how many users hold the given normalized role,
	// used by the one-shot admin seeding check.
	CountByRole(ctx context.Context, role string) (int64, error)
}
