package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// ListUsersInput carries parameters for the user list endpoint. Role is the
// raw client-supplied filter; the scoping engine validates it per actor.
type ListUsersInput struct {
	Role  string
	Page  int
	Limit int
}

// UpdateUserInput updates mutable user fields; nil means "leave unchanged".
// Role changes are admin-only.
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

// UserPage is one page of users plus the unpaginated total.
type UserPage struct {
	Items []*domain.User
	Total int64
	Page  int
	Limit int
}

// UserService covers user management beyond authentication.
type UserService interface {
	List(ctx context.Context, actor domain.Actor, input ListUsersInput) (*UserPage, error)
	// Get resolves ref as a sequential id when purely numeric, otherwise as
	// an opaque id.
	Get(ctx context.Context, actor domain.Actor, ref string) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, ref string, input UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, ref string) error
	SetActive(ctx context.Context, actor domain.Actor, ref string, active bool) (*domain.User, error)
	ChangePassword(ctx context.Context, actor domain.Actor, ref, newPassword string) error
}
