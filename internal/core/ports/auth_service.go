package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// CreateUserInput carries the fields needed to create an account. Role is
// normalized and validated by the service.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthService covers credential verification and account bootstrap.
type AuthService interface {
	// Login verifies email+password and returns a signed bearer token with
	// the authenticated user.
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// Register creates an account of any role; admin-only.
	Register(ctx context.Context, actor domain.Actor, input CreateUserInput) (*domain.User, error)
	// SeedAdmin creates the first admin account. Rejected with a conflict
	// once any admin exists.
	SeedAdmin(ctx context.Context, input CreateUserInput) (*domain.User, error)
	// Resolve loads the active user behind a verified token subject; used by
	// the auth middleware to build the request actor.
	Resolve(ctx context.Context, userID string) (*domain.User, error)
}
