package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
	"github.com/taskhive/task-system/internal/core/scope"
)

// UserService implements user management. Visibility runs through the scoping
// engine; record-level permissions are enforced here.
type UserService struct {
	users  ports.UserRepository
	scopes *scope.Engine
	log    zerolog.Logger
}

func NewUserService(users ports.UserRepository, scopes *scope.Engine, log zerolog.Logger) *UserService {
	return &UserService{users: users, scopes: scopes, log: log}
}

func (s *UserService) List(ctx context.Context, actor domain.Actor, input ports.ListUsersInput) (*ports.UserPage, error) {
	filter, err := s.scopes.Users(actor, input.Role)
	if err != nil {
		return nil, err
	}
	filter.Page, filter.Limit = normalizePage(input.Page, input.Limit)

	items, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &ports.UserPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *UserService) Get(ctx context.Context, actor domain.Actor, ref string) (*domain.User, error) {
	user, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, user) {
		// Out-of-scope reads look identical to absent records.
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, actor domain.Actor, ref string, input ports.UpdateUserInput) (*domain.User, error) {
	user, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !s.canView(actor, user) {
		// Masked like Get: a record the actor cannot see must not leak its
		// existence through a Forbidden response.
		return nil, domain.ErrUserNotFound
	}

	self := user.ID == actor.ID
	if !actor.IsAdmin() && !self {
		return nil, domain.ErrForbidden
	}

	if input.Role != nil {
		// Role is mutable only by an admin.
		if !actor.IsAdmin() {
			return nil, domain.ErrForbidden
		}
		role := domain.NormalizeRole(*input.Role)
		if !domain.IsValidRole(role) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, *input.Role)
		}
		user.Role = role
	}
	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, actor domain.Actor, ref string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	user, err := s.findByRef(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", user.ID).Str("deleted_by", actor.ID).Msg("user deleted")
	return nil
}

func (s *UserService) SetActive(ctx context.Context, actor domain.Actor, ref string, active bool) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	user, err := s.findByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("toggle active: %w", err)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, actor domain.Actor, ref, newPassword string) error {
	user, err := s.findByRef(ctx, ref)
	if err != nil {
		return err
	}
	if !s.canView(actor, user) {
		return domain.ErrUserNotFound
	}
	if !actor.IsAdmin() && user.ID != actor.ID {
		return domain.ErrForbidden
	}
	if len(newPassword) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

// canView applies the user-record visibility rules: admins see everyone,
// anyone sees themselves, managers additionally see employees.
func (s *UserService) canView(actor domain.Actor, user *domain.User) bool {
	if actor.IsAdmin() || user.ID == actor.ID {
		return true
	}
	return actor.IsManager() && domain.NormalizeRole(user.Role) == domain.RoleEmployee
}

func (s *UserService) findByRef(ctx context.Context, ref string) (*domain.User, error) {
	if seq, ok := parseSeqRef(ref); ok {
		return s.users.FindBySeq(ctx, seq)
	}
	return s.users.FindByID(ctx, ref)
}
