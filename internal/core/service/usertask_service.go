package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// UserTaskService exposes the per-user assignment ledger.
type UserTaskService struct {
	userTasks ports.UserTaskRepository
	users     ports.UserRepository
}

func NewUserTaskService(userTasks ports.UserTaskRepository, users ports.UserRepository) *UserTaskService {
	return &UserTaskService{userTasks: userTasks, users: users}
}

func (s *UserTaskService) ListFor(ctx context.Context, actor domain.Actor, userRef string) (*domain.UserTaskIndex, error) {
	var user *domain.User
	var err error
	if seq, ok := parseSeqRef(userRef); ok {
		user, err = s.users.FindBySeq(ctx, seq)
	} else {
		user, err = s.users.FindByID(ctx, userRef)
	}
	if err != nil {
		return nil, err
	}

	if actor.IsEmployee() && user.ID != actor.ID {
		// A ledger the actor cannot see looks absent, so seq refs cannot be
		// used to probe which user ids exist.
		return nil, domain.ErrUserNotFound
	}

	index, err := s.userTasks.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No ledger yet: an empty one, not an error.
			return &domain.UserTaskIndex{UserID: user.ID, Tasks: []domain.UserTaskEntry{}, UpdatedAt: time.Time{}}, nil
		}
		return nil, fmt.Errorf("load user tasks: %w", err)
	}
	return index, nil
}
