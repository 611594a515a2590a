package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// GroupScope restricts which group documents a query may touch.
// When Unrestricted is false the visible set is the union of groups where
// MemberID is the lead or a member, plus groups created by CreatorID
// (CreatorID is empty for employees).
type GroupScope struct {
	Unrestricted bool
	MemberID     string
	CreatorID    string
}

// ListGroupsFilter carries query parameters for listing groups.
type ListGroupsFilter struct {
	Scope  GroupScope
	Active *bool
	Page   int // 1-based
	Limit  int
}

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) (*domain.Group, error)
	FindByID(ctx context.Context, id string, scope GroupScope) (*domain.Group, error)
	FindBySeq(ctx context.Context, seq int64, scope GroupScope) (*domain.Group, error)
	List(ctx context.Context, filter ListGroupsFilter) ([]*domain.Group, int64, error)
	Update(ctx context.Context, group *domain.Group) error
	Delete(ctx context.Context, id string) error
	// FindIDsByMember resolves the set of group ids the user belongs to
	// (as lead or member). This is the first leg of the two-step task scope.
	FindIDsByMember(ctx context.Context, userID string) ([]string, error)
	// SetTaskStatus updates the mirrored status of one task inside the
	// group's task list.
	SetTaskStatus(ctx context.Context, groupID, taskID string, status domain.TaskStatus) error
}
