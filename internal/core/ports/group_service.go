package ports

import (
	"context"

	"github.com/taskhive/task-system/internal/core/domain"
)

// CreateGroupInput carries all data to create a group. The lead is always
// forced into the member set.
type CreateGroupInput struct {
	Title       string
	Description string
	LeadID      string
	MemberIDs   []string
}

// UpdateGroupInput updates group fields; nil means "leave unchanged".
// MemberIDs, when present, replace the whole member set (lead re-added).
type UpdateGroupInput struct {
	Title       *string
	Description *string
	LeadID      *string
	MemberIDs   *[]string
	Active      *bool
}

// ListGroupsInput carries parameters for the group list endpoint.
type ListGroupsInput struct {
	Page  int
	Limit int
}

// GroupPage is one page of groups plus the unpaginated total.
type GroupPage struct {
	Items []*domain.Group
	Total int64
	Page  int
	Limit int
}

// GroupAnalytics is the per-member completion/delay aggregation for a group.
type GroupAnalytics struct {
	GroupID string
	Title   string
	Members []domain.MemberStats
}

// GroupService covers group membership management and derived analytics.
type GroupService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateGroupInput) (*domain.Group, error)
	List(ctx context.Context, actor domain.Actor, input ListGroupsInput) (*GroupPage, error)
	// Mine lists the groups the actor belongs to, regardless of role.
	Mine(ctx context.Context, actor domain.Actor) ([]*domain.Group, error)
	Get(ctx context.Context, actor domain.Actor, ref string) (*domain.Group, error)
	Update(ctx context.Context, actor domain.Actor, ref string, input UpdateGroupInput) (*domain.Group, error)
	Delete(ctx context.Context, actor domain.Actor, ref string) error
	// AddTask links a task to the group and assigns the task to the group.
	// A duplicate task id is rejected, not silently ignored.
	AddTask(ctx context.Context, actor domain.Actor, ref, taskRef string) (*domain.Group, error)
	Analytics(ctx context.Context, actor domain.Actor, ref string) (*GroupAnalytics, error)
}
