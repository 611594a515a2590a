// Package scope builds the visibility predicates applied to every query.
// Handlers and services never construct repository scopes themselves; all
// role-based visibility rules live here so they can be tested in isolation.
package scope

import (
	"context"
	"fmt"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// GroupMembershipReader resolves the group ids a user belongs to. Task
// scoping is a two-step dependent query: membership first, then the task
// filter unions the resolved ids.
type GroupMembershipReader interface {
	FindIDsByMember(ctx context.Context, userID string) ([]string, error)
}

// Engine derives per-actor query scopes for users, tasks, and groups.
type Engine struct {
	groups GroupMembershipReader
}

func NewEngine(groups GroupMembershipReader) *Engine {
	return &Engine{groups: groups}
}

// Users returns the user-list filter for the actor. roleFilter is the raw
// client value; unknown roles are rejected as an invalid filter rather than
// matching nothing, and managers may only ever see employees.
func (e *Engine) Users(actor domain.Actor, roleFilter string) (ports.UserFilter, error) {
	if roleFilter != "" {
		roleFilter = domain.NormalizeRole(roleFilter)
		if !domain.IsValidRole(roleFilter) {
			return ports.UserFilter{}, fmt.Errorf("%w: role %q", domain.ErrInvalidFilter, roleFilter)
		}
	}

	switch actor.Role {
	case domain.RoleAdmin:
		if roleFilter != "" {
			return ports.UserFilter{Roles: []string{roleFilter}}, nil
		}
		return ports.UserFilter{}, nil
	case domain.RoleManager:
		if roleFilter != "" && roleFilter != domain.RoleEmployee {
			return ports.UserFilter{}, fmt.Errorf("%w: managers may only list employees", domain.ErrForbidden)
		}
		return ports.UserFilter{Roles: []string{domain.RoleEmployee}}, nil
	}
	return ports.UserFilter{}, domain.ErrForbidden
}

// Tasks returns the task scope for the actor. Managers see what they created,
// are assigned, or reaches them through group membership; employees only the
// latter two.
func (e *Engine) Tasks(ctx context.Context, actor domain.Actor) (ports.TaskScope, error) {
	if actor.IsAdmin() {
		return ports.TaskScope{Unrestricted: true}, nil
	}

	groupIDs, err := e.groups.FindIDsByMember(ctx, actor.ID)
	if err != nil {
		return ports.TaskScope{}, fmt.Errorf("resolve group membership: %w", err)
	}

	return ports.TaskScope{
		UserID:         actor.ID,
		IncludeCreated: actor.IsManager(),
		GroupIDs:       groupIDs,
	}, nil
}

// Groups returns the group scope for the actor.
func (e *Engine) Groups(actor domain.Actor) ports.GroupScope {
	if actor.IsAdmin() {
		return ports.GroupScope{Unrestricted: true}
	}
	s := ports.GroupScope{MemberID: actor.ID}
	if actor.IsManager() {
		s.CreatorID = actor.ID
	}
	return s
}
