package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
	"github.com/taskhive/task-system/internal/core/scope"
)

// GroupService implements group membership management, task linkage, and the
// derived per-member analytics.
type GroupService struct {
	groups    ports.GroupRepository
	users     ports.UserRepository
	tasks     ports.TaskRepository
	userTasks ports.UserTaskRepository
	seq       ports.SequenceRepository
	scopes    *scope.Engine
	log       zerolog.Logger
}

func NewGroupService(
	groups ports.GroupRepository,
	users ports.UserRepository,
	tasks ports.TaskRepository,
	userTasks ports.UserTaskRepository,
	seq ports.SequenceRepository,
	scopes *scope.Engine,
	log zerolog.Logger,
) *GroupService {
	return &GroupService{
		groups:    groups,
		users:     users,
		tasks:     tasks,
		userTasks: userTasks,
		seq:       seq,
		scopes:    scopes,
		log:       log,
	}
}

func (s *GroupService) Create(ctx context.Context, actor domain.Actor, input ports.CreateGroupInput) (*domain.Group, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	if input.Title == "" || input.LeadID == "" {
		return nil, fmt.Errorf("%w: title and lead are required", domain.ErrInvalidInput)
	}
	if err := s.validateLead(ctx, input.LeadID); err != nil {
		return nil, err
	}
	if err := s.validateMembers(ctx, input.MemberIDs); err != nil {
		return nil, err
	}

	seq, err := s.seq.Next(ctx, ports.SeqGroup)
	if err != nil {
		return nil, fmt.Errorf("next group sequence: %w", err)
	}

	now := time.Now().UTC()
	group := &domain.Group{
		Seq:         seq,
		Title:       input.Title,
		Description: input.Description,
		LeadID:      input.LeadID,
		MemberIDs:   input.MemberIDs,
		CreatedBy:   actor.ID,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	group.NormalizeMembers()

	created, err := s.groups.Create(ctx, group)
	if err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	s.log.Info().Str("group_id", created.ID).Int64("seq", created.Seq).Str("created_by", actor.ID).Msg("group created")
	return created, nil
}

func (s *GroupService) List(ctx context.Context, actor domain.Actor, input ports.ListGroupsInput) (*ports.GroupPage, error) {
	filter := ports.ListGroupsFilter{Scope: s.scopes.Groups(actor)}
	filter.Page, filter.Limit = normalizePage(input.Page, input.Limit)

	items, total, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return &ports.GroupPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Mine lists groups where the actor is lead or member, ignoring creator
// visibility: this is the "my teams" view, identical for every role.
func (s *GroupService) Mine(ctx context.Context, actor domain.Actor) ([]*domain.Group, error) {
	items, _, err := s.groups.List(ctx, ports.ListGroupsFilter{
		Scope: ports.GroupScope{MemberID: actor.ID},
		Page:  1,
		Limit: maxLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list my groups: %w", err)
	}
	return items, nil
}

func (s *GroupService) Get(ctx context.Context, actor domain.Actor, ref string) (*domain.Group, error) {
	return s.findScoped(ctx, actor, ref)
}

func (s *GroupService) Update(ctx context.Context, actor domain.Actor, ref string, input ports.UpdateGroupInput) (*domain.Group, error) {
	group, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	if !s.canModify(actor, group) {
		return nil, domain.ErrForbidden
	}

	if input.LeadID != nil && *input.LeadID != group.LeadID {
		if err := s.validateLead(ctx, *input.LeadID); err != nil {
			return nil, err
		}
		group.LeadID = *input.LeadID
	}
	if input.MemberIDs != nil {
		if err := s.validateMembers(ctx, *input.MemberIDs); err != nil {
			return nil, err
		}
		group.MemberIDs = *input.MemberIDs
	}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		group.Title = *input.Title
	}
	if input.Description != nil {
		group.Description = *input.Description
	}
	if input.Active != nil {
		group.Active = *input.Active
	}

	group.NormalizeMembers()
	group.UpdatedAt = time.Now().UTC()

	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("update group: %w", err)
	}
	return group, nil
}

func (s *GroupService) Delete(ctx context.Context, actor domain.Actor, ref string) error {
	group, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && group.CreatedBy != actor.ID {
		return domain.ErrForbidden
	}
	if err := s.groups.Delete(ctx, group.ID); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	s.log.Info().Str("group_id", group.ID).Str("deleted_by", actor.ID).Msg("group deleted")
	return nil
}

// AddTask links a task to the group and assigns the task to the group. The
// two writes are not transactional; the task document is authoritative when
// they disagree.
func (s *GroupService) AddTask(ctx context.Context, actor domain.Actor, ref, taskRef string) (*domain.Group, error) {
	group, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	if !s.canModify(actor, group) {
		return nil, domain.ErrForbidden
	}
	if !group.Active {
		return nil, fmt.Errorf("%w: group %s", domain.ErrInactiveTarget, group.ID)
	}

	task, err := s.findTaskByRef(ctx, taskRef)
	if err != nil {
		return nil, err
	}
	if group.HasTask(task.ID) {
		return nil, domain.ErrDuplicateGroupTask
	}

	now := time.Now().UTC()
	group.Tasks = append(group.Tasks, domain.GroupTask{
		TaskID:     task.ID,
		Status:     task.Status.Status,
		AssignedBy: actor.ID,
		AssignedAt: now,
	})
	group.UpdatedAt = now
	if err := s.groups.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("add task to group: %w", err)
	}

	prevUser, prevGroup := task.AssignedUserID, task.AssignedGroupID
	task.AssignGroup(group.ID, actor.ID, now)
	if err := s.tasks.Update(ctx, task); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Str("group_id", group.ID).Msg("task assignment write failed after group link")
		return group, nil
	}
	if prevUser != "" {
		if err := s.userTasks.RemoveEntry(ctx, prevUser, task.ID); err != nil {
			s.log.Warn().Err(err).Str("task_id", task.ID).Str("user_id", prevUser).Msg("user-task ledger remove failed")
		}
	}
	if prevGroup != "" && prevGroup != group.ID {
		s.dropStaleMirror(ctx, prevGroup, task.ID)
	}
	return group, nil
}

// dropStaleMirror pulls a task out of the mirror of the group it used to be
// assigned to. Best-effort: the task document is authoritative.
func (s *GroupService) dropStaleMirror(ctx context.Context, groupID, taskID string) {
	prev, err := s.groups.FindByID(ctx, groupID, unrestrictedGroupScope)
	if err != nil {
		s.log.Warn().Err(err).Str("task_id", taskID).Str("group_id", groupID).Msg("group mirror load failed")
		return
	}
	kept := prev.Tasks[:0]
	for _, gt := range prev.Tasks {
		if gt.TaskID != taskID {
			kept = append(kept, gt)
		}
	}
	prev.Tasks = kept
	if err := s.groups.Update(ctx, prev); err != nil {
		s.log.Warn().Err(err).Str("task_id", taskID).Str("group_id", groupID).Msg("group mirror remove failed")
	}
}

// Analytics derives per-member completion counts from the tasks linked to the
// group. A task counts toward a member only while it is directly assigned to
// them, so group-assigned tasks contribute to no member's counts until they
// are handed to an individual; on-time/delayed require both a completion and
// a due timestamp.
func (s *GroupService) Analytics(ctx context.Context, actor domain.Actor, ref string) (*ports.GroupAnalytics, error) {
	group, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}

	tasks := make([]*domain.Task, 0, len(group.Tasks))
	for _, gt := range group.Tasks {
		task, err := s.tasks.FindByID(ctx, gt.TaskID, unrestrictedTaskScope)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // task deleted after linkage
			}
			return nil, fmt.Errorf("load group task: %w", err)
		}
		tasks = append(tasks, task)
	}

	result := &ports.GroupAnalytics{GroupID: group.ID, Title: group.Title}
	for _, memberID := range group.MemberIDs {
		stats := domain.MemberStats{UserID: memberID}
		if member, err := s.users.FindByID(ctx, memberID); err == nil {
			stats.Name = member.Name
		}
		for _, t := range tasks {
			if t.AssignedUserID != memberID {
				continue
			}
			stats.Assigned++
			if t.Status.Status != domain.StatusCompleted {
				continue
			}
			stats.Completed++
			if t.CompletedAt == nil || t.DueAt == nil {
				continue
			}
			if t.CompletedAt.After(*t.DueAt) {
				stats.Delayed++
			} else {
				stats.OnTime++
			}
		}
		result.Members = append(result.Members, stats)
	}
	return result, nil
}

// --- helpers ---

func (s *GroupService) findScoped(ctx context.Context, actor domain.Actor, ref string) (*domain.Group, error) {
	groupScope := s.scopes.Groups(actor)
	if seq, ok := parseSeqRef(ref); ok {
		return s.groups.FindBySeq(ctx, seq, groupScope)
	}
	return s.groups.FindByID(ctx, ref, groupScope)
}

func (s *GroupService) findTaskByRef(ctx context.Context, ref string) (*domain.Task, error) {
	if seq, ok := parseSeqRef(ref); ok {
		return s.tasks.FindBySeq(ctx, seq, unrestrictedTaskScope)
	}
	return s.tasks.FindByID(ctx, ref, unrestrictedTaskScope)
}

func (s *GroupService) canModify(actor domain.Actor, group *domain.Group) bool {
	return actor.IsAdmin() || group.CreatedBy == actor.ID || group.LeadID == actor.ID
}

// validateLead requires the lead to resolve to an active manager.
func (s *GroupService) validateLead(ctx context.Context, leadID string) error {
	lead, err := s.users.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: group lead does not exist", domain.ErrInvalidInput)
		}
		return err
	}
	if !lead.Active || domain.NormalizeRole(lead.Role) != domain.RoleManager {
		return fmt.Errorf("%w: group lead must be an active manager", domain.ErrInvalidInput)
	}
	return nil
}

// validateMembers requires every member to resolve to an active manager or
// employee.
func (s *GroupService) validateMembers(ctx context.Context, memberIDs []string) error {
	for _, id := range memberIDs {
		member, err := s.users.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: member %s does not exist", domain.ErrInvalidInput, id)
			}
			return err
		}
		role := domain.NormalizeRole(member.Role)
		if !member.Active || (role != domain.RoleManager && role != domain.RoleEmployee) {
			return fmt.Errorf("%w: member %s must be an active manager or employee", domain.ErrInvalidInput, id)
		}
	}
	return nil
}
