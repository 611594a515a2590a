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

// unrestricted is used for internal record loads that have already passed an
// authorization check, e.g. resolving an assignment target.
var unrestrictedTaskScope = ports.TaskScope{Unrestricted: true}
var unrestrictedGroupScope = ports.GroupScope{Unrestricted: true}

// TaskService implements the task lifecycle. Visibility is enforced by
// querying through the actor's scope; mutation permissions are checked per
// operation on the loaded record.
type TaskService struct {
	tasks     ports.TaskRepository
	users     ports.UserRepository
	groups    ports.GroupRepository
	userTasks ports.UserTaskRepository
	seq       ports.SequenceRepository
	scopes    *scope.Engine
	notifier  ports.Notifier
	log       zerolog.Logger
}

func NewTaskService(
	tasks ports.TaskRepository,
	users ports.UserRepository,
	groups ports.GroupRepository,
	userTasks ports.UserTaskRepository,
	seq ports.SequenceRepository,
	scopes *scope.Engine,
	notifier ports.Notifier,
	log zerolog.Logger,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		users:     users,
		groups:    groups,
		userTasks: userTasks,
		seq:       seq,
		scopes:    scopes,
		notifier:  notifier,
		log:       log,
	}
}

func (s *TaskService) Create(ctx context.Context, actor domain.Actor, input ports.CreateTaskInput) (*domain.Task, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if input.AssignUserID != "" && input.AssignGroupID != "" {
		return nil, domain.ErrAssignmentConflict
	}
	if len(input.Attachments) > domain.MaxAttachments {
		return nil, domain.ErrAttachmentLimit
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		p, err := domain.ParsePriority(input.Priority)
		if err != nil {
			return nil, err
		}
		priority = p
	}

	now := time.Now().UTC()

	// Validate assignment targets before any record is created.
	var assignee *domain.User
	if input.AssignUserID != "" {
		u, err := s.assignableUser(ctx, actor, input.AssignUserID)
		if err != nil {
			return nil, err
		}
		assignee = u
	}
	var group *domain.Group
	if input.AssignGroupID != "" {
		g, err := s.assignableGroup(ctx, input.AssignGroupID)
		if err != nil {
			return nil, err
		}
		group = g
	}

	seq, err := s.seq.Next(ctx, ports.SeqTask)
	if err != nil {
		return nil, fmt.Errorf("next task sequence: %w", err)
	}

	task := &domain.Task{
		Seq:         seq,
		Title:       input.Title,
		Description: input.Description,
		Priority:    priority,
		DueAt:       input.DueAt,
		CreatedBy:   actor.ID,
		Status:      domain.StatusRecord{Status: domain.StatusTodo, Timestamp: now, UpdatedBy: actor.ID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, a := range input.Attachments {
		task.Attachments = append(task.Attachments, domain.Attachment{
			Name: a.Name, URL: a.URL, UploadedBy: actor.ID, UploadedAt: now,
		})
	}
	if assignee != nil {
		task.AssignedUserID = assignee.ID
	}
	if group != nil {
		task.AssignedGroupID = group.ID
	}

	created, err := s.tasks.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	if assignee != nil {
		s.recordUserAssignment(ctx, created, assignee, actor)
	}
	if group != nil {
		s.mirrorGroupAssignment(ctx, group, created, actor)
	}

	s.log.Info().Str("task_id", created.ID).Int64("seq", created.Seq).Str("created_by", actor.ID).Msg("task created")
	return created, nil
}

func (s *TaskService) List(ctx context.Context, actor domain.Actor, input ports.ListTasksInput) (*ports.TaskPage, error) {
	taskScope, err := s.scopes.Tasks(ctx, actor)
	if err != nil {
		return nil, err
	}

	filter := ports.ListTasksFilter{Scope: taskScope, CreatedBy: input.CreatedBy}
	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: status %q", domain.ErrInvalidFilter, input.Status)
		}
		filter.Status = status
	}
	if input.Priority != "" {
		priority, err := domain.ParsePriority(input.Priority)
		if err != nil {
			return nil, fmt.Errorf("%w: priority %q", domain.ErrInvalidFilter, input.Priority)
		}
		filter.Priority = priority
	}
	filter.Page, filter.Limit = normalizePage(input.Page, input.Limit)

	items, total, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return &ports.TaskPage{Items: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *TaskService) Get(ctx context.Context, actor domain.Actor, ref string) (*domain.Task, error) {
	return s.findScoped(ctx, actor, ref)
}

func (s *TaskService) Update(ctx context.Context, actor domain.Actor, ref string, input ports.UpdateTaskInput) (*domain.Task, error) {
	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	// Employees may only move status, never edit fields.
	if !actor.IsAdmin() && !actor.IsManager() && task.CreatedBy != actor.ID {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	if input.Title != nil {
		if *input.Title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		p, err := domain.ParsePriority(*input.Priority)
		if err != nil {
			return nil, err
		}
		task.Priority = p
	}
	if input.ClearDue {
		task.DueAt = nil
	} else if input.DueAt != nil {
		task.DueAt = input.DueAt
	}
	if input.Attachments != nil {
		if len(*input.Attachments) > domain.MaxAttachments {
			return nil, domain.ErrAttachmentLimit
		}
		task.Attachments = nil
		for _, a := range *input.Attachments {
			task.Attachments = append(task.Attachments, domain.Attachment{
				Name: a.Name, URL: a.URL, UploadedBy: actor.ID, UploadedAt: now,
			})
		}
	}
	task.UpdatedAt = now

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (s *TaskService) UpdateStatus(ctx context.Context, actor domain.Actor, ref string, input ports.UpdateStatusInput) (*domain.Task, error) {
	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	if !s.canUpdateStatus(actor, task) {
		return nil, domain.ErrForbidden
	}

	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if !task.ApplyStatus(status, actor.ID, input.Comment, now) {
		// Same status: idempotent, no history entry, no write.
		return task, nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	s.syncStatusMirrors(ctx, task)

	if err := s.notifier.TaskStatusChanged(ctx, task, actor); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("status notification failed")
	}
	s.log.Info().Str("task_id", task.ID).Str("status", string(status)).Str("updated_by", actor.ID).Msg("task status updated")
	return task, nil
}

func (s *TaskService) Assign(ctx context.Context, actor domain.Actor, ref string, input ports.AssignTaskInput) (*domain.Task, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	if input.UserID != "" && input.GroupID != "" {
		return nil, domain.ErrAssignmentConflict
	}
	if input.UserID == "" && input.GroupID == "" {
		return nil, fmt.Errorf("%w: assignment target is required", domain.ErrInvalidInput)
	}

	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	prevUser, prevGroup := task.AssignedUserID, task.AssignedGroupID

	if input.UserID != "" {
		assignee, err := s.assignableUser(ctx, actor, input.UserID)
		if err != nil {
			return nil, err
		}
		task.AssignUser(assignee.ID, actor.ID, now)
		if err := s.tasks.Update(ctx, task); err != nil {
			return nil, fmt.Errorf("assign task: %w", err)
		}
		s.dropOldAssignment(ctx, task.ID, prevUser, prevGroup, assignee.ID, "")
		s.recordUserAssignment(ctx, task, assignee, actor)
		return task, nil
	}

	group, err := s.assignableGroup(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}
	task.AssignGroup(group.ID, actor.ID, now)
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("assign task: %w", err)
	}
	s.dropOldAssignment(ctx, task.ID, prevUser, prevGroup, "", group.ID)
	s.mirrorGroupAssignment(ctx, group, task, actor)
	return task, nil
}

func (s *TaskService) Unassign(ctx context.Context, actor domain.Actor, ref string) (*domain.Task, error) {
	if !actor.IsAdmin() && !actor.IsManager() {
		return nil, domain.ErrForbidden
	}
	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}

	prevUser, prevGroup := task.AssignedUserID, task.AssignedGroupID
	task.ClearAssignment(time.Now().UTC())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("unassign task: %w", err)
	}
	s.dropOldAssignment(ctx, task.ID, prevUser, prevGroup, "", "")
	return task, nil
}

// AddComment appends an immutable comment. Anyone who can see the task may
// comment; the scoped find is the permission check.
func (s *TaskService) AddComment(ctx context.Context, actor domain.Actor, ref, text string) (*domain.Task, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", domain.ErrInvalidInput)
	}
	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}

	comment := domain.Comment{
		AuthorID:  actor.ID,
		Author:    actor.Name,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tasks.AppendComment(ctx, task.ID, comment); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	task.Comments = append(task.Comments, comment)
	return task, nil
}

// Reopen forces a terminal task back to todo. Restricted to admins and the
// task creator; this does not inherit the broader status-update permission.
func (s *TaskService) Reopen(ctx context.Context, actor domain.Actor, ref, comment string) (*domain.Task, error) {
	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && task.CreatedBy != actor.ID {
		return nil, domain.ErrForbidden
	}
	if !task.Status.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: only completed or closed tasks can be reopened", domain.ErrInvalidInput)
	}

	task.Reopen(actor.ID, comment, time.Now().UTC())
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("reopen task: %w", err)
	}
	s.syncStatusMirrors(ctx, task)

	// A reopen is a status change for whoever holds the task.
	if err := s.notifier.TaskStatusChanged(ctx, task, actor); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Msg("status notification failed")
	}
	s.log.Info().Str("task_id", task.ID).Str("reopened_by", actor.ID).Msg("task reopened")
	return task, nil
}

func (s *TaskService) Delete(ctx context.Context, actor domain.Actor, ref string) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	task, err := s.findScoped(ctx, actor, ref)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	s.dropOldAssignment(ctx, task.ID, task.AssignedUserID, task.AssignedGroupID, "", "")
	s.log.Info().Str("task_id", task.ID).Str("deleted_by", actor.ID).Msg("task deleted")
	return nil
}

// --- helpers ---

func (s *TaskService) findScoped(ctx context.Context, actor domain.Actor, ref string) (*domain.Task, error) {
	taskScope, err := s.scopes.Tasks(ctx, actor)
	if err != nil {
		return nil, err
	}
	if seq, ok := parseSeqRef(ref); ok {
		return s.tasks.FindBySeq(ctx, seq, taskScope)
	}
	return s.tasks.FindByID(ctx, ref, taskScope)
}

func (s *TaskService) canUpdateStatus(actor domain.Actor, task *domain.Task) bool {
	return actor.IsAdmin() || actor.IsManager() ||
		task.CreatedBy == actor.ID || task.AssignedUserID == actor.ID
}

// assignableUser validates a user assignment target: must exist, be active,
// and hold a role the actor may assign to.
func (s *TaskService) assignableUser(ctx context.Context, actor domain.Actor, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: assigned user does not exist", domain.ErrInvalidInput)
		}
		return nil, err
	}
	if !user.Active {
		return nil, fmt.Errorf("%w: user %s", domain.ErrInactiveTarget, user.ID)
	}
	if !domain.CanAssignRole(actor.Role, user.Role) {
		return nil, fmt.Errorf("%w: role %s may not assign to %s", domain.ErrForbidden, actor.Role, domain.NormalizeRole(user.Role))
	}
	return user, nil
}

// assignableGroup validates a group assignment target: must exist and be active.
func (s *TaskService) assignableGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := s.groups.FindByID(ctx, groupID, unrestrictedGroupScope)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: assigned group does not exist", domain.ErrInvalidInput)
		}
		return nil, err
	}
	if !group.Active {
		return nil, fmt.Errorf("%w: group %s", domain.ErrInactiveTarget, group.ID)
	}
	return group, nil
}

// recordUserAssignment updates the per-user ledger and notifies the assignee.
// Both are best-effort: the task document is authoritative.
func (s *TaskService) recordUserAssignment(ctx context.Context, task *domain.Task, assignee *domain.User, actor domain.Actor) {
	entry := domain.UserTaskEntry{
		TaskID:     task.ID,
		Status:     task.Status.Status,
		AssignedBy: actor.ID,
		AssignedAt: time.Now().UTC(),
	}
	if err := s.userTasks.AppendEntry(ctx, assignee.ID, entry); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Str("user_id", assignee.ID).Msg("user-task ledger append failed")
	}
	if err := s.notifier.TaskAssigned(ctx, task, assignee, actor); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Str("user_id", assignee.ID).Msg("assignment notification failed")
	}
}

// mirrorGroupAssignment appends the task to the group's mirrored task list.
func (s *TaskService) mirrorGroupAssignment(ctx context.Context, group *domain.Group, task *domain.Task, actor domain.Actor) {
	if group.HasTask(task.ID) {
		return
	}
	group.Tasks = append(group.Tasks, domain.GroupTask{
		TaskID:     task.ID,
		Status:     task.Status.Status,
		AssignedBy: actor.ID,
		AssignedAt: time.Now().UTC(),
	})
	if err := s.groups.Update(ctx, group); err != nil {
		s.log.Warn().Err(err).Str("task_id", task.ID).Str("group_id", group.ID).Msg("group task mirror update failed")
	}
}

// dropOldAssignment removes stale ledger and mirror entries after an
// assignment change. newUser/newGroup guard against dropping the entry that
// was just written.
func (s *TaskService) dropOldAssignment(ctx context.Context, taskID, prevUser, prevGroup, newUser, newGroup string) {
	if prevUser != "" && prevUser != newUser {
		if err := s.userTasks.RemoveEntry(ctx, prevUser, taskID); err != nil {
			s.log.Warn().Err(err).Str("task_id", taskID).Str("user_id", prevUser).Msg("user-task ledger remove failed")
		}
	}
	if prevGroup != "" && prevGroup != newGroup {
		group, err := s.groups.FindByID(ctx, prevGroup, unrestrictedGroupScope)
		if err != nil {
			s.log.Warn().Err(err).Str("task_id", taskID).Str("group_id", prevGroup).Msg("group mirror load failed")
			return
		}
		kept := group.Tasks[:0]
		for _, gt := range group.Tasks {
			if gt.TaskID != taskID {
				kept = append(kept, gt)
			}
		}
		group.Tasks = kept
		if err := s.groups.Update(ctx, group); err != nil {
			s.log.Warn().Err(err).Str("task_id", taskID).Str("group_id", prevGroup).Msg("group mirror remove failed")
		}
	}
}

// syncStatusMirrors pushes the live status into the group mirror and the
// user ledger. Mirrors may lag on failure; the task document wins.
func (s *TaskService) syncStatusMirrors(ctx context.Context, task *domain.Task) {
	status := task.Status.Status
	if task.AssignedGroupID != "" {
		if err := s.groups.SetTaskStatus(ctx, task.AssignedGroupID, task.ID, status); err != nil {
			s.log.Warn().Err(err).Str("task_id", task.ID).Str("group_id", task.AssignedGroupID).Msg("group status mirror failed")
		}
	}
	if task.AssignedUserID != "" {
		if err := s.userTasks.SetStatus(ctx, task.AssignedUserID, task.ID, status); err != nil {
			s.log.Warn().Err(err).Str("task_id", task.ID).Str("user_id", task.AssignedUserID).Msg("ledger status mirror failed")
		}
	}
}
