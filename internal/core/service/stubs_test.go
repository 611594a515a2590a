package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/taskhive/task-system/internal/core/domain"
	"github.com/taskhive/task-system/internal/core/ports"
)

// In-memory repository stubs. They honor scope filtering the same way the
// mongo implementations do, so out-of-scope records come back as not found.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemUserRepo(users ...*domain.User) *memUserRepo {
	r := &memUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	if user.ID == "" {
		user.ID = fmt.Sprintf("user-%d", len(r.users)+1)
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) FindBySeq(_ context.Context, seq int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Seq == seq {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUserRepo) List(_ context.Context, filter ports.UserFilter) ([]*domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.User
	for _, u := range r.users {
		if len(filter.Roles) > 0 {
			match := false
			for _, role := range filter.Roles {
				if domain.NormalizeRole(u.Role) == role {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		if filter.Active != nil && u.Active != *filter.Active {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memUserRepo) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if domain.NormalizeRole(u.Role) == role {
			n++
		}
	}
	return n, nil
}

type memTaskRepo struct {
	mu    sync.Mutex
	tasks map[string]*domain.Task
	next  int
}

func newMemTaskRepo(tasks ...*domain.Task) *memTaskRepo {
	r := &memTaskRepo{tasks: make(map[string]*domain.Task)}
	for _, t := range tasks {
		r.tasks[t.ID] = t
	}
	return r
}

func taskInScope(t *domain.Task, sc ports.TaskScope) bool {
	if sc.Unrestricted {
		return true
	}
	if sc.UserID != "" && t.AssignedUserID == sc.UserID {
		return true
	}
	if sc.IncludeCreated && t.CreatedBy == sc.UserID {
		return true
	}
	for _, g := range sc.GroupIDs {
		if t.AssignedGroupID == g {
			return true
		}
	}
	return false
}

func (r *memTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	if task.ID == "" {
		task.ID = fmt.Sprintf("task-%d", r.next)
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *memTaskRepo) FindByID(_ context.Context, id string, sc ports.TaskScope) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || !taskInScope(t, sc) {
		return nil, domain.ErrTaskNotFound
	}
	return t, nil
}

func (r *memTaskRepo) FindBySeq(_ context.Context, seq int64, sc ports.TaskScope) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tasks {
		if t.Seq == seq {
			if !taskInScope(t, sc) {
				return nil, domain.ErrTaskNotFound
			}
			return t, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *memTaskRepo) List(_ context.Context, filter ports.ListTasksFilter) ([]*domain.Task, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Task
	for _, t := range r.tasks {
		if !taskInScope(t, filter.Scope) {
			continue
		}
		if filter.Status != "" && t.Status.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.CreatedBy != "" && t.CreatedBy != filter.CreatedBy {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (r *memTaskRepo) Update(_ context.Context, task *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *memTaskRepo) AppendComment(_ context.Context, id string, comment domain.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Comments = append(t.Comments, comment)
	return nil
}

func (r *memTaskRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type memGroupRepo struct {
	mu     sync.Mutex
	groups map[string]*domain.Group
}

func newMemGroupRepo(groups ...*domain.Group) *memGroupRepo {
	r := &memGroupRepo{groups: make(map[string]*domain.Group)}
	for _, g := range groups {
		r.groups[g.ID] = g
	}
	return r
}

func groupInScope(g *domain.Group, sc ports.GroupScope) bool {
	if sc.Unrestricted {
		return true
	}
	if sc.MemberID != "" && (g.LeadID == sc.MemberID || g.HasMember(sc.MemberID)) {
		return true
	}
	return sc.CreatorID != "" && g.CreatedBy == sc.CreatorID
}

func (r *memGroupRepo) Create(_ context.Context, group *domain.Group) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if group.ID == "" {
		group.ID = fmt.Sprintf("group-%d", len(r.groups)+1)
	}
	r.groups[group.ID] = group
	return group, nil
}

func (r *memGroupRepo) FindByID(_ context.Context, id string, sc ports.GroupScope) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok || !groupInScope(g, sc) {
		return nil, domain.ErrGroupNotFound
	}
	return g, nil
}

func (r *memGroupRepo) FindBySeq(_ context.Context, seq int64, sc ports.GroupScope) (*domain.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.Seq == seq {
			if !groupInScope(g, sc) {
				return nil, domain.ErrGroupNotFound
			}
			return g, nil
		}
	}
	return nil, domain.ErrGroupNotFound
}

func (r *memGroupRepo) List(_ context.Context, filter ports.ListGroupsFilter) ([]*domain.Group, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Group
	for _, g := range r.groups {
		if !groupInScope(g, filter.Scope) {
			continue
		}
		if filter.Active != nil && g.Active != *filter.Active {
			continue
		}
		out = append(out, g)
	}
	return out, int64(len(out)), nil
}

func (r *memGroupRepo) Update(_ context.Context, group *domain.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[group.ID]; !ok {
		return domain.ErrGroupNotFound
	}
	r.groups[group.ID] = group
	return nil
}

func (r *memGroupRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.groups[id]; !ok {
		return domain.ErrGroupNotFound
	}
	delete(r.groups, id)
	return nil
}

func (r *memGroupRepo) FindIDsByMember(_ context.Context, userID string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for _, g := range r.groups {
		if g.LeadID == userID || g.HasMember(userID) {
			ids = append(ids, g.ID)
		}
	}
	return ids, nil
}

func (r *memGroupRepo) SetTaskStatus(_ context.Context, groupID, taskID string, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[groupID]
	if !ok {
		return domain.ErrGroupNotFound
	}
	for i := range g.Tasks {
		if g.Tasks[i].TaskID == taskID {
			g.Tasks[i].Status = status
			return nil
		}
	}
	return domain.ErrTaskNotFound
}

type memUserTaskRepo struct {
	mu      sync.Mutex
	indexes map[string]*domain.UserTaskIndex
}

func newMemUserTaskRepo() *memUserTaskRepo {
	return &memUserTaskRepo{indexes: make(map[string]*domain.UserTaskIndex)}
}

func (r *memUserTaskRepo) Get(_ context.Context, userID string) (*domain.UserTaskIndex, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idx, ok := r.indexes[userID]; ok {
		return idx, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memUserTaskRepo) AppendEntry(_ context.Context, userID string, entry domain.UserTaskEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.indexes[userID]
	if !ok {
		idx = &domain.UserTaskIndex{UserID: userID}
		r.indexes[userID] = idx
	}
	idx.Tasks = append(idx.Tasks, entry)
	return nil
}

func (r *memUserTaskRepo) RemoveEntry(_ context.Context, userID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.indexes[userID]
	if !ok {
		return nil
	}
	kept := idx.Tasks[:0]
	for _, e := range idx.Tasks {
		if e.TaskID != taskID {
			kept = append(kept, e)
		}
	}
	idx.Tasks = kept
	return nil
}

func (r *memUserTaskRepo) SetStatus(_ context.Context, userID, taskID string, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx, ok := r.indexes[userID]
	if !ok {
		return nil
	}
	for i := range idx.Tasks {
		if idx.Tasks[i].TaskID == taskID {
			idx.Tasks[i].Status = status
		}
	}
	return nil
}

type memSeqRepo struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func newMemSeqRepo() *memSeqRepo {
	return &memSeqRepo{seqs: make(map[string]int64)}
}

func (r *memSeqRepo) Next(_ context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs[name]++
	return r.seqs[name], nil
}

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	assigned []string // task ids
	statuses []string // "<task id>:<status>"
}

func (n *recordingNotifier) TaskAssigned(_ context.Context, task *domain.Task, _ *domain.User, _ domain.Actor) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, task.ID)
	return nil
}

func (n *recordingNotifier) TaskStatusChanged(_ context.Context, task *domain.Task, _ domain.Actor) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statuses = append(n.statuses, task.ID+":"+string(task.Status.Status))
	return nil
}
