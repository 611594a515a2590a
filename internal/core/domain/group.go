package domain

import "time"

// GroupTask mirrors a task assigned through a group: the group keeps its own
// view of the task's status alongside who added it and when. Task remains the
// source of truth when the mirror and the task disagree.
type GroupTask struct {
	TaskID     string     `json:"task_id" bson:"task_id"`
	Status     TaskStatus `json:"status" bson:"status"`
	AssignedBy string     `json:"assigned_by" bson:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at" bson:"assigned_at"`
}

// Group is a team of users led by a manager. The lead is always a member.
type Group struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Seq         int64       `json:"seq" bson:"seq"`
	Title       string      `json:"title" bson:"title"`
	Description string      `json:"description" bson:"description"`
	LeadID      string      `json:"lead_id" bson:"lead_id"`
	MemberIDs   []string    `json:"member_ids" bson:"member_ids"`
	Tasks       []GroupTask `json:"tasks" bson:"tasks"`
	CreatedBy   string      `json:"created_by" bson:"created_by"`
	Active      bool        `json:"active" bson:"active"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"`
}

// NormalizeMembers deduplicates the member set and forces the lead into it.
// Called on every write so the lead-is-member invariant survives any input.
func (g *Group) NormalizeMembers() {
	seen := make(map[string]struct{}, len(g.MemberIDs)+1)
	members := make([]string, 0, len(g.MemberIDs)+1)
	if g.LeadID != "" {
		seen[g.LeadID] = struct{}{}
		members = append(members, g.LeadID)
	}
	for _, id := range g.MemberIDs {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}
	g.MemberIDs = members
}

// HasMember reports whether userID is in the member set.
func (g *Group) HasMember(userID string) bool {
	for _, id := range g.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// HasTask reports whether taskID is already linked to the group.
func (g *Group) HasTask(taskID string) bool {
	for _, t := range g.Tasks {
		if t.TaskID == taskID {
			return true
		}
	}
	return false
}

// MemberStats aggregates task outcomes for a single group member. Tasks
// missing a completion or due timestamp are excluded from the on-time and
// delayed counts but still counted as assigned/completed.
type MemberStats struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
	OnTime    int    `json:"completed_on_time"`
	Delayed   int    `json:"delayed"`
}
