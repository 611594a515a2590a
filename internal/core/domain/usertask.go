package domain

import "time"

// UserTaskEntry is one line in a user's assignment ledger.
type UserTaskEntry struct {
	TaskID     string     `json:"task_id" bson:"task_id"`
	Status     TaskStatus `json:"status" bson:"status"`
	AssignedBy string     `json:"assigned_by" bson:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at" bson:"assigned_at"`
}

// UserTaskIndex is the per-user assignment ledger, a read model derived from
// Task.AssignedUserID. On disagreement the task document wins; the ledger is
// updated best-effort by the same operations that mutate the task.
type UserTaskIndex struct {
	UserID    string          `json:"user_id" bson:"_id"`
	Tasks     []UserTaskEntry `json:"tasks" bson:"tasks"`
	UpdatedAt time.Time       `json:"updated_at" bson:"updated_at"`
}
