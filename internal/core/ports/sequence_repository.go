package ports

import "context"

// Named sequences issued by the counter collection.
const (
	SeqUser  = "user"
	SeqTask  = "task"
	SeqGroup = "group"
)

// SequenceRepository issues strictly increasing integers per named sequence.
// Increments must be atomic at the storage layer; gaps are acceptable when a
// caller fails after incrementing.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}
