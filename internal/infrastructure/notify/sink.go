package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Notification kinds. Status-change kinds embed the new status so the dedup
// key distinguishes distinct transitions on the same task.
const (
	KindTaskAssigned  = "task_assigned"
	KindStatusChanged = "status_changed"
)

// Message is one outbound notification.
type Message struct {
	Kind           string
	TaskID         string
	TaskSeq        int64
	TaskTitle      string
	Status         string
	RecipientID    string
	RecipientEmail string
	ActorName      string
}

// Sink delivers a single message. Actual mail transport is an external
// collaborator; LogSink stands in by emitting structured log records.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// LogSink writes notifications to the structured log.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Send(_ context.Context, msg Message) error {
	s.log.Info().
		Str("kind", msg.Kind).
		Str("task_id", msg.TaskID).
		Int64("task_seq", msg.TaskSeq).
		Str("recipient", msg.RecipientEmail).
		Str("status", msg.Status).
		Str("actor", msg.ActorName).
		Msg("notification dispatched")
	return nil
}
