package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-system/internal/core/domain"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Deduper suppresses repeat notifications (Redis-backed in production).
type Deduper interface {
	IsDuplicate(ctx context.Context, taskID, recipientID, kind string) (bool, error)
	Mark(ctx context.Context, taskID, recipientID, kind string) error
}

// Dispatcher implements ports.Notifier by routing messages to a fixed set of
// workers, sharded on task id so notifications for one task stay ordered.
// Delivery is best-effort: failures are logged, never propagated.
type Dispatcher struct {
	workers []chan Message
	sink    Sink
	dedup   Deduper
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sink Sink, dedup Deduper, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan Message, numWorkers),
		sink:    sink,
		dedup:   dedup,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan Message, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// TaskAssigned notifies the assignee of a new direct assignment.
func (d *Dispatcher) TaskAssigned(_ context.Context, task *domain.Task, assignee *domain.User, assignedBy domain.Actor) error {
	d.enqueue(Message{
		Kind:           KindTaskAssigned,
		TaskID:         task.ID,
		TaskSeq:        task.Seq,
		TaskTitle:      task.Title,
		RecipientID:    assignee.ID,
		RecipientEmail: assignee.Email,
		ActorName:      assignedBy.Name,
	})
	return nil
}

// TaskStatusChanged notifies the directly-assigned user, if any, of a status
// transition they did not perform themselves.
func (d *Dispatcher) TaskStatusChanged(_ context.Context, task *domain.Task, updatedBy domain.Actor) error {
	if task.AssignedUserID == "" || task.AssignedUserID == updatedBy.ID {
		return nil
	}
	status := string(task.Status.Status)
	d.enqueue(Message{
		Kind:        KindStatusChanged + ":" + status,
		TaskID:      task.ID,
		TaskSeq:     task.Seq,
		TaskTitle:   task.Title,
		Status:      status,
		RecipientID: task.AssignedUserID,
		ActorName:   updatedBy.Name,
	})
	return nil
}

// enqueue sends a message to the worker responsible for its task id.
func (d *Dispatcher) enqueue(msg Message) {
	d.workers[d.shardIndex(msg.TaskID)] <- msg
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, msg Message) {
	isDup, err := d.dedup.IsDuplicate(ctx, msg.TaskID, msg.RecipientID, msg.Kind)
	if err != nil {
		d.log.Warn().Err(err).Str("task_id", msg.TaskID).Msg("notification dedup check failed, sending anyway")
	} else if isDup {
		d.log.Debug().Str("task_id", msg.TaskID).Str("kind", msg.Kind).Msg("duplicate notification skipped")
		return
	}

	if markErr := d.dedup.Mark(ctx, msg.TaskID, msg.RecipientID, msg.Kind); markErr != nil {
		d.log.Warn().Err(markErr).Str("task_id", msg.TaskID).Msg("failed to set notification dedup key")
	}

	if err := d.sink.Send(ctx, msg); err != nil {
		d.log.Error().Err(err).
			Str("task_id", msg.TaskID).
			Int("worker_id", workerID).
			Msg("notification delivery failed")
	}
}
