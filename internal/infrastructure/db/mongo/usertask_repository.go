package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskhive/task-system/internal/core/domain"
)

const collectionUserTasks = "user_tasks"

// UserTaskRepository implements the per-user assignment ledger. The document
// _id is the user id; every write is a single atomic update.
type UserTaskRepository struct {
	col *mongo.Collection
}

func NewUserTaskRepository(db *mongo.Database) *UserTaskRepository {
	return &UserTaskRepository{col: db.Collection(collectionUserTasks)}
}

func (r *UserTaskRepository) Get(ctx context.Context, userID string) (*domain.UserTaskIndex, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var index domain.UserTaskIndex
	if err := r.col.FindOne(ctx, bson.M{"_id": userID}).Decode(&index); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user tasks: %w", err)
	}
	return &index, nil
}

func (r *UserTaskRepository) AppendEntry(ctx context.Context, userID string, entry domain.UserTaskEntry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"tasks": entry},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update, opts); err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (r *UserTaskRepository) RemoveEntry(ctx context.Context, userID, taskID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"tasks": bson.M{"task_id": taskID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": userID}, update); err != nil {
		return fmt.Errorf("remove ledger entry: %w", err)
	}
	return nil
}

func (r *UserTaskRepository) SetStatus(ctx context.Context, userID, taskID string, status domain.TaskStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": userID, "tasks.task_id": taskID}
	update := bson.M{"$set": bson.M{
		"tasks.$.status": status,
		"updated_at":     time.Now().UTC(),
	}}
	if _, err := r.col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("set ledger status: %w", err)
	}
	return nil
}
