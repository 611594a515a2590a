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
	"github.com/taskhive/task-system/internal/core/ports"
)

const collectionGroups = "groups"

// GroupRepository implements ports.GroupRepository on MongoDB.
type GroupRepository struct {
	col *mongo.Collection
}

func NewGroupRepository(db *mongo.Database) *GroupRepository {
	return &GroupRepository{col: db.Collection(collectionGroups)}
}

// groupScopeQuery translates a GroupScope into a bson filter: lead, member,
// or (managers) creator.
func groupScopeQuery(scope ports.GroupScope) bson.M {
	if scope.Unrestricted {
		return bson.M{}
	}
	or := []bson.M{
		{"lead_id": scope.MemberID},
		{"member_ids": scope.MemberID},
	}
	if scope.CreatorID != "" {
		or = append(or, bson.M{"created_by": scope.CreatorID})
	}
	return bson.M{"$or": or}
}

func (r *GroupRepository) Create(ctx context.Context, group *domain.Group) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	group.ID = newID()
	if _, err := r.col.InsertOne(ctx, group); err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return group, nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id string, scope ports.GroupScope) (*domain.Group, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	query := groupScopeQuery(scope)
	query["_id"] = id
	return r.findOne(ctx, query)
}

func (r *GroupRepository) FindBySeq(ctx context.Context, seq int64, scope ports.GroupScope) (*domain.Group, error) {
	query := groupScopeQuery(scope)
	query["seq"] = seq
	return r.findOne(ctx, query)
}

func (r *GroupRepository) List(ctx context.Context, filter ports.ListGroupsFilter) ([]*domain.Group, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := groupScopeQuery(filter.Scope)
	if filter.Active != nil {
		query["active"] = *filter.Active
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count groups: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "seq", Value: 1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find groups: %w", err)
	}
	defer cur.Close(ctx)

	var groups []*domain.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, 0, fmt.Errorf("decode groups: %w", err)
	}
	return groups, total, nil
}

func (r *GroupRepository) Update(ctx context.Context, group *domain.Group) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": group.ID}, group)
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

// FindIDsByMember returns the ids of all groups the user leads or belongs to.
func (r *GroupRepository) FindIDsByMember(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{"$or": []bson.M{
		{"lead_id": userID},
		{"member_ids": userID},
	}}
	opts := options.Find().SetProjection(bson.M{"_id": 1})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find groups by member: %w", err)
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode group ids: %w", err)
	}
	ids := make([]string, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// SetTaskStatus atomically updates the mirrored status of one task entry via
// a positional update; the rest of the group document is untouched.
func (r *GroupRepository) SetTaskStatus(ctx context.Context, groupID, taskID string, status domain.TaskStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": groupID, "tasks.task_id": taskID}
	update := bson.M{"$set": bson.M{
		"tasks.$.status": status,
		"updated_at":     time.Now().UTC(),
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("set group task status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r *GroupRepository) findOne(ctx context.Context, query bson.M) (*domain.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var group domain.Group
	if err := r.col.FindOne(ctx, query).Decode(&group); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, fmt.Errorf("find group: %w", err)
	}
	return &group, nil
}
