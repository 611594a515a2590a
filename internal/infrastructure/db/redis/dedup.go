package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker suppresses repeat notifications backed by Redis.
// Key format: notify:<task_id>:<recipient_id>:<kind>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether an identical notification was sent within the TTL.
func (d *DedupChecker) IsDuplicate(ctx context.Context, taskID, recipientID, kind string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(taskID, recipientID, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this notification has been sent (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, taskID, recipientID, kind string) error {
	return d.client.Set(ctx, d.key(taskID, recipientID, kind), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(taskID, recipientID, kind string) string {
	return fmt.Sprintf("notify:%s:%s:%s", taskID, recipientID, kind)
}
