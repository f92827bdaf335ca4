// Package dedup suppresses re-processing of storage events the notification
// platform redelivers. It is a best-effort shortcut in front of the index's
// own idempotent upsert, not a correctness mechanism: a Redis miss or outage
// just means the event is ingested again, which is safe.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long a processed event is remembered. Redeliveries
	// happen within minutes; a day is ample.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "legaldocs:ingested:"
)

// Filter tracks which storage events have already been processed.
// A nil *Filter is valid and reports every event as new.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a dedup filter backed by Redis.
func NewFilter(rdb *redis.Client) *Filter {
	return &Filter{rdb: rdb, ttl: DefaultTTL}
}

// IsNew reports whether this bucket/object/generation combination has not
// been seen before, marking it seen atomically (SETNX) when it is new.
func (f *Filter) IsNew(ctx context.Context, bucket, objectName, generation string) (bool, error) {
	if f == nil {
		return true, nil
	}

	key := fmt.Sprintf("%s%s/%s#%s", keyPrefix, bucket, objectName, generation)

	set, err := f.rdb.SetNX(ctx, key, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}
	return set, nil
}
