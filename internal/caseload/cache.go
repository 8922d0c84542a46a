package caseload

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	platformredis "sprout/internal/platform/redis"
	id "sprout/pkg/domain"
)

// Cache is a short-TTL, read-through cache for per-child rollups.
//
// Keys include the UTC calendar date: a rollup can flip Upcoming→Due→Overdue
// purely by age advancing, so an entry must never outlive the day it was
// computed for. Record writes are NOT an invalidation signal here; the TTL
// bounds staleness instead.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// NewCache returns nil when Redis is not configured; a nil Cache disables
// caching and every read recomputes.
func NewCache(client *platformredis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

func rollupKey(childID id.ChildID, at time.Time) string {
	return fmt.Sprintf("sprout:rollup:%s:%s", childID, at.UTC().Format("2006-01-02"))
}

// Get returns the cached rollup, or (nil, nil) on a miss. Cache errors are
// treated as misses; the caller recomputes.
func (c *Cache) Get(ctx context.Context, childID id.ChildID, at time.Time) (*Rollup, error) {
	if c == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, rollupKey(childID, at)).Bytes()
	if err != nil {
		return nil, nil
	}
	var r Rollup
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, nil
	}
	return &r, nil
}

// Set stores a rollup. Failures are ignored; the cache is an optimization.
func (c *Cache) Set(ctx context.Context, at time.Time, r Rollup) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.client.Set(ctx, rollupKey(r.ChildID, at), raw, c.ttl)
}
