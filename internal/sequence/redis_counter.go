package sequence

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// RedisStore is the subset of the redis client used for counters.
type RedisStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
	CounterKey(name string) string
}

// RedisCounter keeps sequences in redis. A key that INCR creates (first use,
// eviction, flush) or that falls back to a value already handed out by this
// process is lifted past the entity's row count before the value is returned.
type RedisCounter struct {
	store RedisStore
	db    *gorm.DB

	mu   sync.Mutex
	last map[string]int64
}

func NewRedisCounter(store RedisStore, db *gorm.DB) *RedisCounter {
	return &RedisCounter{store: store, db: db, last: map[string]int64{}}
}

func (c *RedisCounter) Next(ctx context.Context, f Format) (int64, error) {
	key := c.store.CounterKey(f.Entity)
	value, err := c.store.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("incr %s counter: %w", f.Entity, err)
	}

	if floor := c.highWater(key); value == 1 || value <= floor {
		var existing int64
		if err := c.db.WithContext(ctx).Table(f.Table).Count(&existing).Error; err != nil {
			return 0, fmt.Errorf("count %s: %w", f.Table, err)
		}
		if floor < existing {
			floor = existing
		}
		if value <= floor {
			value, err = c.store.IncrBy(ctx, key, floor)
			if err != nil {
				return 0, fmt.Errorf("reseed %s counter: %w", f.Entity, err)
			}
		}
	}

	c.record(key, value)
	return value, nil
}

func (c *RedisCounter) highWater(key string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last[key]
}

func (c *RedisCounter) record(key string, value int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value > c.last[key] {
		c.last[key] = value
	}
}
