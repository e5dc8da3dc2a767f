package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	viewKeyPattern = keyPrefix + "view:*"
	// outside viewKeyPattern so invalidation never resets it
	viewGenKey = keyPrefix + "view_gen"
)

// ViewCache stores rendered read views as JSON (cache-aside).
// Any write to books, reviews or notes bumps the generation and drops
// every entry; a Set carrying an older generation is discarded.
type ViewCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewViewCache creates the view cache
func NewViewCache(client *redis.Client, ttl time.Duration) *ViewCache {
	return &ViewCache{client: client, ttl: ttl}
}

func viewKey(name string) string {
	return keyPrefix + "view:" + name
}

// Generation returns the current write generation (0 before any write)
func (c *ViewCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, viewGenKey).Int64()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, fmt.Errorf("get cache generation: %w", err)
	}
	return gen, nil
}

// Get decodes the entry into dst. A miss returns false without error.
func (c *ViewCache) Get(ctx context.Context, name string, dst interface{}) (bool, error) {
	val, err := c.client.Get(ctx, viewKey(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("get cache: %w", err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	return true, nil
}

// Set stores v under name with the configured ttl, provided no write
// happened since gen was read. A stale v is dropped silently.
func (c *ViewCache) Set(ctx context.Context, name string, gen int64, v interface{}) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, viewGenKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, viewKey(name), val, c.ttl)
			return nil
		})
		return err
	}, viewGenKey)
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("set cache: %w", err)
	}
	return nil
}

// InvalidateAll bumps the generation, then drops every view entry
// (SCAN + UNLINK, never KEYS)
func (c *ViewCache) InvalidateAll(ctx context.Context) error {
	if err := c.client.Incr(ctx, viewGenKey).Err(); err != nil {
		return fmt.Errorf("bump cache generation: %w", err)
	}

	iter := c.client.Scan(ctx, 0, viewKeyPattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cache keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Unlink(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("unlink cache keys: %w", err)
		}
	}
	return nil
}
