package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

const defaultBreakdownTTL = 10 * time.Minute

// BreakdownCache implements domain.BreakdownCache using JSON-serialized
// breakdowns. The key is derived by the caller from the full engine input,
// so entries never go stale in the usual sense — a settlement changes the
// input and with it the key. The TTL only bounds memory for abandoned keys.
type BreakdownCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBreakdownCache creates a BreakdownCache backed by the given Client.
// A non-positive ttl falls back to the default.
func NewBreakdownCache(c *Client, ttl time.Duration) *BreakdownCache {
	if ttl <= 0 {
		ttl = defaultBreakdownTTL
	}
	return &BreakdownCache{rdb: c.Underlying(), ttl: ttl}
}

func breakdownKey(key string) string { return "breakdown:" + key }

// Get retrieves a cached breakdown. It returns domain.ErrNotFound on a miss.
func (bc *BreakdownCache) Get(ctx context.Context, key string) (domain.RoundRobinBreakdown, error) {
	data, err := bc.rdb.Get(ctx, breakdownKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.RoundRobinBreakdown{}, domain.ErrNotFound
		}
		return domain.RoundRobinBreakdown{}, fmt.Errorf("redis: get breakdown %s: %w", key, err)
	}

	var b domain.RoundRobinBreakdown
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("redis: unmarshal breakdown %s: %w", key, err)
	}
	return b, nil
}

// Set stores a breakdown under the given input-derived key.
func (bc *BreakdownCache) Set(ctx context.Context, key string, b domain.RoundRobinBreakdown) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("redis: marshal breakdown %s: %w", key, err)
	}

	if err := bc.rdb.Set(ctx, breakdownKey(key), data, bc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set breakdown %s: %w", key, err)
	}
	return nil
}
