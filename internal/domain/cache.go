package domain

import (
	"context"
	"time"
)

// BreakdownCache memoizes computed breakdowns. Keys are derived from the
// full engine input (bet type, stake, notes, overrides), which makes cached
// entries safe to serve verbatim: the engine is a pure function, so equal
// inputs always produce equal breakdowns. A settlement changes the input
// and therefore the key; stale entries simply age out.
type BreakdownCache interface {
	// Get returns the cached breakdown for key, or ErrNotFound on a miss.
	Get(ctx context.Context, key string) (RoundRobinBreakdown, error)
	Set(ctx context.Context, key string, b RoundRobinBreakdown) error
}

// RateLimiter bounds how often an action keyed by an arbitrary string may
// run inside a rolling window.
type RateLimiter interface {
	// Allow reports whether the action identified by key may proceed given
	// a budget of limit calls per window.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}
