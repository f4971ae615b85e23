package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination and filtering for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Status WagerStatus // empty means all
	Since  *time.Time
	Until  *time.Time
}

// WagerStore persists wagers.
type WagerStore interface {
	Create(ctx context.Context, w Wager) error
	GetByID(ctx context.Context, id string) (Wager, error)
	List(ctx context.Context, opts ListOpts) ([]Wager, error)
	MarkSettled(ctx context.Context, id string, profit float64, settledAt time.Time) error
	Count(ctx context.Context) (int64, error)
}

// OverrideStore persists per-leg settlement results keyed by
// (wager, leg index). Upsert is last-write-wins for a given key, so a
// repeated settlement of the same leg is a correction, and settlements of
// different legs never interfere with each other.
type OverrideStore interface {
	Upsert(ctx context.Context, res LegResult) error
	Map(ctx context.Context, wagerID string) (map[int]LegStatus, error)
}
