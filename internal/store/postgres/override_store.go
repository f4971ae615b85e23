package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// OverrideStore implements domain.OverrideStore using PostgreSQL. Each
// (wager, leg index) pair is one row, so settlements of different legs are
// independent writes and re-settling the same leg is a plain row update.
type OverrideStore struct {
	pool *pgxpool.Pool
}

// NewOverrideStore creates a new OverrideStore backed by the given pool.
func NewOverrideStore(pool *pgxpool.Pool) *OverrideStore {
	return &OverrideStore{pool: pool}
}

// Upsert records a leg settlement result, replacing any earlier result for
// the same leg.
func (s *OverrideStore) Upsert(ctx context.Context, res domain.LegResult) error {
	const query = `
		INSERT INTO leg_overrides (wager_id, leg_index, result, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (wager_id, leg_index) DO UPDATE SET
			result     = EXCLUDED.result,
			updated_at = NOW()`

	_, err := s.pool.Exec(ctx, query, res.WagerID, res.LegIndex, string(res.Result))
	if err != nil {
		return fmt.Errorf("postgres: upsert override %s/%d: %w", res.WagerID, res.LegIndex, err)
	}
	return nil
}

// Map returns every recorded override for a wager as a leg-index keyed map.
// A wager with no overrides yields an empty map, not an error.
func (s *OverrideStore) Map(ctx context.Context, wagerID string) (map[int]domain.LegStatus, error) {
	const query = `
		SELECT leg_index, result
		FROM leg_overrides
		WHERE wager_id = $1`

	rows, err := s.pool.Query(ctx, query, wagerID)
	if err != nil {
		return nil, fmt.Errorf("postgres: load overrides for %s: %w", wagerID, err)
	}
	defer rows.Close()

	overrides := make(map[int]domain.LegStatus)
	for rows.Next() {
		var (
			index  int
			result string
		)
		if err := rows.Scan(&index, &result); err != nil {
			return nil, fmt.Errorf("postgres: scan override: %w", err)
		}
		overrides[index] = domain.LegStatus(result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: load overrides for %s: %w", wagerID, err)
	}
	return overrides, nil
}
