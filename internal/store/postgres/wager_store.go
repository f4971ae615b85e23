package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// WagerStore implements domain.WagerStore using PostgreSQL.
type WagerStore struct {
	pool *pgxpool.Pool
}

// NewWagerStore creates a new WagerStore backed by the given connection pool.
func NewWagerStore(pool *pgxpool.Pool) *WagerStore {
	return &WagerStore{pool: pool}
}

// Create inserts a new wager.
func (s *WagerStore) Create(ctx context.Context, w domain.Wager) error {
	const query = `
		INSERT INTO wagers (id, bet_type, stake, notes, status, profit, placed_at, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.pool.Exec(ctx, query,
		w.ID, w.BetType, w.Stake, w.Notes, string(w.Status), w.Profit, w.PlacedAt, w.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: create wager %s: %w", w.ID, err)
	}
	return nil
}

// GetByID fetches a single wager. It returns domain.ErrNotFound when the
// wager does not exist.
func (s *WagerStore) GetByID(ctx context.Context, id string) (domain.Wager, error) {
	const query = `
		SELECT id, bet_type, stake, notes, status, profit, placed_at, settled_at
		FROM wagers
		WHERE id = $1`

	w, err := scanWager(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Wager{}, domain.ErrNotFound
		}
		return domain.Wager{}, fmt.Errorf("postgres: get wager %s: %w", id, err)
	}
	return w, nil
}

// List returns wagers ordered newest first, filtered by opts.
func (s *WagerStore) List(ctx context.Context, opts domain.ListOpts) ([]domain.Wager, error) {
	query := `
		SELECT id, bet_type, stake, notes, status, profit, placed_at, settled_at
		FROM wagers
		WHERE ($1 = '' OR status = $1)
		  AND ($2::timestamptz IS NULL OR placed_at >= $2)
		  AND ($3::timestamptz IS NULL OR placed_at < $3)
		ORDER BY placed_at DESC
		LIMIT $4 OFFSET $5`

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, query,
		string(opts.Status), opts.Since, opts.Until, limit, opts.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list wagers: %w", err)
	}
	defer rows.Close()

	var wagers []domain.Wager
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan wager: %w", err)
		}
		wagers = append(wagers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list wagers: %w", err)
	}
	return wagers, nil
}

// MarkSettled records the final profit and flips the wager to settled.
func (s *WagerStore) MarkSettled(ctx context.Context, id string, profit float64, settledAt time.Time) error {
	const query = `
		UPDATE wagers
		SET status = $2, profit = $3, settled_at = $4, updated_at = NOW()
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query, id, string(domain.WagerStatusSettled), profit, settledAt)
	if err != nil {
		return fmt.Errorf("postgres: mark wager %s settled: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Count returns the total number of wagers.
func (s *WagerStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM wagers").Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count wagers: %w", err)
	}
	return n, nil
}

func scanWager(row pgx.Row) (domain.Wager, error) {
	var (
		w      domain.Wager
		status string
	)
	err := row.Scan(&w.ID, &w.BetType, &w.Stake, &w.Notes, &status, &w.Profit, &w.PlacedAt, &w.SettledAt)
	if err != nil {
		return domain.Wager{}, err
	}
	w.Status = domain.WagerStatus(status)
	return w, nil
}
