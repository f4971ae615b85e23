// Package service implements the application logic on top of the domain
// stores and the round-robin settlement engine.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/wagerbook/internal/domain"
	"github.com/alanyoungcy/wagerbook/internal/roundrobin"
)

// WagerService handles wager intake, breakdown computation, leg settlement,
// and finalization. Breakdowns are never stored per se; they are recomputed
// from (betType, stake, notes, overrides) on demand, with an optional cache
// keyed by a digest of those inputs.
type WagerService struct {
	wagers    domain.WagerStore
	overrides domain.OverrideStore
	cache     domain.BreakdownCache
	archiver  domain.WagerArchiver
	logger    *slog.Logger
}

// NewWagerService creates a WagerService. cache and archiver may be nil, in
// which case breakdowns are always recomputed and finalized wagers are not
// archived.
func NewWagerService(
	wagers domain.WagerStore,
	overrides domain.OverrideStore,
	cache domain.BreakdownCache,
	archiver domain.WagerArchiver,
	logger *slog.Logger,
) *WagerService {
	return &WagerService{
		wagers:    wagers,
		overrides: overrides,
		cache:     cache,
		archiver:  archiver,
		logger:    logger,
	}
}

// CreateWager persists a new pending wager and returns it together with its
// initial breakdown. Notes that cannot be parsed are not rejected; the
// returned breakdown carries the unavailability cause so the caller can see
// what settlement will be working with.
func (s *WagerService) CreateWager(ctx context.Context, betType string, stake float64, notes string) (domain.Wager, domain.RoundRobinBreakdown, error) {
	if stake <= 0 {
		return domain.Wager{}, domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: stake must be positive: %w", domain.ErrInvalidParameter)
	}
	if strings.TrimSpace(betType) == "" {
		return domain.Wager{}, domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: bet type is required: %w", domain.ErrInvalidParameter)
	}

	b, err := roundrobin.Compute(betType, stake, notes, nil)
	if err != nil {
		return domain.Wager{}, domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: compute breakdown: %w", err)
	}

	w := domain.Wager{
		ID:       uuid.NewString(),
		BetType:  betType,
		Stake:    stake,
		Notes:    notes,
		Status:   domain.WagerStatusPending,
		PlacedAt: time.Now().UTC(),
	}
	if err := s.wagers.Create(ctx, w); err != nil {
		return domain.Wager{}, domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: create: %w", err)
	}

	s.logger.InfoContext(ctx, "wager_service: wager created",
		slog.String("wager_id", w.ID),
		slog.String("bet_type", betType),
		slog.Float64("stake", stake),
		slog.Bool("breakdown_available", b.Available()),
	)

	return w, b, nil
}

// GetWager fetches a single wager.
func (s *WagerService) GetWager(ctx context.Context, id string) (domain.Wager, error) {
	w, err := s.wagers.GetByID(ctx, id)
	if err != nil {
		return domain.Wager{}, fmt.Errorf("wager_service: get %s: %w", id, err)
	}
	return w, nil
}

// ListWagers returns wagers matching opts, newest first.
func (s *WagerService) ListWagers(ctx context.Context, opts domain.ListOpts) ([]domain.Wager, error) {
	wagers, err := s.wagers.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("wager_service: list: %w", err)
	}
	return wagers, nil
}

// CountWagers returns the total number of persisted wagers, independent of
// any list filter. The list endpoint reports it so clients can page.
func (s *WagerService) CountWagers(ctx context.Context) (int64, error) {
	total, err := s.wagers.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("wager_service: count: %w", err)
	}
	return total, nil
}

// Breakdown computes the current breakdown for a wager, applying every
// recorded leg override. Because the computation is a pure function of its
// inputs, a cache hit on the input digest is always safe to serve.
func (s *WagerService) Breakdown(ctx context.Context, id string) (domain.RoundRobinBreakdown, error) {
	w, err := s.wagers.GetByID(ctx, id)
	if err != nil {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: get %s: %w", id, err)
	}
	return s.breakdownFor(ctx, w)
}

// SettleLeg records a result for one leg and returns the recomputed
// breakdown. When the result settles the last open leg, the wager is
// finalized automatically.
func (s *WagerService) SettleLeg(ctx context.Context, id string, legIndex int, result domain.LegStatus) (domain.RoundRobinBreakdown, error) {
	if !result.Settled() {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: result %q: %w", result, domain.ErrInvalidResult)
	}

	w, err := s.wagers.GetByID(ctx, id)
	if err != nil {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: get %s: %w", id, err)
	}
	if w.Status == domain.WagerStatusSettled {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: wager %s: %w", id, domain.ErrAlreadySettled)
	}

	// The leg index must refer to a leg the current notes actually parse to.
	current, err := s.breakdownFor(ctx, w)
	if err != nil {
		return domain.RoundRobinBreakdown{}, err
	}
	if !current.Available() {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: wager %s breakdown unavailable (%s): %w",
			id, current.Unavailable.Cause, current.Unavailable.Err)
	}
	if legIndex < 0 || legIndex >= current.TotalLegs {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: leg index %d out of range [0,%d): %w",
			legIndex, current.TotalLegs, domain.ErrInvalidParameter)
	}

	if err := s.overrides.Upsert(ctx, domain.LegResult{WagerID: id, LegIndex: legIndex, Result: result}); err != nil {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: record result: %w", err)
	}

	b, err := s.breakdownFor(ctx, w)
	if err != nil {
		return domain.RoundRobinBreakdown{}, err
	}

	s.logger.InfoContext(ctx, "wager_service: leg settled",
		slog.String("wager_id", id),
		slog.Int("leg_index", legIndex),
		slog.String("result", string(result)),
		slog.Bool("fully_settled", b.FullySettled()),
	)

	if b.FullySettled() {
		if _, err := s.finalize(ctx, w, b); err != nil {
			return domain.RoundRobinBreakdown{}, err
		}
	}
	return b, nil
}

// Finalize settles a wager whose legs all have terminal results, recording
// the aggregate profit. It returns domain.ErrUnsettledLegs while any leg is
// still open.
func (s *WagerService) Finalize(ctx context.Context, id string) (domain.Wager, error) {
	w, err := s.wagers.GetByID(ctx, id)
	if err != nil {
		return domain.Wager{}, fmt.Errorf("wager_service: get %s: %w", id, err)
	}
	if w.Status == domain.WagerStatusSettled {
		return domain.Wager{}, fmt.Errorf("wager_service: wager %s: %w", id, domain.ErrAlreadySettled)
	}

	b, err := s.breakdownFor(ctx, w)
	if err != nil {
		return domain.Wager{}, err
	}
	if !b.Available() {
		return domain.Wager{}, fmt.Errorf("wager_service: wager %s breakdown unavailable (%s): %w",
			id, b.Unavailable.Cause, b.Unavailable.Err)
	}
	if !b.FullySettled() {
		return domain.Wager{}, fmt.Errorf("wager_service: wager %s: %w", id, domain.ErrUnsettledLegs)
	}

	return s.finalize(ctx, w, b)
}

// finalize marks the wager settled with the breakdown's total profit and
// archives the pair. Archival failures are logged, not propagated; the
// settlement itself is the durable record.
func (s *WagerService) finalize(ctx context.Context, w domain.Wager, b domain.RoundRobinBreakdown) (domain.Wager, error) {
	now := time.Now().UTC()
	if err := s.wagers.MarkSettled(ctx, w.ID, b.TotalProfit, now); err != nil {
		return domain.Wager{}, fmt.Errorf("wager_service: mark settled: %w", err)
	}

	profit := b.TotalProfit
	w.Status = domain.WagerStatusSettled
	w.Profit = &profit
	w.SettledAt = &now

	s.logger.InfoContext(ctx, "wager_service: wager finalized",
		slog.String("wager_id", w.ID),
		slog.Float64("profit", profit),
	)

	if s.archiver != nil {
		if err := s.archiver.ArchiveWager(ctx, w, b); err != nil {
			s.logger.WarnContext(ctx, "wager_service: archive failed",
				slog.String("wager_id", w.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return w, nil
}

// breakdownFor computes the breakdown for a wager with its stored overrides,
// going through the cache when one is configured.
func (s *WagerService) breakdownFor(ctx context.Context, w domain.Wager) (domain.RoundRobinBreakdown, error) {
	overrides, err := s.overrides.Map(ctx, w.ID)
	if err != nil {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: load overrides: %w", err)
	}

	key := breakdownKey(w, overrides)
	if s.cache != nil {
		if b, err := s.cache.Get(ctx, key); err == nil {
			return b, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.WarnContext(ctx, "wager_service: breakdown cache get failed",
				slog.String("wager_id", w.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	b, err := roundrobin.Compute(w.BetType, w.Stake, w.Notes, overrides)
	if err != nil {
		return domain.RoundRobinBreakdown{}, fmt.Errorf("wager_service: compute breakdown: %w", err)
	}

	// Unavailable breakdowns carry a typed error that does not survive
	// serialization, so only computed ones are worth caching.
	if s.cache != nil && b.Available() {
		if err := s.cache.Set(ctx, key, b); err != nil {
			s.logger.WarnContext(ctx, "wager_service: breakdown cache set failed",
				slog.String("wager_id", w.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return b, nil
}

// breakdownKey digests the full engine input. Any settlement changes the
// override set and therefore the key, so cached entries never need explicit
// invalidation.
func breakdownKey(w domain.Wager, overrides map[int]domain.LegStatus) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00", w.BetType, strconv.FormatFloat(w.Stake, 'g', -1, 64), w.Notes)

	indexes := make([]int, 0, len(overrides))
	for i := range overrides {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		fmt.Fprintf(h, "%d=%s\x00", i, overrides[i])
	}
	return hex.EncodeToString(h.Sum(nil))
}
