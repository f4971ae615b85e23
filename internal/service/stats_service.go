package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// statsPageSize bounds how many wagers each store round-trip pulls while
// aggregating.
const statsPageSize = 500

// StatsService aggregates performance numbers across persisted wagers.
type StatsService struct {
	wagers domain.WagerStore
	logger *slog.Logger
}

// NewStatsService creates a StatsService.
func NewStatsService(wagers domain.WagerStore, logger *slog.Logger) *StatsService {
	return &StatsService{wagers: wagers, logger: logger}
}

// Summary walks every wager in the given window and returns the aggregate
// totals. Won and lost counts classify settled wagers by profit sign;
// break-even settlements count in neither.
func (s *StatsService) Summary(ctx context.Context, since, until *time.Time) (domain.StatsSummary, error) {
	var summary domain.StatsSummary
	var settledStake float64

	opts := domain.ListOpts{Limit: statsPageSize, Since: since, Until: until}
	for {
		page, err := s.wagers.List(ctx, opts)
		if err != nil {
			return domain.StatsSummary{}, fmt.Errorf("stats_service: list wagers: %w", err)
		}

		for _, w := range page {
			summary.TotalWagers++
			summary.TotalStaked += w.Stake

			switch w.Status {
			case domain.WagerStatusSettled:
				summary.SettledWagers++
				settledStake += w.Stake
				if w.Profit != nil {
					summary.TotalProfit += *w.Profit
					if *w.Profit > 0 {
						summary.WonWagers++
					} else if *w.Profit < 0 {
						summary.LostWagers++
					}
				}
			default:
				summary.PendingWagers++
				summary.PendingStake += w.Stake
			}
		}

		if len(page) < statsPageSize {
			break
		}
		opts.Offset += statsPageSize
	}

	if settledStake > 0 {
		summary.ReturnOnStake = summary.TotalProfit / settledStake
	}

	s.logger.DebugContext(ctx, "stats_service: summary computed",
		slog.Int("total_wagers", summary.TotalWagers),
		slog.Float64("total_profit", summary.TotalProfit),
	)

	return summary, nil
}
