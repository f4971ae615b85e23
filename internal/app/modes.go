package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/wagerbook/internal/domain"
	"github.com/alanyoungcy/wagerbook/internal/server"
	"github.com/alanyoungcy/wagerbook/internal/server/handler"
	"github.com/alanyoungcy/wagerbook/internal/service"
)

// sweepPageSize bounds how many pending wagers each sweep iteration loads.
const sweepPageSize = 200

// ServeMode runs the HTTP API until the context is cancelled.
func (a *App) ServeMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting serve mode")

	wagerSvc := service.NewWagerService(
		deps.WagerStore, deps.OverrideStore, deps.BreakdownCache, deps.Archiver, a.logger,
	)
	statsSvc := service.NewStatsService(deps.WagerStore, a.logger)

	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimitPerMin: a.cfg.Server.RateLimitPerMin,
		RateLimiter:     deps.RateLimiter,
	}, server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Wagers: handler.NewWagerHandler(wagerSvc, a.logger),
		Stats:  handler.NewStatsHandler(statsSvc, a.logger),
	}, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}

// SweepMode walks every pending wager once and finalizes those whose legs
// have all settled, then exits. It is intended to run as a periodic job
// alongside a serve instance, picking up wagers whose last leg was settled
// out of band.
func (a *App) SweepMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting sweep mode",
		slog.Int("workers", a.cfg.Settlement.SweepWorkers),
	)

	wagerSvc := service.NewWagerService(
		deps.WagerStore, deps.OverrideStore, deps.BreakdownCache, deps.Archiver, a.logger,
	)

	var swept, finalized int
	offset := 0
	for {
		page, err := deps.WagerStore.List(ctx, domain.ListOpts{
			Status: domain.WagerStatusPending,
			Limit:  sweepPageSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("sweep: list pending wagers: %w", err)
		}
		if len(page) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.cfg.Settlement.SweepWorkers)

		results := make([]bool, len(page))
		for i, w := range page {
			g.Go(func() error {
				done, err := a.sweepWager(gctx, wagerSvc, w)
				if err != nil {
					return err
				}
				results[i] = done
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return fmt.Errorf("sweep: %w", err)
		}

		swept += len(page)
		for _, done := range results {
			if done {
				finalized++
			}
		}

		if len(page) < sweepPageSize {
			break
		}
		// Finalized wagers leave the pending set, so only advance past the
		// ones that stayed pending.
		offset += len(page) - countTrue(results)
	}

	a.logger.InfoContext(ctx, "sweep complete",
		slog.Int("swept", swept),
		slog.Int("finalized", finalized),
	)
	return nil
}

// sweepWager finalizes one wager if every leg has settled. It reports
// whether the wager was finalized; unavailable breakdowns and open legs are
// skipped without error.
func (a *App) sweepWager(ctx context.Context, svc *service.WagerService, w domain.Wager) (bool, error) {
	b, err := svc.Breakdown(ctx, w.ID)
	if err != nil {
		return false, fmt.Errorf("breakdown %s: %w", w.ID, err)
	}
	if !b.FullySettled() {
		return false, nil
	}

	if _, err := svc.Finalize(ctx, w.ID); err != nil {
		// Another process may have finalized it between the breakdown and
		// the settle write.
		if errors.Is(err, domain.ErrAlreadySettled) {
			return false, nil
		}
		return false, fmt.Errorf("finalize %s: %w", w.ID, err)
	}

	a.logger.InfoContext(ctx, "sweep: wager finalized",
		slog.String("wager_id", w.ID),
		slog.Float64("profit", b.TotalProfit),
	)
	return true, nil
}

func countTrue(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
