package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

type statsService interface {
	Summary(ctx context.Context, since, until *time.Time) (domain.StatsSummary, error)
}

// StatsHandler serves aggregate performance numbers.
type StatsHandler struct {
	stats  statsService
	logger *slog.Logger
}

// NewStatsHandler creates a StatsHandler.
func NewStatsHandler(stats statsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// GetStats returns the aggregate summary, optionally windowed by since/until
// (RFC 3339) query parameters.
// GET /api/stats
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var since, until *time.Time
	if t, err := time.Parse(time.RFC3339, q.Get("since")); err == nil {
		since = &t
	}
	if t, err := time.Parse(time.RFC3339, q.Get("until")); err == nil {
		until = &t
	}

	summary, err := h.stats.Summary(r.Context(), since, until)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: stats failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
