package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// wagerService is the slice of the wager service the handler needs.
type wagerService interface {
	CreateWager(ctx context.Context, betType string, stake float64, notes string) (domain.Wager, domain.RoundRobinBreakdown, error)
	GetWager(ctx context.Context, id string) (domain.Wager, error)
	ListWagers(ctx context.Context, opts domain.ListOpts) ([]domain.Wager, error)
	CountWagers(ctx context.Context) (int64, error)
	Breakdown(ctx context.Context, id string) (domain.RoundRobinBreakdown, error)
	SettleLeg(ctx context.Context, id string, legIndex int, result domain.LegStatus) (domain.RoundRobinBreakdown, error)
	Finalize(ctx context.Context, id string) (domain.Wager, error)
}

// WagerHandler serves the wager CRUD and settlement endpoints.
type WagerHandler struct {
	wagers wagerService
	logger *slog.Logger
}

// NewWagerHandler creates a WagerHandler.
func NewWagerHandler(wagers wagerService, logger *slog.Logger) *WagerHandler {
	return &WagerHandler{wagers: wagers, logger: logger}
}

// createWagerRequest is the POST /api/wagers body.
type createWagerRequest struct {
	BetType string  `json:"bet_type"`
	Stake   float64 `json:"stake"`
	Notes   string  `json:"notes"`
}

// createWagerResponse pairs the stored wager with its initial breakdown.
type createWagerResponse struct {
	Wager     domain.Wager
	Breakdown domain.RoundRobinBreakdown
}

// CreateWager records a new round-robin wager.
// POST /api/wagers
func (h *WagerHandler) CreateWager(w http.ResponseWriter, r *http.Request) {
	var req createWagerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wager, breakdown, err := h.wagers.CreateWager(r.Context(), req.BetType, req.Stake, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidParameter) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: create wager failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to create wager")
		return
	}

	writeJSON(w, http.StatusCreated, createWagerResponse{Wager: wager, Breakdown: breakdown})
}

// listWagersResponse wraps the list endpoint output with pagination metadata.
// Total counts all persisted wagers, not just the returned page.
type listWagersResponse struct {
	Wagers []domain.Wager
	Total  int64
	Limit  int
	Offset int
}

// ListWagers returns wagers newest first.
// GET /api/wagers?limit=50&offset=0&status=pending&since=...&until=...
func (h *WagerHandler) ListWagers(w http.ResponseWriter, r *http.Request) {
	opts := parseListOpts(r)

	wagers, err := h.wagers.ListWagers(r.Context(), opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list wagers failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list wagers")
		return
	}

	total, err := h.wagers.CountWagers(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: count wagers failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list wagers")
		return
	}

	writeJSON(w, http.StatusOK, listWagersResponse{
		Wagers: wagers,
		Total:  total,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// GetWager returns a single wager by its ID.
// GET /api/wagers/{id}
func (h *WagerHandler) GetWager(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wager id")
		return
	}

	wager, err := h.wagers.GetWager(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "wager not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: get wager failed",
			slog.String("wager_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to get wager")
		return
	}

	writeJSON(w, http.StatusOK, wager)
}

// GetBreakdown returns the wager's current round-robin breakdown with every
// recorded leg result applied.
// GET /api/wagers/{id}/breakdown
func (h *WagerHandler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wager id")
		return
	}

	breakdown, err := h.wagers.Breakdown(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "wager not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "handler: breakdown failed",
			slog.String("wager_id", id),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to compute breakdown")
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

// settleLegRequest is the POST .../legs/{index}/result body.
type settleLegRequest struct {
	Result string `json:"result"`
}

// SettleLeg records a result for one leg and returns the recomputed
// breakdown.
// POST /api/wagers/{id}/legs/{index}/result
func (h *WagerHandler) SettleLeg(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wager id")
		return
	}
	index, err := strconv.Atoi(pathParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid leg index")
		return
	}

	var req settleLegRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	breakdown, err := h.wagers.SettleLeg(r.Context(), id, index, domain.LegStatus(req.Result))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "wager not found")
		case errors.Is(err, domain.ErrInvalidResult), errors.Is(err, domain.ErrInvalidParameter):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrAlreadySettled):
			writeError(w, http.StatusConflict, "wager already settled")
		default:
			h.logger.ErrorContext(r.Context(), "handler: settle leg failed",
				slog.String("wager_id", id),
				slog.Int("leg_index", index),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to settle leg")
		}
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

// Finalize marks a fully settled wager as settled with its aggregate profit.
// POST /api/wagers/{id}/finalize
func (h *WagerHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing wager id")
		return
	}

	wager, err := h.wagers.Finalize(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "wager not found")
		case errors.Is(err, domain.ErrUnsettledLegs):
			writeError(w, http.StatusConflict, "wager has unsettled legs")
		case errors.Is(err, domain.ErrAlreadySettled):
			writeError(w, http.StatusConflict, "wager already settled")
		default:
			h.logger.ErrorContext(r.Context(), "handler: finalize failed",
				slog.String("wager_id", id),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusInternalServerError, "failed to finalize wager")
		}
		return
	}

	writeJSON(w, http.StatusOK, wager)
}
