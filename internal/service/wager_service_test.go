package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"
	"testing"
	"time"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

const fourLegNote = `League: NBA
Lakers -3.5 (-110) vs Celtics
Warriors (-110) @ Suns
Knicks (-110)
Heat (-110)`

// memWagerStore is an in-memory domain.WagerStore for service tests.
type memWagerStore struct {
	wagers map[string]domain.Wager
}

func newMemWagerStore() *memWagerStore {
	return &memWagerStore{wagers: make(map[string]domain.Wager)}
}

func (s *memWagerStore) Create(_ context.Context, w domain.Wager) error {
	if _, ok := s.wagers[w.ID]; ok {
		return domain.ErrAlreadyExists
	}
	s.wagers[w.ID] = w
	return nil
}

func (s *memWagerStore) GetByID(_ context.Context, id string) (domain.Wager, error) {
	w, ok := s.wagers[id]
	if !ok {
		return domain.Wager{}, domain.ErrNotFound
	}
	return w, nil
}

func (s *memWagerStore) List(_ context.Context, opts domain.ListOpts) ([]domain.Wager, error) {
	var all []domain.Wager
	for _, w := range s.wagers {
		if opts.Status != "" && w.Status != opts.Status {
			continue
		}
		all = append(all, w)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].PlacedAt.After(all[j].PlacedAt) })

	if opts.Offset >= len(all) {
		return nil, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (s *memWagerStore) MarkSettled(_ context.Context, id string, profit float64, settledAt time.Time) error {
	w, ok := s.wagers[id]
	if !ok {
		return domain.ErrNotFound
	}
	w.Status = domain.WagerStatusSettled
	w.Profit = &profit
	w.SettledAt = &settledAt
	s.wagers[id] = w
	return nil
}

func (s *memWagerStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.wagers)), nil
}

// memOverrideStore is an in-memory domain.OverrideStore.
type memOverrideStore struct {
	results map[string]map[int]domain.LegStatus
}

func newMemOverrideStore() *memOverrideStore {
	return &memOverrideStore{results: make(map[string]map[int]domain.LegStatus)}
}

func (s *memOverrideStore) Upsert(_ context.Context, res domain.LegResult) error {
	m, ok := s.results[res.WagerID]
	if !ok {
		m = make(map[int]domain.LegStatus)
		s.results[res.WagerID] = m
	}
	m[res.LegIndex] = res.Result
	return nil
}

func (s *memOverrideStore) Map(_ context.Context, wagerID string) (map[int]domain.LegStatus, error) {
	out := make(map[int]domain.LegStatus, len(s.results[wagerID]))
	for i, r := range s.results[wagerID] {
		out[i] = r
	}
	return out, nil
}

// recordingArchiver captures ArchiveWager calls.
type recordingArchiver struct {
	archived []string
}

func (a *recordingArchiver) ArchiveWager(_ context.Context, w domain.Wager, _ domain.RoundRobinBreakdown) error {
	a.archived = append(a.archived, w.ID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService() (*WagerService, *memWagerStore, *recordingArchiver) {
	wagers := newMemWagerStore()
	archiver := &recordingArchiver{}
	svc := NewWagerService(wagers, newMemOverrideStore(), nil, archiver, testLogger())
	return svc, wagers, archiver
}

func TestCreateWager(t *testing.T) {
	svc, wagers, _ := newTestService()
	ctx := context.Background()

	w, b, err := svc.CreateWager(ctx, "Round Robin 2/4", 60, fourLegNote)
	if err != nil {
		t.Fatalf("CreateWager: %v", err)
	}
	if w.ID == "" {
		t.Error("wager ID not assigned")
	}
	if w.Status != domain.WagerStatusPending {
		t.Errorf("status = %q, want pending", w.Status)
	}
	if !b.Available() {
		t.Fatalf("breakdown unavailable: %+v", b.Unavailable)
	}
	if b.TotalParlays != 6 {
		t.Errorf("TotalParlays = %d, want 6", b.TotalParlays)
	}
	if _, err := wagers.GetByID(ctx, w.ID); err != nil {
		t.Errorf("wager not persisted: %v", err)
	}
}

func TestCreateWagerRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.CreateWager(ctx, "Round Robin 2/4", 0, fourLegNote); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("zero stake: err = %v, want ErrInvalidParameter", err)
	}
	if _, _, err := svc.CreateWager(ctx, "  ", 60, fourLegNote); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("blank bet type: err = %v, want ErrInvalidParameter", err)
	}
}

func TestCreateWagerKeepsUnparseableNotes(t *testing.T) {
	svc, _, _ := newTestService()

	w, b, err := svc.CreateWager(context.Background(), "Round Robin 2/4", 60, "total gibberish")
	if err != nil {
		t.Fatalf("CreateWager: %v", err)
	}
	if w.ID == "" {
		t.Error("wager ID not assigned")
	}
	if b.Available() {
		t.Error("breakdown should be unavailable for unparseable notes")
	}
}

func TestCountWagers(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := svc.CreateWager(ctx, "Round Robin 2/4", 60, fourLegNote); err != nil {
			t.Fatalf("CreateWager: %v", err)
		}
	}

	total, err := svc.CountWagers(ctx)
	if err != nil {
		t.Fatalf("CountWagers: %v", err)
	}
	if total != 3 {
		t.Errorf("CountWagers = %d, want 3", total)
	}
}

func TestSettleLegValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	w, _, err := svc.CreateWager(ctx, "Round Robin 2/4", 60, fourLegNote)
	if err != nil {
		t.Fatalf("CreateWager: %v", err)
	}

	if _, err := svc.SettleLeg(ctx, w.ID, 0, "banana"); !errors.Is(err, domain.ErrInvalidResult) {
		t.Errorf("bad result: err = %v, want ErrInvalidResult", err)
	}
	if _, err := svc.SettleLeg(ctx, w.ID, 0, domain.LegStatusPending); !errors.Is(err, domain.ErrInvalidResult) {
		t.Errorf("pending result: err = %v, want ErrInvalidResult", err)
	}
	if _, err := svc.SettleLeg(ctx, w.ID, 9, domain.LegStatusWon); !errors.Is(err, domain.ErrInvalidParameter) {
		t.Errorf("out-of-range index: err = %v, want ErrInvalidParameter", err)
	}
	if _, err := svc.SettleLeg(ctx, "no-such-wager", 0, domain.LegStatusWon); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("missing wager: err = %v, want ErrNotFound", err)
	}
}

func TestSettleLegAutoFinalizes(t *testing.T) {
	svc, wagers, archiver := newTestService()
	ctx := context.Background()

	w, _, err := svc.CreateWager(ctx, "Round Robin 2/4", 60, fourLegNote)
	if err != nil {
		t.Fatalf("CreateWager: %v", err)
	}

	results := []domain.LegStatus{
		domain.LegStatusWon, domain.LegStatusWon, domain.LegStatusLost, domain.LegStatusLost,
	}
	var last domain.RoundRobinBreakdown
	for i, res := range results {
		last, err = svc.SettleLeg(ctx, w.ID, i, res)
		if err != nil {
			t.Fatalf("SettleLeg(%d): %v", i, err)
		}
	}

	if !last.FullySettled() {
		t.Fatal("breakdown not fully settled after all legs resolved")
	}
	// One winning 2-team parlay at -110/-110 on a $10 slice, five losers.
	wantProfit := 10*(21.0/11.0*21.0/11.0-1) - 50
	if math.Abs(last.TotalProfit-wantProfit) > 1e-9 {
		t.Errorf("TotalProfit = %v, want %v", last.TotalProfit, wantProfit)
	}

	settled, err := wagers.GetByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if settled.Status != domain.WagerStatusSettled {
		t.Errorf("wager status = %q, want settled", settled.Status)
	}
	if settled.Profit == nil || math.Abs(*settled.Profit-wantProfit) > 1e-9 {
		t.Errorf("wager profit = %v, want %v", settled.Profit, wantProfit)
	}
	if len(archiver.archived) != 1 || archiver.archived[0] != w.ID {
		t.Errorf("archived = %v, want [%s]", archiver.archived, w.ID)
	}

	// Further settlements against a finalized wager are rejected.
	if _, err := svc.SettleLeg(ctx, w.ID, 0, domain.LegStatusWon); !errors.Is(err, domain.ErrAlreadySettled) {
		t.Errorf("settle after finalize: err = %v, want ErrAlreadySettled", err)
	}
}

func TestSettleLegCorrection(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	w, _, err := svc.CreateWager(ctx, "Round Robin 2/4", 60, fourLegNote)
	if err != nil {
		t.Fatalf("CreateWager: %v", err)
	}

	if _, err := svc.SettleLeg(ctx, w.ID, 0, domain.LegStatusLost); err != nil {
		t.Fatalf("SettleLeg: %v", err)
	}
	b, err := svc.SettleLeg(ctx, w.ID, 0, domain.LegStatusWon)
	if err != nil {
		t.Fatalf("SettleLeg correction: %v", err)
	}
	if got := b.Legs[0].Status; got != domain.LegStatusWon {
		t.Errorf("leg 0 status = %q, want won after correction", got)
	}
}

func TestFinalizeRequiresAllLegsSettled(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	w, _, err := svc.CreateWager(ctx, "Round Robin 2/4", 60, fourLegNote)
	if err != nil {
		t.Fatalf("CreateWager: %v", err)
	}

	if _, err := svc.Finalize(ctx, w.ID); !errors.Is(err, domain.ErrUnsettledLegs) {
		t.Errorf("Finalize with open legs: err = %v, want ErrUnsettledLegs", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := svc.SettleLeg(ctx, w.ID, i, domain.LegStatusPush); err != nil {
			t.Fatalf("SettleLeg(%d): %v", i, err)
		}
	}

	// All legs pushed, so SettleLeg already finalized at zero profit.
	settled, err := svc.GetWager(ctx, w.ID)
	if err != nil {
		t.Fatalf("GetWager: %v", err)
	}
	if settled.Status != domain.WagerStatusSettled {
		t.Errorf("status = %q, want settled", settled.Status)
	}
	if settled.Profit == nil || *settled.Profit != 0 {
		t.Errorf("profit = %v, want 0 for an all-push wager", settled.Profit)
	}

	if _, err := svc.Finalize(ctx, w.ID); !errors.Is(err, domain.ErrAlreadySettled) {
		t.Errorf("Finalize twice: err = %v, want ErrAlreadySettled", err)
	}
}

func TestStatsSummary(t *testing.T) {
	wagers := newMemWagerStore()
	ctx := context.Background()

	profit := func(p float64) *float64 { return &p }
	now := time.Now().UTC()
	seed := []domain.Wager{
		{ID: "a", Stake: 60, Status: domain.WagerStatusSettled, Profit: profit(25), PlacedAt: now},
		{ID: "b", Stake: 40, Status: domain.WagerStatusSettled, Profit: profit(-40), PlacedAt: now.Add(time.Minute)},
		{ID: "c", Stake: 50, Status: domain.WagerStatusSettled, Profit: profit(0), PlacedAt: now.Add(2 * time.Minute)},
		{ID: "d", Stake: 30, Status: domain.WagerStatusPending, PlacedAt: now.Add(3 * time.Minute)},
	}
	for _, w := range seed {
		if err := wagers.Create(ctx, w); err != nil {
			t.Fatalf("seed %s: %v", w.ID, err)
		}
	}

	svc := NewStatsService(wagers, testLogger())
	got, err := svc.Summary(ctx, nil, nil)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	want := domain.StatsSummary{
		TotalWagers:   4,
		PendingWagers: 1,
		SettledWagers: 3,
		WonWagers:     1,
		LostWagers:    1,
		TotalStaked:   180,
		PendingStake:  30,
		TotalProfit:   -15,
		ReturnOnStake: -15.0 / 150.0,
	}
	if got != want {
		t.Errorf("Summary = %+v, want %+v", got, want)
	}
}
