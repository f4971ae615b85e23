package roundrobin

import (
	"math"
	"testing"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

const eps = 1e-2

func leg(index, odds int, status domain.LegStatus) domain.Leg {
	return domain.Leg{Index: index, Odds: odds, Status: status}
}

func TestEvaluateParlayStatusDerivation(t *testing.T) {
	tests := []struct {
		name       string
		members    []domain.Leg
		wantStatus domain.ParlayStatus
		wantProfit float64
	}{
		{
			name: "one lost leg is fatal regardless of the rest",
			members: []domain.Leg{
				leg(0, -110, domain.LegStatusWon),
				leg(1, 150, domain.LegStatusLost),
				leg(2, -110, domain.LegStatusPending),
			},
			wantStatus: domain.ParlayStatusLost,
			wantProfit: -10,
		},
		{
			name: "lost beats pending",
			members: []domain.Leg{
				leg(0, -110, domain.LegStatusPending),
				leg(1, -110, domain.LegStatusLost),
			},
			wantStatus: domain.ParlayStatusLost,
			wantProfit: -10,
		},
		{
			name: "pending leg blocks resolution",
			members: []domain.Leg{
				leg(0, -110, domain.LegStatusWon),
				leg(1, -110, domain.LegStatusPending),
			},
			wantStatus: domain.ParlayStatusPending,
			wantProfit: 0,
		},
		{
			name: "all won pays combined odds",
			members: []domain.Leg{
				leg(0, -110, domain.LegStatusWon),
				leg(1, -110, domain.LegStatusWon),
			},
			wantStatus: domain.ParlayStatusWon,
			// 10 * (1.9091^2 - 1)
			wantProfit: 26.45,
		},
		{
			name: "push drops out of the payout",
			members: []domain.Leg{
				leg(0, -110, domain.LegStatusWon),
				leg(1, -110, domain.LegStatusPush),
			},
			wantStatus: domain.ParlayStatusWon,
			// priced as a single -110 leg: 10 * (1.9091 - 1)
			wantProfit: 9.09,
		},
		{
			name: "all pushed returns the stake",
			members: []domain.Leg{
				leg(0, -110, domain.LegStatusPush),
				leg(1, 150, domain.LegStatusPush),
			},
			wantStatus: domain.ParlayStatusPush,
			wantProfit: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := EvaluateParlay(tt.members, 10)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", p.Status, tt.wantStatus)
			}
			if math.Abs(p.Profit-tt.wantProfit) > eps {
				t.Errorf("Profit = %v, want %v", p.Profit, tt.wantProfit)
			}
		})
	}
}

func TestEvaluateParlayPotentialWin(t *testing.T) {
	// Pending parlay: potential win prices the pending and won legs, pushes
	// excluded.
	members := []domain.Leg{
		leg(0, -110, domain.LegStatusWon),
		leg(1, -110, domain.LegStatusPush),
		leg(2, -110, domain.LegStatusPending),
	}
	p, err := EvaluateParlay(members, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != domain.ParlayStatusPending {
		t.Fatalf("Status = %q, want pending", p.Status)
	}
	want := 10 * ((1.0+100.0/110.0)*(1.0+100.0/110.0) - 1)
	if math.Abs(p.PotentialWin-want) > eps {
		t.Errorf("PotentialWin = %v, want %v", p.PotentialWin, want)
	}

	// Won parlay: potential win equals profit.
	members = []domain.Leg{
		leg(0, 150, domain.LegStatusWon),
		leg(1, -110, domain.LegStatusWon),
	}
	p, err = EvaluateParlay(members, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.PotentialWin != p.Profit {
		t.Errorf("PotentialWin = %v, Profit = %v, want equal", p.PotentialWin, p.Profit)
	}
}

func TestEvaluateParlayKeepsLegIndexes(t *testing.T) {
	members := []domain.Leg{
		leg(1, -110, domain.LegStatusWon),
		leg(3, -110, domain.LegStatusWon),
	}
	p, err := EvaluateParlay(members, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.LegIndexes) != 2 || p.LegIndexes[0] != 1 || p.LegIndexes[1] != 3 {
		t.Errorf("LegIndexes = %v, want [1 3]", p.LegIndexes)
	}
}
