package oddsmath

import (
	"errors"
	"math"
	"testing"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

const eps = 1e-4

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestImpliedProbability(t *testing.T) {
	tests := []struct {
		odds int
		want float64
	}{
		{-110, 0.5238},
		{150, 0.4},
		{-150, 0.6},
		{100, 0.5},
		{-100, 0.5},
		{200, 1.0 / 3.0},
	}
	for _, tt := range tests {
		got, err := ImpliedProbability(tt.odds)
		if err != nil {
			t.Fatalf("ImpliedProbability(%d) unexpected error: %v", tt.odds, err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("ImpliedProbability(%d) = %v, want %v", tt.odds, got, tt.want)
		}
	}
}

func TestImpliedProbabilityZeroOdds(t *testing.T) {
	_, err := ImpliedProbability(0)
	if !errors.Is(err, domain.ErrInvalidOdds) {
		t.Errorf("ImpliedProbability(0) error = %v, want ErrInvalidOdds", err)
	}
}

func TestDecimalOdds(t *testing.T) {
	tests := []struct {
		odds int
		want float64
	}{
		{-110, 1.9091},
		{150, 2.5},
		{-150, 1.6667},
		{100, 2.0},
		{-100, 2.0},
	}
	for _, tt := range tests {
		got, err := DecimalOdds(tt.odds)
		if err != nil {
			t.Fatalf("DecimalOdds(%d) unexpected error: %v", tt.odds, err)
		}
		if !almostEqual(got, tt.want) {
			t.Errorf("DecimalOdds(%d) = %v, want %v", tt.odds, got, tt.want)
		}
	}

	if _, err := DecimalOdds(0); !errors.Is(err, domain.ErrInvalidOdds) {
		t.Errorf("DecimalOdds(0) error = %v, want ErrInvalidOdds", err)
	}
}

func TestCombinedDecimalOdds(t *testing.T) {
	got, err := CombinedDecimalOdds([]int{-110, -110})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (1.0 + 100.0/110.0) * (1.0 + 100.0/110.0)
	if !almostEqual(got, want) {
		t.Errorf("CombinedDecimalOdds([-110 -110]) = %v, want %v", got, want)
	}

	// Single leg degenerates to DecimalOdds.
	got, err = CombinedDecimalOdds([]int{150})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 2.5) {
		t.Errorf("CombinedDecimalOdds([150]) = %v, want 2.5", got)
	}
}

func TestCombinedDecimalOddsErrors(t *testing.T) {
	if _, err := CombinedDecimalOdds(nil); !errors.Is(err, domain.ErrEmptyLegSet) {
		t.Errorf("CombinedDecimalOdds(nil) error = %v, want ErrEmptyLegSet", err)
	}
	if _, err := CombinedDecimalOdds([]int{-110, 0}); !errors.Is(err, domain.ErrInvalidOdds) {
		t.Errorf("CombinedDecimalOdds with zero entry error = %v, want ErrInvalidOdds", err)
	}
}

func TestPotentialWin(t *testing.T) {
	got := PotentialWin(100, 1.9091)
	if !almostEqual(got, 90.91) {
		t.Errorf("PotentialWin(100, 1.9091) = %v, want 90.91", got)
	}
	if got := PotentialWin(0, 2.5); got != 0 {
		t.Errorf("PotentialWin(0, 2.5) = %v, want 0", got)
	}
}

func TestExpectedValue(t *testing.T) {
	// Fair coin priced at +100: EV is zero.
	got, err := ExpectedValue(100, 100, 0.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 0) {
		t.Errorf("ExpectedValue(100, +100, 0.5) = %v, want 0", got)
	}

	// Positive edge: 60% true probability at +100 pays 0.6*100 - 0.4*100 = 20.
	got, err = ExpectedValue(100, 100, 0.6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(got, 20) {
		t.Errorf("ExpectedValue(100, +100, 0.6) = %v, want 20", got)
	}

	if _, err := ExpectedValue(100, 0, 0.5); !errors.Is(err, domain.ErrInvalidOdds) {
		t.Errorf("ExpectedValue with zero odds error = %v, want ErrInvalidOdds", err)
	}
}
