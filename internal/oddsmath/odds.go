// Package oddsmath provides American-odds conversions and the payout and
// expected-value formulas shared by the settlement engine. All functions are
// pure; the only failure cases are zero odds and an empty leg set, both of
// which indicate bad upstream data rather than a recoverable condition.
package oddsmath

import (
	"fmt"

	"github.com/alanyoungcy/wagerbook/internal/domain"
)

// ImpliedProbability converts American odds to the probability implied by
// the price.
// -110 → 0.5238..., +150 → 0.40
func ImpliedProbability(odds int) (float64, error) {
	if odds == 0 {
		return 0, fmt.Errorf("oddsmath: implied probability: %w", domain.ErrInvalidOdds)
	}

	if odds > 0 {
		// Underdog: 100 / (odds + 100)
		return 100.0 / (float64(odds) + 100.0), nil
	}
	// Favorite: |odds| / (|odds| + 100)
	return float64(-odds) / (float64(-odds) + 100.0), nil
}

// DecimalOdds converts American odds to decimal odds.
// +150 → 2.50, -110 → 1.9090...
func DecimalOdds(odds int) (float64, error) {
	if odds == 0 {
		return 0, fmt.Errorf("oddsmath: decimal odds: %w", domain.ErrInvalidOdds)
	}

	if odds > 0 {
		return 1.0 + float64(odds)/100.0, nil
	}
	return 1.0 + 100.0/float64(-odds), nil
}

// CombinedDecimalOdds multiplies the decimal odds of every leg to price a
// parlay. A parlay with zero priced legs has no defined payout, so an empty
// slice is an error.
func CombinedDecimalOdds(odds []int) (float64, error) {
	if len(odds) == 0 {
		return 0, fmt.Errorf("oddsmath: combined decimal odds: %w", domain.ErrEmptyLegSet)
	}

	combined := 1.0
	for _, o := range odds {
		dec, err := DecimalOdds(o)
		if err != nil {
			return 0, err
		}
		combined *= dec
	}
	return combined, nil
}

// PotentialWin returns the profit on a winning ticket: stake*(combined-1).
func PotentialWin(stake, combined float64) float64 {
	return stake * (combined - 1.0)
}

// ExpectedValue returns the probability-weighted expected profit of a
// single wager priced at the given American odds, using trueProb as the
// bettor's estimate of the win probability.
func ExpectedValue(stake float64, odds int, trueProb float64) (float64, error) {
	dec, err := DecimalOdds(odds)
	if err != nil {
		return 0, err
	}
	return trueProb*PotentialWin(stake, dec) - (1.0-trueProb)*stake, nil
}
