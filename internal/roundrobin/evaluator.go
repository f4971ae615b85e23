// Package roundrobin implements the settlement engine for round-robin
// wagers: it derives the status and profit of every constituent parlay from
// per-leg outcomes and aggregates them into an immutable breakdown. The
// whole package is pure — no state, no I/O — so identical inputs always
// produce identical breakdowns.
package roundrobin

import (
	"github.com/alanyoungcy/wagerbook/internal/domain"
	"github.com/alanyoungcy/wagerbook/internal/oddsmath"
)

// EvaluateParlay derives the settlement state of one parlay from its member
// legs. The rule, in priority order:
//
//  1. Any lost leg loses the parlay; every member must win.
//  2. Otherwise any pending leg leaves the parlay pending.
//  3. Otherwise pushed legs drop out of the payout as if they had never
//     been part of the ticket. The remaining won legs are priced together;
//     if every leg pushed, the parlay pushes and the stake comes back.
//
// Profit is -stake for lost, stake*(combined-1) for won, and 0 for push.
// A pending parlay's profit is zero because it does not count toward any
// aggregate yet.
func EvaluateParlay(members []domain.Leg, stake float64) (domain.Parlay, error) {
	p := domain.Parlay{
		LegIndexes: make([]int, len(members)),
		Stake:      stake,
	}
	for i, leg := range members {
		p.LegIndexes[i] = leg.Index
	}

	anyPending := false
	var active []int // odds of won legs
	var alive []int  // odds of legs that could still pay (pending or won)
	for _, leg := range members {
		switch leg.Status {
		case domain.LegStatusLost:
			p.Status = domain.ParlayStatusLost
			p.Profit = -stake
			return p, nil
		case domain.LegStatusPending:
			anyPending = true
			alive = append(alive, leg.Odds)
		case domain.LegStatusWon:
			active = append(active, leg.Odds)
			alive = append(alive, leg.Odds)
		case domain.LegStatusPush:
			// Removed from the payout calculation.
		}
	}

	if anyPending {
		p.Status = domain.ParlayStatusPending
		combined, err := oddsmath.CombinedDecimalOdds(alive)
		if err != nil {
			return domain.Parlay{}, err
		}
		p.PotentialWin = oddsmath.PotentialWin(stake, combined)
		return p, nil
	}

	if len(active) == 0 {
		// Every member leg pushed.
		p.Status = domain.ParlayStatusPush
		return p, nil
	}

	combined, err := oddsmath.CombinedDecimalOdds(active)
	if err != nil {
		return domain.Parlay{}, err
	}
	p.Status = domain.ParlayStatusWon
	p.Profit = oddsmath.PotentialWin(stake, combined)
	p.PotentialWin = p.Profit
	return p, nil
}
