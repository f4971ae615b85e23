package roundrobin

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"

	"github.com/alanyoungcy/wagerbook/internal/combin"
	"github.com/alanyoungcy/wagerbook/internal/domain"
	"github.com/alanyoungcy/wagerbook/internal/notes"
)

// betTypeRe matches the "<parlaySize>/<totalLegs>" pair embedded in a
// round-robin bet type label, e.g. "Round Robin 2/4".
var betTypeRe = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// maxTotalLegs bounds the round-robin shape. No sportsbook writes tickets
// anywhere near this size, and past it the parlay count explodes
// combinatorially, so larger n/k pairs are treated as a mis-entered bet
// type rather than something to materialize.
const maxTotalLegs = 25

// ParseBetType extracts the round-robin shape from a bet type label. It
// returns ErrInvalidBetType when the label carries no k/n pair or when the
// pair does not describe a valid round robin (1 <= k <= n <= maxTotalLegs).
func ParseBetType(betType string) (parlaySize, totalLegs int, err error) {
	m := betTypeRe.FindStringSubmatch(betType)
	if m == nil {
		return 0, 0, fmt.Errorf("roundrobin: bet type %q: %w", betType, domain.ErrInvalidBetType)
	}

	parlaySize, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("roundrobin: bet type %q: %w", betType, domain.ErrInvalidBetType)
	}
	totalLegs, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, fmt.Errorf("roundrobin: bet type %q: %w", betType, domain.ErrInvalidBetType)
	}

	if parlaySize < 1 || parlaySize > totalLegs || totalLegs > maxTotalLegs {
		return 0, 0, fmt.Errorf("roundrobin: bet type %q: shape %d/%d: %w",
			betType, parlaySize, totalLegs, domain.ErrInvalidBetType)
	}
	return parlaySize, totalLegs, nil
}

// Compute builds the full breakdown for a round-robin wager from its bet
// type label, total stake, notes text, and the caller's per-leg settlement
// overrides. An override always wins over a status tag embedded in the note
// text: overrides represent explicit settlement actions that postdate the
// note.
//
// Shape and parse failures (bad bet type, unparseable leg lines, a leg
// count that disagrees with the bet type) are not returned as errors; they
// come back inside the breakdown's Unavailable field so callers can render
// a fallback. The returned error is reserved for data-integrity failures in
// the odds math, which are unreachable for input that passed parsing.
func Compute(
	betType string,
	totalStake float64,
	notesText string,
	overrides map[int]domain.LegStatus,
) (domain.RoundRobinBreakdown, error) {
	parlaySize, totalLegs, err := ParseBetType(betType)
	if err != nil {
		return unavailable(domain.UnavailableInvalidBetType, err), nil
	}

	legs, err := notes.Parse(notesText)
	if err != nil {
		return unavailable(domain.UnavailableParseFailure, err), nil
	}
	if len(legs) != totalLegs {
		err := fmt.Errorf("roundrobin: parsed %d legs, bet type declares %d: %w",
			len(legs), totalLegs, domain.ErrLegCountMismatch)
		return unavailable(domain.UnavailableLegCountMismatch, err), nil
	}

	for i := range legs {
		if status, ok := overrides[legs[i].Index]; ok && status.Valid() {
			legs[i].Status = status
		}
	}

	subsets, err := combin.Combinations(totalLegs, parlaySize)
	if err != nil {
		// Unreachable: ParseBetType already validated the shape.
		return domain.RoundRobinBreakdown{}, err
	}
	totalParlays := len(subsets)

	// The stake split is carried as an exact rational so that the per-parlay
	// stakes sum back to the total stake without drift; float64 values on
	// the parlays are display values.
	stakePerParlay, _ := StakeSplit(totalStake, totalParlays).Float64()

	b := domain.RoundRobinBreakdown{
		TotalLegs:      totalLegs,
		ParlaySize:     parlaySize,
		TotalParlays:   totalParlays,
		StakePerParlay: stakePerParlay,
		Legs:           legs,
		Parlays:        make([]domain.Parlay, 0, totalParlays),
	}

	for _, subset := range subsets {
		members := make([]domain.Leg, len(subset))
		for i, idx := range subset {
			members[i] = legs[idx]
		}

		parlay, err := EvaluateParlay(members, stakePerParlay)
		if err != nil {
			return domain.RoundRobinBreakdown{}, fmt.Errorf("roundrobin: evaluate parlay %v: %w", subset, err)
		}
		b.Parlays = append(b.Parlays, parlay)

		switch parlay.Status {
		case domain.ParlayStatusWon:
			b.WonParlays++
			b.SettledParlays++
			b.TotalProfit += parlay.Profit
		case domain.ParlayStatusLost:
			b.LostParlays++
			b.SettledParlays++
			b.TotalProfit += parlay.Profit
		case domain.ParlayStatusPush:
			b.SettledParlays++
		}
	}

	return b, nil
}

// StakeSplit returns the exact per-parlay stake for a wager of the given
// shape as a rational. Exposed for callers that persist or verify stake
// splits at full precision.
func StakeSplit(totalStake float64, totalParlays int) *big.Rat {
	return new(big.Rat).Quo(
		new(big.Rat).SetFloat64(totalStake),
		new(big.Rat).SetInt64(int64(totalParlays)),
	)
}

func unavailable(cause string, err error) domain.RoundRobinBreakdown {
	return domain.RoundRobinBreakdown{
		Unavailable: &domain.BreakdownUnavailable{
			Cause:  cause,
			Reason: err.Error(),
			Err:    err,
		},
	}
}
