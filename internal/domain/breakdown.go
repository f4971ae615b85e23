package domain

// Unavailable cause tags. These classify why a breakdown could not be
// computed so the API can render a fallback instead of failing the request.
const (
	UnavailableInvalidBetType   = "invalid_bet_type"
	UnavailableParseFailure     = "parse_failure"
	UnavailableLegCountMismatch = "leg_count_mismatch"
)

// BreakdownUnavailable explains why a breakdown could not be computed from
// the wager's inputs. Err carries the typed cause for callers inside the
// process; it is not serialized.
type BreakdownUnavailable struct {
	Cause  string
	Reason string
	Err    error `json:"-"`
}

// RoundRobinBreakdown is the immutable view model for one round-robin
// wager: every constituent parlay, its derived status and profit, and the
// aggregate totals. It is recomputed wholesale from (betType, stake, notes,
// overrides) and holds no state of its own.
//
// When Unavailable is non-nil the wager's inputs could not be turned into
// a breakdown and every other field is zero.
type RoundRobinBreakdown struct {
	TotalLegs      int
	ParlaySize     int
	TotalParlays   int
	StakePerParlay float64

	Legs    []Leg
	Parlays []Parlay

	SettledParlays int
	WonParlays     int
	LostParlays    int
	TotalProfit    float64

	Unavailable *BreakdownUnavailable
}

// Available reports whether the breakdown was computed.
func (b RoundRobinBreakdown) Available() bool {
	return b.Unavailable == nil
}

// FullySettled reports whether every leg has a terminal result, which is
// the condition for finalizing the wager with TotalProfit.
func (b RoundRobinBreakdown) FullySettled() bool {
	if !b.Available() {
		return false
	}
	for _, leg := range b.Legs {
		if !leg.Status.Settled() {
			return false
		}
	}
	return true
}
