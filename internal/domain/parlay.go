package domain

// ParlayStatus is the derived settlement state of one parlay. It is always
// a pure function of the member legs' statuses and is never stored.
type ParlayStatus string

const (
	ParlayStatusPending ParlayStatus = "pending"
	ParlayStatusWon     ParlayStatus = "won"
	ParlayStatusLost    ParlayStatus = "lost"
	ParlayStatusPush    ParlayStatus = "push"
)

// Settled reports whether the parlay has resolved.
func (s ParlayStatus) Settled() bool {
	return s == ParlayStatusWon || s == ParlayStatusLost || s == ParlayStatusPush
}

// Parlay is one k-leg combination inside a round robin.
//
// Profit is defined only once the parlay is settled: won parlays pay
// stake*(combined-1) over the non-push legs, lost parlays lose the stake,
// pushed parlays return the stake (profit 0). PotentialWin is meaningful
// while the parlay is pending or won.
type Parlay struct {
	LegIndexes   []int
	Stake        float64
	Status       ParlayStatus
	Profit       float64
	PotentialWin float64
}
