package domain

// LegStatus is the settlement state of a single leg.
type LegStatus string

const (
	LegStatusPending LegStatus = "pending"
	LegStatusWon     LegStatus = "won"
	LegStatusLost    LegStatus = "lost"
	LegStatusPush    LegStatus = "push"
)

// Settled reports whether the leg has a terminal result.
func (s LegStatus) Settled() bool {
	switch s {
	case LegStatusWon, LegStatusLost, LegStatusPush:
		return true
	default:
		return false
	}
}

// Valid reports whether s is one of the known leg statuses.
func (s LegStatus) Valid() bool {
	return s == LegStatusPending || s.Settled()
}

// Leg is one individual selection inside a round-robin wager. Legs are
// parsed fresh from the wager's notes text on every breakdown computation;
// Index is the leg's stable identity (position in the parsed list).
type Leg struct {
	Index   int
	Sport   string
	Team    string
	Matchup string
	Spread  *float64
	Odds    int
	Status  LegStatus
}

// LegResult is a caller-supplied settlement action for a single leg. A
// second result for the same (wager, index) pair is a correction and
// replaces the first.
type LegResult struct {
	WagerID  string
	LegIndex int
	Result   LegStatus
}
