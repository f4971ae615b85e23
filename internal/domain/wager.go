package domain

import "time"

// WagerStatus tracks whether a wager is still open or fully settled.
type WagerStatus string

const (
	WagerStatusPending WagerStatus = "pending"
	WagerStatusSettled WagerStatus = "settled"
)

// Wager is a persisted round-robin wager. BetType encodes the round-robin
// shape as a "<parlaySize>/<totalLegs>" pair somewhere in the label (for
// example "Round Robin 2/4"); Notes holds the free-text leg lines that the
// breakdown engine parses.
type Wager struct {
	ID        string
	BetType   string
	Stake     float64
	Notes     string
	Status    WagerStatus
	Profit    *float64
	PlacedAt  time.Time
	SettledAt *time.Time
}

// StatsSummary aggregates performance across persisted wagers.
type StatsSummary struct {
	TotalWagers    int
	PendingWagers  int
	SettledWagers  int
	WonWagers      int
	LostWagers     int
	TotalStaked    float64
	PendingStake   float64
	TotalProfit    float64
	ReturnOnStake  float64
}
