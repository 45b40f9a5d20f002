package domain

import "time"

// CoinEntryType distinguishes earn and spend events in the coin history.
type CoinEntryType string

const (
	CoinEntryEarned CoinEntryType = "earned"
	CoinEntrySpent  CoinEntryType = "spent"
)

// CoinBreakdown itemises how a delivery reward was composed.
type CoinBreakdown struct {
	Base        int `json:"base"`
	ASAPBonus   int `json:"asapBonus"`
	OnTimeBonus int `json:"onTimeBonus"`
}

// Total returns the full coin amount of a breakdown.
func (b CoinBreakdown) Total() int {
	return b.Base + b.ASAPBonus + b.OnTimeBonus
}

// CoinEntry is a single append-only record in the DuoCoins history.
// Breakdown is only set on delivery-reward credits.
type CoinEntry struct {
	ID        string         `json:"id"`
	Type      CoinEntryType  `json:"type"`
	Amount    int            `json:"amount"`
	Reason    string         `json:"reason"`
	Timestamp time.Time      `json:"timestamp"`
	Breakdown *CoinBreakdown `json:"breakdown,omitempty"`
}
