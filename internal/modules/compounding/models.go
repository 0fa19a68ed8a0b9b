package compounding

import "time"

// Event is one immutable compounding record
type Event struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	Amount        float64   `json:"amount"`
	NewShareValue float64   `json:"new_share_value"`
	APY           float64   `json:"apy"`
	TotalShares   float64   `json:"total_shares"`
}
