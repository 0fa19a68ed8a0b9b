package ledger

import "time"

// Share is one minted lot of YF shares. Lots are owned exclusively by the
// ledger; callers receive copies.
type Share struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	Amount      float64   `json:"amount"`
	MintedAt    time.Time `json:"minted_at"`
	ValueAtMint float64   `json:"value_at_mint"`
	Locked      bool      `json:"locked"`
}

// Snapshot is a read-only view of one owner's ledger position
type Snapshot struct {
	Owner      string  `json:"owner"`
	Balance    float64 `json:"balance"`
	ShareValue float64 `json:"share_value"`
	TotalValue float64 `json:"total_value"`
	Lots       []Share `json:"lots"`
}
