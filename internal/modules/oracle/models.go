package oracle

import (
	"time"

	"github.com/aristath/yieldforge/internal/domain"
)

// Asset is one tracked real-world asset in the oracle feed
type Asset struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Symbol     string               `json:"symbol"`
	Category   domain.AssetCategory `json:"category"`
	Price      float64              `json:"price"`
	Change24h  float64              `json:"change_24h"`
	Yield      float64              `json:"yield"`
	Allocation float64              `json:"allocation"`
	LastUpdate time.Time            `json:"last_update"`
	Confidence float64              `json:"confidence,omitempty"`
	Source     string               `json:"source,omitempty"`

	// Volatility drives the random walk; not part of the API payload
	Volatility float64 `json:"-"`
}

// AssetStats carries derived statistics over the recorded price history
type AssetStats struct {
	Symbol             string   `json:"symbol"`
	Observations       int      `json:"observations"`
	MeanPrice          float64  `json:"mean_price"`
	RealizedVolatility float64  `json:"realized_volatility"`
	Momentum           *float64 `json:"momentum,omitempty"` // ROC over rocPeriod ticks
	RSI                *float64 `json:"rsi,omitempty"`      // RSI over rsiPeriod ticks
}

// seedAssets returns the initial asset book
func seedAssets(now time.Time) []Asset {
	return []Asset{
		{
			ID:         "rei",
			Name:       "Global Real Estate Index",
			Symbol:     "REI",
			Category:   domain.CategoryRealEstate,
			Price:      2847.50,
			Change24h:  0.85,
			Yield:      12.0,
			Allocation: 45,
			LastUpdate: now,
			Confidence: 0.98,
			Source:     "QUBIC_ORACLE_NODE_1",
			Volatility: 0.02,
		},
		{
			ID:         "xau",
			Name:       "Gold Spot",
			Symbol:     "XAU",
			Category:   domain.CategoryCommodity,
			Price:      2024.30,
			Change24h:  -0.32,
			Yield:      10.0,
			Allocation: 30,
			LastUpdate: now,
			Confidence: 0.97,
			Source:     "QUBIC_ORACLE_NODE_2",
			Volatility: 0.015,
		},
		{
			ID:         "usdtry",
			Name:       "USD/TRY Carry",
			Symbol:     "USD/TRY",
			Category:   domain.CategoryForex,
			Price:      32.45,
			Change24h:  1.24,
			Yield:      8.0,
			Allocation: 25,
			LastUpdate: now,
			Confidence: 0.96,
			Source:     "QUBIC_ORACLE_NODE_3",
			Volatility: 0.025,
		},
	}
}
