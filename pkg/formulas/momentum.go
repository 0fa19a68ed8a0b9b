package formulas

import (
	"github.com/markcheno/go-talib"
)

// CalculateROC calculates the Rate of Change momentum indicator.
//
// ROC Formula:
//   ROC = ((Price[t] - Price[t-n]) / Price[t-n]) * 100
//
// Args:
//   closes: Array of closing prices
//   length: Lookback period
//
// Returns:
//   Current ROC value or nil if insufficient data
func CalculateROC(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	roc := talib.Roc(closes, length)

	if len(roc) > 0 && !isNaN(roc[len(roc)-1]) {
		result := roc[len(roc)-1]
		return &result
	}

	return nil
}

// CalculateRSI calculates the Relative Strength Index over a price series.
//
// RSI Formula:
//   RSI = 100 - (100 / (1 + RS))
//   where RS = Average Gain / Average Loss over N periods
//
// Returns the current RSI value (0-100) or nil if insufficient data.
func CalculateRSI(closes []float64, length int) *float64 {
	if len(closes) < length+1 {
		return nil
	}

	rsi := talib.Rsi(closes, length)

	if len(rsi) > 0 && !isNaN(rsi[len(rsi)-1]) {
		result := rsi[len(rsi)-1]
		return &result
	}

	return nil
}

// isNaN checks if a float64 is NaN
func isNaN(f float64) bool {
	return f != f
}
