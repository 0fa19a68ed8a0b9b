package formulas

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.Mean(data, nil)
}

// StdDev calculates the standard deviation of a slice of float64 values
func StdDev(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	return stat.StdDev(data, nil)
}

// CalculateReturns converts prices to percentage returns
// Returns[i] = (Price[i] - Price[i-1]) / Price[i-1]
func CalculateReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return []float64{}
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] != 0 {
			returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1]
		}
	}

	return returns
}

// RealizedVolatility calculates annualized volatility from a tick-level
// price series, treating each observation as one day of the 365-day
// simulated calendar.
//
// Formula: Std Dev of Returns × sqrt(365)
func RealizedVolatility(prices []float64) float64 {
	returns := CalculateReturns(prices)
	if len(returns) < 2 {
		return 0
	}

	return StdDev(returns) * math.Sqrt(365)
}

// WeightedAPY calculates the allocation-weighted average yield.
// yields and allocations are parallel per-asset slices; allocations are
// percentages that sum to ~100.
func WeightedAPY(yields, allocations []float64) float64 {
	if len(yields) != len(allocations) {
		return 0
	}

	total := 0.0
	for i := range yields {
		total += yields[i] * allocations[i] / 100.0
	}
	return total
}
