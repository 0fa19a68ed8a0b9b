package formulas

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty slice", []float64{}, 0},
		{"single value", []float64{5.0}, 5.0},
		{"simple average", []float64{1, 2, 3, 4, 5}, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Mean(tt.data)
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("Expected %.4f, got %.4f", tt.expected, result)
			}
		})
	}
}

func TestCalculateReturns(t *testing.T) {
	prices := []float64{100, 110, 99}
	returns := CalculateReturns(prices)

	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}
	if math.Abs(returns[0]-0.10) > 1e-9 {
		t.Errorf("Expected first return 0.10, got %.4f", returns[0])
	}
	if math.Abs(returns[1]-(-0.10)) > 1e-9 {
		t.Errorf("Expected second return -0.10, got %.4f", returns[1])
	}
}

func TestCalculateReturns_TooShort(t *testing.T) {
	if got := CalculateReturns([]float64{100}); len(got) != 0 {
		t.Errorf("Expected empty returns for single price, got %d", len(got))
	}
}

func TestRealizedVolatility_ConstantPrices(t *testing.T) {
	prices := []float64{50, 50, 50, 50}
	if vol := RealizedVolatility(prices); vol != 0 {
		t.Errorf("Expected zero volatility for constant prices, got %.6f", vol)
	}
}

func TestWeightedAPY(t *testing.T) {
	// The seed book: {REI:45, XAU:30, USD/TRY:25} at yields {12, 10, 8}
	yields := []float64{12, 10, 8}
	allocations := []float64{45, 30, 25}

	apy := WeightedAPY(yields, allocations)
	if math.Abs(apy-10.4) > 1e-9 {
		t.Errorf("Expected APY 10.4, got %.4f", apy)
	}
}

func TestWeightedAPY_MismatchedLengths(t *testing.T) {
	if apy := WeightedAPY([]float64{12}, []float64{50, 50}); apy != 0 {
		t.Errorf("Expected 0 for mismatched inputs, got %.4f", apy)
	}
}

func TestCalculateROC(t *testing.T) {
	// 10 -> 12 over 2 periods = +20%
	closes := []float64{10, 11, 12}
	roc := CalculateROC(closes, 2)
	if roc == nil {
		t.Fatal("Expected ROC value, got nil")
	}
	if math.Abs(*roc-20.0) > 1e-6 {
		t.Errorf("Expected ROC 20.0, got %.4f", *roc)
	}
}

func TestCalculateROC_InsufficientData(t *testing.T) {
	if roc := CalculateROC([]float64{10, 11}, 5); roc != nil {
		t.Errorf("Expected nil for insufficient data, got %.4f", *roc)
	}
}
