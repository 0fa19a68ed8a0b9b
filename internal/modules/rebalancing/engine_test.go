package rebalancing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInputs() Inputs {
	return Inputs{
		CurrentAllocations: map[string]float64{"REI": 45, "XAU": 30, "USD-TRY": 25},
		Prices:             map[string]float64{"REI": 2847.50, "XAU": 2024.30, "USD-TRY": 32.45},
		TargetYields:       map[string]float64{"REI": 12, "XAU": 10, "USD-TRY": 8},
		Changes24h:         map[string]float64{"REI": 0, "XAU": 0, "USD-TRY": 0},
	}
}

func sumAllocations(allocations map[string]float64) float64 {
	total := 0.0
	for _, pct := range allocations {
		total += pct
	}
	return total
}

func TestComputeAllocations_ProportionalToYield(t *testing.T) {
	out := ComputeAllocations(seedInputs(), 0.8)

	// With zero momentum the book splits proportionally to yield: 12:10:8
	assert.InDelta(t, 40.0, out["REI"], 1e-9)
	assert.InDelta(t, 33.333333, out["XAU"], 1e-5)
	assert.InDelta(t, 26.666667, out["USD-TRY"], 1e-5)
	assert.InDelta(t, 100.0, sumAllocations(out), 1e-9)
}

func TestComputeAllocations_Deterministic(t *testing.T) {
	in := seedInputs()
	in.Changes24h = map[string]float64{"REI": 3.2, "XAU": -1.4, "USD-TRY": 0.7}

	first := ComputeAllocations(in, 0.8)
	second := ComputeAllocations(in, 0.8)

	require.Len(t, second, len(first))
	for asset, pct := range first {
		assert.Equal(t, pct, second[asset], asset)
	}
}

func TestComputeAllocations_MomentumTilt(t *testing.T) {
	in := seedInputs()
	in.Changes24h["REI"] = 5 // positive momentum raises REI's score

	out := ComputeAllocations(in, 0.8)

	assert.Greater(t, out["REI"], 40.0)
	assert.InDelta(t, 100.0, sumAllocations(out), 1e-9)
}

func TestComputeAllocations_CapRedistributes(t *testing.T) {
	in := Inputs{
		CurrentAllocations: map[string]float64{"A": 50, "B": 50},
		TargetYields:       map[string]float64{"A": 90, "B": 10},
		Changes24h:         map[string]float64{},
	}

	out := ComputeAllocations(in, 0.8)

	assert.InDelta(t, 80.0, out["A"], 1e-9)
	assert.InDelta(t, 20.0, out["B"], 1e-9)
	assert.InDelta(t, 100.0, sumAllocations(out), 1e-9)
}

func TestComputeAllocations_CapNeverExceeded(t *testing.T) {
	in := Inputs{
		CurrentAllocations: map[string]float64{"A": 40, "B": 40, "C": 20},
		TargetYields:       map[string]float64{"A": 95, "B": 90, "C": 1},
		Changes24h:         map[string]float64{},
	}

	out := ComputeAllocations(in, 0.5)

	for asset, pct := range out {
		assert.LessOrEqual(t, pct, 50.0+1e-9, asset)
	}
	assert.InDelta(t, 100.0, sumAllocations(out), 1e-9)
}

func TestComputeAllocations_ZeroScoresKeepBook(t *testing.T) {
	in := seedInputs()
	in.TargetYields = map[string]float64{"REI": 0, "XAU": 0, "USD-TRY": 0}

	out := ComputeAllocations(in, 0.8)

	assert.Equal(t, in.CurrentAllocations, out)
}

func TestComputeAllocations_NegativeScoreClampedToZero(t *testing.T) {
	in := Inputs{
		CurrentAllocations: map[string]float64{"A": 50, "B": 50},
		TargetYields:       map[string]float64{"A": 10, "B": 10},
		// -2000% change would push B's score negative without the clamp
		Changes24h: map[string]float64{"A": 0, "B": -2000},
	}

	out := ComputeAllocations(in, 1.0)

	assert.InDelta(t, 100.0, out["A"], 1e-9)
	assert.InDelta(t, 0.0, out["B"], 1e-9)
}

func TestYieldDelta(t *testing.T) {
	yields := map[string]float64{"REI": 12, "XAU": 10, "USD-TRY": 8}
	previous := map[string]float64{"REI": 45, "XAU": 30, "USD-TRY": 25}
	next := map[string]float64{"REI": 50, "XAU": 30, "USD-TRY": 20}

	// 10.4 before, 10.6 after
	delta := YieldDelta(previous, next, yields)
	assert.InDelta(t, 0.2, delta, 1e-9)
}

func TestYieldDelta_UnchangedBookIsZero(t *testing.T) {
	yields := map[string]float64{"REI": 12, "XAU": 10}
	book := map[string]float64{"REI": 60, "XAU": 40}

	assert.True(t, math.Abs(YieldDelta(book, book, yields)) < 1e-12)
}

func TestDetermineReason(t *testing.T) {
	tests := []struct {
		name     string
		previous map[string]float64
		next     map[string]float64
		want     string
	}{
		{
			name:     "major reallocation",
			previous: map[string]float64{"REI": 45, "XAU": 55},
			next:     map[string]float64{"REI": 70, "XAU": 30},
			want:     "Major reallocation: REI position adjusted by 25.0%",
		},
		{
			name:     "yield optimization",
			previous: map[string]float64{"REI": 45, "XAU": 55},
			next:     map[string]float64{"REI": 57, "XAU": 43},
			want:     "Yield optimization: Rebalancing to capture higher yields",
		},
		{
			name:     "routine",
			previous: map[string]float64{"REI": 45, "XAU": 55},
			next:     map[string]float64{"REI": 47, "XAU": 53},
			want:     "Routine rebalance: Minor adjustments for optimal performance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineReason(tt.previous, tt.next))
		})
	}
}
