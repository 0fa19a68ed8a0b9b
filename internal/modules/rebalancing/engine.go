// Package rebalancing recomputes target allocations from yields and price
// momentum, caps single-asset concentration, and records the result as an
// append-only event history.
package rebalancing

import (
	"fmt"
	"math"
	"sort"
)

// momentumWeight scales how much the 24h change tilts an asset's score.
// A +5% mover with 12% yield scores 12 * (1 + 0.05*0.1) = 12.06.
const momentumWeight = 0.1

// ComputeAllocations derives new allocation percentages from the inputs.
//
// Per asset: score = max(0, yield * (1 + change24h/100 * momentumWeight)).
// Scores are converted to percentages of 100, subject to a per-asset cap
// (maxAllocation as a fraction, e.g. 0.8 for 80%). Capped excess is
// redistributed across the uncapped assets proportionally until the set
// sums to 100 with no asset above the cap.
//
// The computation is a pure function of its inputs: calling it twice with
// unchanged inputs yields the same output.
func ComputeAllocations(in Inputs, maxAllocation float64) map[string]float64 {
	scores := make(map[string]float64, len(in.TargetYields))
	totalScore := 0.0

	for asset, yield := range in.TargetYields {
		change := in.Changes24h[asset] / 100.0
		score := yield * (1 + change*momentumWeight)
		if score < 0 {
			score = 0
		}
		scores[asset] = score
		totalScore += score
	}

	// Nothing scores: keep the book as it is
	if totalScore == 0 {
		out := make(map[string]float64, len(in.CurrentAllocations))
		for asset, pct := range in.CurrentAllocations {
			out[asset] = pct
		}
		return out
	}

	capPct := maxAllocation * 100

	// Deterministic iteration order for the water-filling passes
	assets := make([]string, 0, len(scores))
	for asset := range scores {
		assets = append(assets, asset)
	}
	sort.Strings(assets)

	allocations := make(map[string]float64, len(scores))
	uncapped := make(map[string]bool, len(scores))
	for _, asset := range assets {
		uncapped[asset] = true
	}
	remainingPct := 100.0

	for {
		poolScore := 0.0
		for asset := range uncapped {
			poolScore += scores[asset]
		}
		if poolScore == 0 {
			// Remaining assets all score zero; they get nothing
			for asset := range uncapped {
				allocations[asset] = 0
			}
			break
		}

		capped := false
		for _, asset := range assets {
			if !uncapped[asset] {
				continue
			}
			share := scores[asset] / poolScore * remainingPct
			if share > capPct {
				allocations[asset] = capPct
				remainingPct -= capPct
				delete(uncapped, asset)
				capped = true
				break // pool changed; recompute shares
			}
		}

		if !capped {
			for asset := range uncapped {
				allocations[asset] = scores[asset] / poolScore * remainingPct
			}
			break
		}
	}

	return allocations
}

// YieldDelta is the change in allocation-weighted yield between two books
func YieldDelta(previous, next, yields map[string]float64) float64 {
	oldYield := 0.0
	newYield := 0.0
	for asset, yield := range yields {
		oldYield += previous[asset] * yield / 100
		newYield += next[asset] * yield / 100
	}
	return newYield - oldYield
}

// DetermineReason describes a rebalance by its largest single-asset move
func DetermineReason(previous, next map[string]float64) string {
	maxChange := 0.0
	changedAsset := ""

	for asset, pct := range next {
		change := math.Abs(pct - previous[asset])
		if change > maxChange {
			maxChange = change
			changedAsset = asset
		}
	}

	switch {
	case maxChange > 20:
		return fmt.Sprintf("Major reallocation: %s position adjusted by %.1f%%", changedAsset, maxChange)
	case maxChange > 10:
		return "Yield optimization: Rebalancing to capture higher yields"
	default:
		return "Routine rebalance: Minor adjustments for optimal performance"
	}
}
