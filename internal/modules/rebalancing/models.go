package rebalancing

import "time"

// Event is one immutable rebalance record. History is append-only; events
// are never mutated after creation.
type Event struct {
	ID                  string             `json:"id"`
	Timestamp           time.Time          `json:"timestamp"`
	PreviousAllocations map[string]float64 `json:"previous_allocations"`
	NewAllocations      map[string]float64 `json:"new_allocations"`
	Reason              string             `json:"reason"`
	GasUsed             float64            `json:"gas_used"`
	YieldGenerated      float64            `json:"yield_generated"`
}

// Inputs carries everything the engine needs for one rebalance pass.
// Changes24h holds each asset's current 24h change in percentage points;
// it is the engine's momentum signal, so identical inputs always produce
// identical outputs.
type Inputs struct {
	CurrentAllocations map[string]float64
	Prices             map[string]float64
	TargetYields       map[string]float64
	Changes24h         map[string]float64
}
