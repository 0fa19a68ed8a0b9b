package rebalancing

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldforge/internal/events"
)

type fakeOracle struct {
	allocations map[string]float64
	prices      map[string]float64
	yields      map[string]float64
	changes     map[string]float64

	applied map[string]float64
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		allocations: map[string]float64{"REI": 45, "XAU": 30, "USD-TRY": 25},
		prices:      map[string]float64{"REI": 2847.50, "XAU": 2024.30, "USD-TRY": 32.45},
		yields:      map[string]float64{"REI": 12, "XAU": 10, "USD-TRY": 8},
		changes:     map[string]float64{"REI": 0, "XAU": 0, "USD-TRY": 0},
	}
}

func (f *fakeOracle) Allocations() map[string]float64 { return f.allocations }
func (f *fakeOracle) Prices() map[string]float64      { return f.prices }
func (f *fakeOracle) Yields() map[string]float64      { return f.yields }
func (f *fakeOracle) Changes24h() map[string]float64  { return f.changes }

func (f *fakeOracle) SetAllocations(allocations map[string]float64) {
	f.applied = allocations
	f.allocations = allocations
}

func newTestService(t *testing.T, oracle *fakeOracle) (*Service, *events.Bus) {
	t.Helper()

	log := zerolog.Nop()
	bus := events.NewBus(log)
	manager := events.NewManager(bus, log)

	fixed := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := NewService(oracle, nil, 0.8, 0.05, manager, log,
		WithClock(func() time.Time { return fixed }),
	)
	return svc, bus
}

func TestService_RebalanceAppliesAllocations(t *testing.T) {
	oracle := newFakeOracle()
	svc, _ := newTestService(t, oracle)

	event, err := svc.Rebalance()
	require.NoError(t, err)

	require.NotNil(t, oracle.applied)
	assert.Equal(t, event.NewAllocations, oracle.applied)

	total := 0.0
	for _, pct := range oracle.applied {
		total += pct
	}
	assert.InDelta(t, 100.0, total, 1e-9)
}

func TestService_RebalanceRecordsEvent(t *testing.T) {
	oracle := newFakeOracle()
	svc, _ := newTestService(t, oracle)

	event, err := svc.Rebalance()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(event.ID, "REBAL_"))
	assert.Equal(t, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), event.Timestamp)
	assert.Equal(t, map[string]float64{"REI": 45, "XAU": 30, "USD-TRY": 25}, event.PreviousAllocations)
	assert.Equal(t, 0.05, event.GasUsed)
	assert.NotEmpty(t, event.Reason)

	history := svc.History()
	require.Len(t, history, 1)
	assert.Equal(t, event.ID, history[0].ID)
	assert.Equal(t, event.Timestamp, svc.LastRebalance())
	assert.Equal(t, 1, svc.Count())
}

func TestService_RebalanceEmitsEvent(t *testing.T) {
	oracle := newFakeOracle()
	svc, bus := newTestService(t, oracle)

	var received *events.Event
	_ = bus.Subscribe(events.Rebalanced, func(e *events.Event) {
		received = e
	})

	event, err := svc.Rebalance()
	require.NoError(t, err)

	require.NotNil(t, received)
	data, ok := received.GetTypedData().(*events.RebalancedData)
	require.True(t, ok)
	assert.Equal(t, event.ID, data.EventID)
	assert.Equal(t, event.Reason, data.Reason)
	assert.Equal(t, event.NewAllocations, data.Allocations)
}

func TestService_RebalanceIdempotentOnStableInputs(t *testing.T) {
	oracle := newFakeOracle()
	svc, _ := newTestService(t, oracle)

	first, err := svc.Rebalance()
	require.NoError(t, err)

	// Inputs unchanged between passes, so the second event is a no-op move
	second, err := svc.Rebalance()
	require.NoError(t, err)

	for asset, pct := range first.NewAllocations {
		assert.InDelta(t, pct, second.NewAllocations[asset], 1e-9, asset)
	}
	assert.InDelta(t, 0.0, second.YieldGenerated, 1e-9)
}

func TestService_HistoryIsCopied(t *testing.T) {
	oracle := newFakeOracle()
	svc, _ := newTestService(t, oracle)

	_, err := svc.Rebalance()
	require.NoError(t, err)

	history := svc.History()
	history[0].Reason = "mutated"

	assert.NotEqual(t, "mutated", svc.History()[0].Reason)
}
