// Package oracle maintains the synthetic price feed: a fixed asset book
// whose prices move on a bounded random walk each tick.
package oracle

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
	"github.com/aristath/yieldforge/pkg/formulas"
)

const (
	// priceFloor keeps the walk strictly positive
	priceFloor = 0.01

	// historyLimit bounds the per-asset price history kept for stats
	historyLimit = 500

	// rocPeriod / rsiPeriod are the indicator lookbacks over tick history
	rocPeriod = 10
	rsiPeriod = 14

	// oracleNodeCount is the size of the simulated oracle node pool
	oracleNodeCount = 47
)

// Service owns the oracle feed state. All mutations are serialized behind
// the mutex; consumers read last-write-wins snapshots.
type Service struct {
	mu      sync.RWMutex
	assets  []Asset
	history map[string][]float64 // symbol -> recorded prices

	maxChange24h float64

	eventManager *events.Manager
	rng          *rand.Rand
	now          func() time.Time
	log          zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithRand injects a seeded random source for deterministic tests
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) { s.rng = rng }
}

// WithClock injects a clock for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates the oracle feed service with the seed asset book
func NewService(maxChange24h float64, eventManager *events.Manager, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		maxChange24h: maxChange24h,
		eventManager: eventManager,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
		log:          log.With().Str("service", "oracle").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.assets = seedAssets(s.now())
	s.history = make(map[string][]float64, len(s.assets))
	for _, a := range s.assets {
		s.history[a.Symbol] = []float64{a.Price}
	}

	return s
}

// Tick perturbs every asset's price by one bounded random-walk step and
// emits a PriceUpdated event per asset:
//
//	newPrice = max(floor, price + U(-1,1) * volatility * price)
//
// The 24h change is the cumulative sum of per-tick percentage moves,
// clamped to [-maxChange24h, maxChange24h]. This is the single canonical
// definition of change_24h in the system.
func (s *Service) Tick() []domain.OracleUpdate {
	s.mu.Lock()

	now := s.now()
	updates := make([]domain.OracleUpdate, 0, len(s.assets))

	for i := range s.assets {
		a := &s.assets[i]

		step := (s.rng.Float64()*2 - 1) * a.Volatility * a.Price
		newPrice := math.Max(priceFloor, a.Price+step)

		tickChange := 0.0
		if a.Price > 0 {
			tickChange = (newPrice - a.Price) / a.Price * 100
		}

		a.Price = newPrice
		a.Change24h = clamp(a.Change24h+tickChange, -s.maxChange24h, s.maxChange24h)
		a.LastUpdate = now
		a.Confidence = 0.95 + s.rng.Float64()*0.05
		a.Source = fmt.Sprintf("QUBIC_ORACLE_NODE_%d", s.rng.Intn(oracleNodeCount)+1)

		s.history[a.Symbol] = appendBounded(s.history[a.Symbol], newPrice, historyLimit)

		updates = append(updates, domain.OracleUpdate{
			AssetID:    a.Symbol,
			Price:      a.Price,
			Timestamp:  now,
			Source:     a.Source,
			Confidence: a.Confidence,
		})
	}

	emitted := make([]*events.PriceUpdatedData, 0, len(s.assets))
	for _, a := range s.assets {
		emitted = append(emitted, &events.PriceUpdatedData{
			AssetID:    a.ID,
			Symbol:     a.Symbol,
			Price:      a.Price,
			Change24h:  a.Change24h,
			Confidence: a.Confidence,
			Source:     a.Source,
		})
	}
	s.mu.Unlock()

	// Emit outside the lock: bus handlers may read back into this service
	for _, data := range emitted {
		s.eventManager.EmitTyped("oracle", data)
	}

	return updates
}

// Assets returns a snapshot of the asset book
func (s *Service) Assets() []Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Asset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Allocations returns the current allocation percentages by symbol
func (s *Service) Allocations() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.assets))
	for _, a := range s.assets {
		out[a.Symbol] = a.Allocation
	}
	return out
}

// Prices returns the current prices by symbol
func (s *Service) Prices() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.assets))
	for _, a := range s.assets {
		out[a.Symbol] = a.Price
	}
	return out
}

// Yields returns the per-asset yields by symbol
func (s *Service) Yields() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.assets))
	for _, a := range s.assets {
		out[a.Symbol] = a.Yield
	}
	return out
}

// Changes24h returns the clamped cumulative 24h change by symbol
func (s *Service) Changes24h() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]float64, len(s.assets))
	for _, a := range s.assets {
		out[a.Symbol] = a.Change24h
	}
	return out
}

// MaxAbsChange24h returns the largest absolute 24h change across assets
func (s *Service) MaxAbsChange24h() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	max := 0.0
	for _, a := range s.assets {
		if abs := math.Abs(a.Change24h); abs > max {
			max = abs
		}
	}
	return max
}

// SetAllocations applies new allocation percentages after a rebalance.
// Symbols missing from the map keep their current allocation.
func (s *Service) SetAllocations(allocations map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.assets {
		if pct, ok := allocations[s.assets[i].Symbol]; ok {
			s.assets[i].Allocation = pct
		}
	}
}

// CurrentAPY derives the allocation-weighted average yield
func (s *Service) CurrentAPY() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	yields := make([]float64, len(s.assets))
	allocations := make([]float64, len(s.assets))
	for i, a := range s.assets {
		yields[i] = a.Yield
		allocations[i] = a.Allocation
	}
	return formulas.WeightedAPY(yields, allocations)
}

// Stats computes derived statistics for one asset's recorded history
func (s *Service) Stats(symbol string) (AssetStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prices, ok := s.history[symbol]
	if !ok {
		return AssetStats{}, false
	}

	return AssetStats{
		Symbol:             symbol,
		Observations:       len(prices),
		MeanPrice:          formulas.Mean(prices),
		RealizedVolatility: formulas.RealizedVolatility(prices),
		Momentum:           formulas.CalculateROC(prices, rocPeriod),
		RSI:                formulas.CalculateRSI(prices, rsiPeriod),
	}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func appendBounded(history []float64, v float64, limit int) []float64 {
	history = append(history, v)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}
