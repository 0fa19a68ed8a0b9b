package rebalancing

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/events"
)

// OracleSource provides the feed inputs a rebalance needs
type OracleSource interface {
	Allocations() map[string]float64
	Prices() map[string]float64
	Yields() map[string]float64
	Changes24h() map[string]float64
	SetAllocations(allocations map[string]float64)
}

// Service orchestrates rebalancing: it reads the oracle book, runs the
// engine, applies the new allocations, and appends the event to history.
type Service struct {
	mu sync.Mutex

	oracle        OracleSource
	repo          *Repository
	maxAllocation float64
	gasFee        float64

	lastRebalance time.Time
	history       []Event

	eventManager *events.Manager
	now          func() time.Time
	log          zerolog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithClock injects a clock for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new rebalancing service
func NewService(
	oracle OracleSource,
	repo *Repository,
	maxAllocation float64,
	gasFee float64,
	eventManager *events.Manager,
	log zerolog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		oracle:        oracle,
		repo:          repo,
		maxAllocation: maxAllocation,
		gasFee:        gasFee,
		eventManager:  eventManager,
		now:           time.Now,
		log:           log.With().Str("service", "rebalancing").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Rebalance runs one rebalance pass and returns the recorded event
func (s *Service) Rebalance() (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := Inputs{
		CurrentAllocations: s.oracle.Allocations(),
		Prices:             s.oracle.Prices(),
		TargetYields:       s.oracle.Yields(),
		Changes24h:         s.oracle.Changes24h(),
	}

	newAllocations := ComputeAllocations(in, s.maxAllocation)

	event := Event{
		ID:                  "REBAL_" + uuid.New().String(),
		Timestamp:           s.now(),
		PreviousAllocations: in.CurrentAllocations,
		NewAllocations:      newAllocations,
		Reason:              DetermineReason(in.CurrentAllocations, newAllocations),
		GasUsed:             s.gasFee,
		YieldGenerated:      YieldDelta(in.CurrentAllocations, newAllocations, in.TargetYields),
	}

	s.oracle.SetAllocations(newAllocations)
	s.history = append(s.history, event)
	s.lastRebalance = event.Timestamp

	if s.repo != nil {
		if err := s.repo.Create(event); err != nil {
			s.log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to persist rebalance event")
		}
	}

	s.log.Info().
		Str("event_id", event.ID).
		Str("reason", event.Reason).
		Float64("yield_delta", event.YieldGenerated).
		Msg("Rebalanced")

	s.eventManager.EmitTyped("rebalancing", &events.RebalancedData{
		EventID:     event.ID,
		Reason:      event.Reason,
		Allocations: newAllocations,
		YieldDelta:  event.YieldGenerated,
	})

	return event, nil
}

// History returns the in-memory event history, oldest first
func (s *Service) History() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.history))
	copy(out, s.history)
	return out
}

// LastRebalance returns the time of the most recent rebalance (zero value
// when none has run yet)
func (s *Service) LastRebalance() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRebalance
}

// Count returns the number of recorded rebalances
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
