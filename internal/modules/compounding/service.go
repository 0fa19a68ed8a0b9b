package compounding

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

// ShareLedger is the slice of the ledger the compounding engine needs
type ShareLedger interface {
	ApplyCompound(factor float64) (previous, current float64)
	TotalSupply() float64
}

// Service applies compounding passes to the ledger at most once per
// configured interval.
type Service struct {
	mu sync.Mutex

	ledger        ShareLedger
	repo          *Repository
	interval      time.Duration
	managementFee float64

	lastCompound time.Time
	history      []Event

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

// NewService creates a new compounding service. The interval gate starts
// from construction time: the first compound is allowed one full interval
// later.
func NewService(
	ledger ShareLedger,
	repo *Repository,
	interval time.Duration,
	managementFee float64,
	eventManager *events.Manager,
	log zerolog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		ledger:        ledger,
		repo:          repo,
		interval:      interval,
		managementFee: managementFee,
		eventManager:  eventManager,
		now:           time.Now,
		log:           log.With().Str("service", "compounding").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.lastCompound = s.now()

	return s
}

// Compound applies one compounding pass at the given APY. Returns
// ErrIntervalNotElapsed when called before the interval since the last
// pass has passed.
func (s *Service) Compound(apy float64) (Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastCompound) < s.interval {
		return Event{}, domain.ErrIntervalNotElapsed
	}

	factor := DailyFactor(apy, s.managementFee)
	previous, current := s.ledger.ApplyCompound(factor)
	supply := s.ledger.TotalSupply()

	event := Event{
		ID:            "COMP_" + uuid.New().String(),
		Timestamp:     now,
		Amount:        Accrued(previous, current, supply),
		NewShareValue: current,
		APY:           apy,
		TotalShares:   supply,
	}

	s.lastCompound = now
	s.history = append(s.history, event)

	if s.repo != nil {
		if err := s.repo.Create(event); err != nil {
			s.log.Error().Err(err).Str("event_id", event.ID).Msg("Failed to persist compound event")
		}
	}

	s.log.Info().
		Str("event_id", event.ID).
		Float64("apy", apy).
		Float64("share_value", current).
		Float64("accrued", event.Amount).
		Msg("Compounded")

	s.eventManager.EmitTyped("compounding", &events.CompoundedData{
		EventID:       event.ID,
		Amount:        event.Amount,
		NewShareValue: current,
		APY:           apy,
		TotalShares:   supply,
	})

	return event, nil
}

// CanCompound reports whether a compounding pass is currently allowed
func (s *Service) CanCompound() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.lastCompound) >= s.interval
}

// NextCompoundAt returns the earliest time the next pass is allowed
func (s *Service) NextCompoundAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCompound.Add(s.interval)
}

// LastCompound returns the time of the most recent pass (construction
// time when none has run)
func (s *Service) LastCompound() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCompound
}

// History returns the in-memory event history, oldest first
func (s *Service) History() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Event, len(s.history))
	copy(out, s.history)
	return out
}
