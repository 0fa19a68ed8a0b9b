// Package ledger tracks share lots per owner, the global supply, and the
// global share value. Shares are minted on deposit and consumed FIFO on
// withdraw; the share value moves only through the compounding hook.
package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

// Service is the share ledger. All mutations are serialized behind the
// mutex; lot order per owner is mint order (oldest first).
type Service struct {
	mu          sync.RWMutex
	lots        map[string][]Share // owner -> lots, FIFO
	totalSupply float64
	shareValue  float64

	minDeposit float64

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

// NewService creates an empty ledger with share value 1.0
func NewService(minDeposit float64, eventManager *events.Manager, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		lots:         make(map[string][]Share),
		shareValue:   1.0,
		minDeposit:   minDeposit,
		eventManager: eventManager,
		now:          time.Now,
		log:          log.With().Str("service", "ledger").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Deposit mints amount/shareValue shares as a new lot for owner.
// Returns ErrInvalidAmount when amount is below the configured minimum.
func (s *Service) Deposit(owner string, amount float64) (Share, error) {
	s.mu.Lock()

	if amount < s.minDeposit {
		s.mu.Unlock()
		return Share{}, domain.ErrInvalidAmount
	}

	sharesToMint := amount / s.shareValue
	lot := Share{
		ID:          "SHARE_" + uuid.New().String(),
		Owner:       owner,
		Amount:      sharesToMint,
		MintedAt:    s.now(),
		ValueAtMint: amount,
	}

	s.lots[owner] = append(s.lots[owner], lot)
	s.totalSupply += sharesToMint
	shareValue := s.shareValue
	s.mu.Unlock()

	s.log.Info().
		Str("owner", owner).
		Float64("qx", amount).
		Float64("shares", sharesToMint).
		Msg("Shares minted")

	s.eventManager.EmitTyped("ledger", &events.SharesMintedData{
		Owner:      owner,
		Shares:     sharesToMint,
		QXAmount:   amount,
		ShareValue: shareValue,
		LotID:      lot.ID,
	})

	return lot, nil
}

// Withdraw consumes shareAmount of the owner's lots oldest-first, splitting
// the last lot when partially consumed, and returns the QX value released.
// Returns ErrInsufficientShares when the balance cannot cover the request.
func (s *Service) Withdraw(owner string, shareAmount float64) (float64, error) {
	s.mu.Lock()

	if shareAmount <= 0 || s.balanceLocked(owner) < shareAmount {
		s.mu.Unlock()
		return 0, domain.ErrInsufficientShares
	}

	remaining := shareAmount
	lots := s.lots[owner]
	consumed := 0

	for i := range lots {
		if remaining <= 0 {
			break
		}
		if lots[i].Amount <= remaining {
			remaining -= lots[i].Amount
			consumed++
		} else {
			lots[i].Amount -= remaining
			remaining = 0
		}
	}

	s.lots[owner] = lots[consumed:]
	s.totalSupply -= shareAmount

	qxReturned := shareAmount * s.shareValue
	shareValue := s.shareValue
	s.mu.Unlock()

	s.log.Info().
		Str("owner", owner).
		Float64("shares", shareAmount).
		Float64("qx", qxReturned).
		Msg("Shares burned")

	s.eventManager.EmitTyped("ledger", &events.SharesBurnedData{
		Owner:      owner,
		Shares:     shareAmount,
		QXReturned: qxReturned,
		ShareValue: shareValue,
	})

	return qxReturned, nil
}

// Balance returns the owner's total share balance
func (s *Service) Balance(owner string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balanceLocked(owner)
}

// SnapshotFor returns a read-only view of one owner's position
func (s *Service) SnapshotFor(owner string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lots := make([]Share, len(s.lots[owner]))
	copy(lots, s.lots[owner])

	balance := s.balanceLocked(owner)
	return Snapshot{
		Owner:      owner,
		Balance:    balance,
		ShareValue: s.shareValue,
		TotalValue: balance * s.shareValue,
		Lots:       lots,
	}
}

// ShareValue returns the current global share value
func (s *Service) ShareValue() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.shareValue
}

// TotalSupply returns the total outstanding shares
func (s *Service) TotalSupply() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSupply
}

// TVL returns totalSupply * shareValue
func (s *Service) TVL() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.totalSupply * s.shareValue
}

// HolderCount returns the number of owners with at least one lot
func (s *Service) HolderCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, lots := range s.lots {
		if len(lots) > 0 {
			count++
		}
	}
	return count
}

// ApplyCompound multiplies the global share value by factor and returns the
// previous and new values. Only the compounding engine calls this; all
// outstanding shares appreciate uniformly.
func (s *Service) ApplyCompound(factor float64) (previous, current float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous = s.shareValue
	s.shareValue *= factor
	return previous, s.shareValue
}

func (s *Service) balanceLocked(owner string) float64 {
	total := 0.0
	for _, lot := range s.lots[owner] {
		total += lot.Amount
	}
	return total
}
