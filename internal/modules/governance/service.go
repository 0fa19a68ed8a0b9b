// Package governance runs the proposal book: share-weighted voting with
// one vote per address, and expiry-driven closing against a quorum.
package governance

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

// VotingPower resolves an address to its vote weight
type VotingPower interface {
	Balance(owner string) float64
}

// Service owns the proposal book
type Service struct {
	mu        sync.Mutex
	proposals []*Proposal

	power VotingPower

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

// NewService creates a governance service seeded with the launch proposals
func NewService(power VotingPower, eventManager *events.Manager, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		power:        power,
		eventManager: eventManager,
		now:          time.Now,
		log:          log.With().Str("service", "governance").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.proposals = seedProposals(s.now())

	return s
}

// Proposals returns a snapshot of the proposal book
func (s *Service) Proposals() []Proposal {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Proposal, 0, len(s.proposals))
	for _, p := range s.proposals {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Proposal returns one proposal by ID
func (s *Service) Proposal(id string) (Proposal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findLocked(id)
	if p == nil {
		return Proposal{}, domain.ErrProposalNotFound
	}
	return *p, nil
}

// Vote casts owner's full share balance for or against a proposal.
// The weight is the owner's ledger balance at cast time; later balance
// changes do not retroactively adjust the tally.
func (s *Service) Vote(proposalID, owner string, support bool) (float64, error) {
	s.mu.Lock()

	p := s.findLocked(proposalID)
	if p == nil {
		s.mu.Unlock()
		return 0, domain.ErrProposalNotFound
	}
	if p.Status != StatusActive || s.now().After(p.EndsAt) {
		s.mu.Unlock()
		return 0, domain.ErrProposalClosed
	}
	if p.Voters[owner] {
		s.mu.Unlock()
		return 0, domain.ErrAlreadyVoted
	}

	weight := s.power.Balance(owner)
	if weight <= 0 {
		s.mu.Unlock()
		return 0, domain.ErrNoVotingPower
	}

	if support {
		p.VotesFor += weight
	} else {
		p.VotesAgainst += weight
	}
	p.Voters[owner] = true
	s.mu.Unlock()

	s.log.Info().
		Str("proposal_id", proposalID).
		Str("owner", owner).
		Bool("support", support).
		Float64("weight", weight).
		Msg("Vote cast")

	s.eventManager.EmitTyped("governance", &events.VoteCastData{
		ProposalID: proposalID,
		Owner:      owner,
		Support:    support,
		Weight:     weight,
	})

	return weight, nil
}

// CloseExpired closes every active proposal whose voting window has
// passed. A proposal passes when quorum is reached and votes for exceed
// votes against; otherwise it is rejected. Returns the closed proposals.
func (s *Service) CloseExpired() []Proposal {
	s.mu.Lock()

	now := s.now()
	closed := make([]Proposal, 0)
	for _, p := range s.proposals {
		if p.Status != StatusActive || now.Before(p.EndsAt) {
			continue
		}

		if p.QuorumReached() && p.VotesFor > p.VotesAgainst {
			p.Status = StatusPassed
		} else {
			p.Status = StatusRejected
		}
		closed = append(closed, *p)
	}
	s.mu.Unlock()

	for _, p := range closed {
		s.log.Info().
			Str("proposal_id", p.ID).
			Str("status", string(p.Status)).
			Msg("Proposal closed")

		s.eventManager.EmitTyped("governance", &events.ProposalClosedData{
			ProposalID: p.ID,
			Status:     string(p.Status),
		})
	}

	return closed
}

func (s *Service) findLocked(id string) *Proposal {
	for _, p := range s.proposals {
		if p.ID == id {
			return p
		}
	}
	return nil
}
