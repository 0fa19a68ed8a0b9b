package governance

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

type fakePower struct {
	balances map[string]float64
}

func (f *fakePower) Balance(owner string) float64 { return f.balances[owner] }

func newTestService(t *testing.T) (*Service, *fakePower, *testClock, *events.Bus) {
	t.Helper()

	log := zerolog.Nop()
	bus := events.NewBus(log)
	manager := events.NewManager(bus, log)

	power := &fakePower{balances: map[string]float64{}}
	clock := &testClock{now: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}
	svc := NewService(power, manager, log, WithClock(clock.Now))
	return svc, power, clock, bus
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time          { return c.now }
func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestSeedProposals(t *testing.T) {
	svc, _, clock, _ := newTestService(t)

	proposals := svc.Proposals()
	require.Len(t, proposals, 2)

	btc := proposals[0]
	assert.Equal(t, "PROP_001", btc.ID)
	assert.Equal(t, "Add Bitcoin Treasury Basket", btc.Title)
	assert.Equal(t, 12500.0, btc.VotesFor)
	assert.Equal(t, 3200.0, btc.VotesAgainst)
	assert.Equal(t, 20000.0, btc.Quorum)
	assert.Equal(t, StatusActive, btc.Status)
	assert.Equal(t, clock.Now().Add(7*24*time.Hour), btc.EndsAt)

	rei := proposals[1]
	assert.Equal(t, "Increase Real Estate Allocation", rei.Title)
	assert.Equal(t, 8900.0, rei.VotesFor)
	assert.Equal(t, 7100.0, rei.VotesAgainst)
	assert.Equal(t, 15000.0, rei.Quorum)
	assert.Equal(t, clock.Now().Add(5*24*time.Hour), rei.EndsAt)
}

func TestVote_WeightIsShareBalance(t *testing.T) {
	svc, power, _, bus := newTestService(t)
	power.balances["ALICE"] = 750

	var received *events.Event
	_ = bus.Subscribe(events.VoteCast, func(e *events.Event) {
		received = e
	})

	weight, err := svc.Vote("PROP_001", "ALICE", true)
	require.NoError(t, err)
	assert.Equal(t, 750.0, weight)

	p, err := svc.Proposal("PROP_001")
	require.NoError(t, err)
	assert.Equal(t, 13250.0, p.VotesFor)
	assert.Equal(t, 3200.0, p.VotesAgainst)

	require.NotNil(t, received)
	data, ok := received.GetTypedData().(*events.VoteCastData)
	require.True(t, ok)
	assert.Equal(t, "ALICE", data.Owner)
	assert.True(t, data.Support)
	assert.Equal(t, 750.0, data.Weight)
}

func TestVote_Against(t *testing.T) {
	svc, power, _, _ := newTestService(t)
	power.balances["BOB"] = 100

	_, err := svc.Vote("PROP_002", "BOB", false)
	require.NoError(t, err)

	p, err := svc.Proposal("PROP_002")
	require.NoError(t, err)
	assert.Equal(t, 7200.0, p.VotesAgainst)
}

func TestVote_Errors(t *testing.T) {
	svc, power, clock, _ := newTestService(t)
	power.balances["ALICE"] = 500

	_, err := svc.Vote("PROP_404", "ALICE", true)
	assert.ErrorIs(t, err, domain.ErrProposalNotFound)

	_, err = svc.Vote("PROP_001", "NOBODY", true)
	assert.ErrorIs(t, err, domain.ErrNoVotingPower)

	_, err = svc.Vote("PROP_001", "ALICE", true)
	require.NoError(t, err)
	_, err = svc.Vote("PROP_001", "ALICE", false)
	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)

	// Window expires
	clock.Advance(8 * 24 * time.Hour)
	power.balances["BOB"] = 100
	_, err = svc.Vote("PROP_001", "BOB", true)
	assert.ErrorIs(t, err, domain.ErrProposalClosed)
}

func TestVote_WeightLockedAtCastTime(t *testing.T) {
	svc, power, _, _ := newTestService(t)
	power.balances["ALICE"] = 500

	_, err := svc.Vote("PROP_001", "ALICE", true)
	require.NoError(t, err)

	// Balance changes after the vote do not move the tally
	power.balances["ALICE"] = 10000

	p, err := svc.Proposal("PROP_001")
	require.NoError(t, err)
	assert.Equal(t, 13000.0, p.VotesFor)
}

func TestCloseExpired(t *testing.T) {
	svc, power, clock, bus := newTestService(t)

	closed := svc.CloseExpired()
	assert.Empty(t, closed)

	// Push PROP_001 over quorum so it passes at expiry
	power.balances["WHALE"] = 5000
	_, err := svc.Vote("PROP_001", "WHALE", true)
	require.NoError(t, err)

	// Flip PROP_002 to a majority against
	power.balances["BOB"] = 2000
	_, err = svc.Vote("PROP_002", "BOB", false)
	require.NoError(t, err)

	var closedEvents []*events.Event
	_ = bus.Subscribe(events.ProposalClosed, func(e *events.Event) {
		closedEvents = append(closedEvents, e)
	})

	// PROP_002 expires first with votes against ahead
	clock.Advance(5*24*time.Hour + time.Minute)
	closed = svc.CloseExpired()
	require.Len(t, closed, 1)
	assert.Equal(t, "PROP_002", closed[0].ID)
	assert.Equal(t, StatusRejected, closed[0].Status)

	// PROP_001 expires with quorum met and a majority for
	clock.Advance(2 * 24 * time.Hour)
	closed = svc.CloseExpired()
	require.Len(t, closed, 1)
	assert.Equal(t, "PROP_001", closed[0].ID)
	assert.Equal(t, StatusPassed, closed[0].Status)

	// Already-closed proposals stay closed
	assert.Empty(t, svc.CloseExpired())
	assert.Len(t, closedEvents, 2)
}
