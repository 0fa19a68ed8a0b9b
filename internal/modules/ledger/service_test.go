package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

const owner = "TESTOWNERADDRESS"

func newTestLedger() (*Service, *events.Bus) {
	log := zerolog.Nop()
	bus := events.NewBus(log)
	manager := events.NewManager(bus, log)

	svc := NewService(10.0, manager, log,
		WithClock(func() time.Time { return time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC) }),
	)
	return svc, bus
}

func TestDeposit(t *testing.T) {
	svc, _ := newTestLedger()

	// 1000 QX at share value 1.0 mints exactly 1000 shares
	lot, err := svc.Deposit(owner, 1000)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, lot.Amount)
	assert.Equal(t, owner, lot.Owner)
	assert.Equal(t, 1000.0, lot.ValueAtMint)
	assert.False(t, lot.Locked)
	assert.Equal(t, 1000.0, svc.TotalSupply())
	assert.Equal(t, 1000.0, svc.Balance(owner))
}

func TestDeposit_BelowMinimum(t *testing.T) {
	svc, _ := newTestLedger()

	tests := []float64{9.99, 0, -100}
	for _, amount := range tests {
		_, err := svc.Deposit(owner, amount)
		assert.ErrorIs(t, err, domain.ErrInvalidAmount, "amount %v", amount)
	}
	assert.Equal(t, 0.0, svc.TotalSupply())
}

func TestDeposit_MintsAgainstCurrentShareValue(t *testing.T) {
	svc, _ := newTestLedger()

	svc.ApplyCompound(1.25) // share value now 1.25

	lot, err := svc.Deposit(owner, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 800.0, lot.Amount, 1e-9) // 1000 / 1.25
	assert.InDelta(t, 800.0, svc.TotalSupply(), 1e-9)
}

func TestWithdraw(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.Deposit(owner, 1000)
	require.NoError(t, err)

	// Withdraw 250 shares at share value 1.0 returns 250 QX
	qx, err := svc.Withdraw(owner, 250)
	require.NoError(t, err)

	assert.InDelta(t, 250.0, qx, 1e-9)
	assert.InDelta(t, 750.0, svc.Balance(owner), 1e-9)
	assert.InDelta(t, 750.0, svc.TotalSupply(), 1e-9)
}

func TestWithdraw_InsufficientShares(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.Deposit(owner, 100)
	require.NoError(t, err)

	_, err = svc.Withdraw(owner, 100.01)
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)

	_, err = svc.Withdraw("UNKNOWN", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientShares)

	// Balance unchanged after failed withdrawals
	assert.Equal(t, 100.0, svc.Balance(owner))
}

func TestWithdraw_FIFOConsumption(t *testing.T) {
	svc, _ := newTestLedger()

	first, err := svc.Deposit(owner, 100)
	require.NoError(t, err)
	second, err := svc.Deposit(owner, 200)
	require.NoError(t, err)
	third, err := svc.Deposit(owner, 300)
	require.NoError(t, err)

	// Consumes all of the first lot and half of the second
	_, err = svc.Withdraw(owner, 200)
	require.NoError(t, err)

	snap := svc.SnapshotFor(owner)
	require.Len(t, snap.Lots, 2)
	assert.Equal(t, second.ID, snap.Lots[0].ID, "oldest surviving lot should be the split second lot")
	assert.InDelta(t, 100.0, snap.Lots[0].Amount, 1e-9)
	assert.Equal(t, third.ID, snap.Lots[1].ID)
	assert.InDelta(t, 300.0, snap.Lots[1].Amount, 1e-9)

	_ = first // consumed entirely
}

func TestWithdraw_ExactLotBoundary(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.Deposit(owner, 100)
	require.NoError(t, err)
	second, err := svc.Deposit(owner, 200)
	require.NoError(t, err)

	_, err = svc.Withdraw(owner, 100)
	require.NoError(t, err)

	snap := svc.SnapshotFor(owner)
	require.Len(t, snap.Lots, 1)
	assert.Equal(t, second.ID, snap.Lots[0].ID)
	assert.InDelta(t, 200.0, snap.Lots[0].Amount, 1e-9)
}

func TestWithdraw_AfterCompound(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.Deposit(owner, 1000)
	require.NoError(t, err)

	svc.ApplyCompound(1.1)

	qx, err := svc.Withdraw(owner, 500)
	require.NoError(t, err)
	assert.InDelta(t, 550.0, qx, 1e-9) // 500 * 1.1
}

func TestInvariant_SupplyEqualsSumOfLots(t *testing.T) {
	svc, _ := newTestLedger()

	owners := []string{"ALICE", "BOB", "CAROL"}
	deposits := []float64{150, 300, 1000, 42.5, 77}

	for i, amount := range deposits {
		_, err := svc.Deposit(owners[i%len(owners)], amount)
		require.NoError(t, err)
	}
	_, err := svc.Withdraw("ALICE", 100)
	require.NoError(t, err)
	_, err = svc.Withdraw("BOB", 250)
	require.NoError(t, err)

	sum := 0.0
	for _, o := range owners {
		snap := svc.SnapshotFor(o)
		lotSum := 0.0
		for _, lot := range snap.Lots {
			lotSum += lot.Amount
		}
		assert.InDelta(t, snap.Balance, lotSum, 1e-9, "owner balance must equal sum of lots")
		sum += lotSum
	}
	assert.InDelta(t, svc.TotalSupply(), sum, 1e-9, "total supply must equal sum of all lots")
}

func TestApplyCompound_Monotonic(t *testing.T) {
	svc, _ := newTestLedger()

	prev, current := svc.ApplyCompound(1.0003)
	assert.Equal(t, 1.0, prev)
	assert.Greater(t, current, prev)

	// Share value never decreases for factor >= 1
	for i := 0; i < 100; i++ {
		p, c := svc.ApplyCompound(1.0001)
		assert.GreaterOrEqual(t, c, p)
	}
}

func TestTVL(t *testing.T) {
	svc, _ := newTestLedger()

	_, err := svc.Deposit(owner, 1000)
	require.NoError(t, err)

	svc.ApplyCompound(1.05)
	assert.InDelta(t, 1050.0, svc.TVL(), 1e-9)
}

func TestHolderCount(t *testing.T) {
	svc, _ := newTestLedger()

	assert.Equal(t, 0, svc.HolderCount())

	_, _ = svc.Deposit("ALICE", 100)
	_, _ = svc.Deposit("BOB", 100)
	assert.Equal(t, 2, svc.HolderCount())

	_, err := svc.Withdraw("ALICE", 100)
	require.NoError(t, err)
	assert.Equal(t, 1, svc.HolderCount())
}

func TestDeposit_EmitsSharesMinted(t *testing.T) {
	svc, bus := newTestLedger()

	var got *events.SharesMintedData
	bus.Subscribe(events.SharesMinted, func(event *events.Event) {
		got, _ = event.GetTypedData().(*events.SharesMintedData)
	})

	_, err := svc.Deposit(owner, 500)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, owner, got.Owner)
	assert.InDelta(t, 500.0, got.Shares, 1e-9)
	assert.Equal(t, 1.0, got.ShareValue)
}

func TestConcurrentDeposits(t *testing.T) {
	svc, _ := newTestLedger()

	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				_, _ = svc.Deposit(owner, 10)
			}
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}

	if math.Abs(svc.TotalSupply()-10000) > 1e-6 {
		t.Errorf("Expected supply 10000 after concurrent deposits, got %v", svc.TotalSupply())
	}
}
