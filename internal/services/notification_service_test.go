package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

func newNotificationService(t *testing.T, ttl time.Duration) (*NotificationService, *events.Bus) {
	t.Helper()

	log := zerolog.Nop()
	bus := events.NewBus(log)
	manager := events.NewManager(bus, log)
	return NewNotificationService(ttl, manager, log), bus
}

func TestNotification_LatestWins(t *testing.T) {
	svc, _ := newNotificationService(t, time.Minute)

	svc.Success("first")
	svc.Error("second")

	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)
	assert.Equal(t, domain.NotifyError, current.Kind)
}

func TestNotification_AutoClear(t *testing.T) {
	svc, _ := newNotificationService(t, 20*time.Millisecond)

	svc.Info("fleeting")
	require.NotNil(t, svc.Current())

	assert.Eventually(t, func() bool {
		return svc.Current() == nil
	}, time.Second, 5*time.Millisecond)
}

func TestNotification_StaleTimerDoesNotClearNewer(t *testing.T) {
	svc, _ := newNotificationService(t, 30*time.Millisecond)

	svc.Info("old")
	time.Sleep(15 * time.Millisecond)
	svc.Info("new")

	// The old notification's timer fires here; "new" must survive it
	time.Sleep(20 * time.Millisecond)
	current := svc.Current()
	require.NotNil(t, current)
	assert.Equal(t, "new", current.Message)
}

func TestNotification_EmitsEvent(t *testing.T) {
	svc, bus := newNotificationService(t, time.Minute)

	var received *events.Event
	_ = bus.Subscribe(events.NotificationSet, func(e *events.Event) {
		received = e
	})

	svc.Success("done")

	require.NotNil(t, received)
	data, ok := received.GetTypedData().(*events.NotificationSetData)
	require.True(t, ok)
	assert.Equal(t, "done", data.Message)
	assert.Equal(t, "success", data.Kind)
}

func TestNotification_Clear(t *testing.T) {
	svc, _ := newNotificationService(t, time.Minute)

	svc.Info("visible")
	svc.Clear()
	assert.Nil(t, svc.Current())
}
