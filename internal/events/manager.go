// Package events provides the in-process event bus used to decouple the
// simulation engine from presentation consumers (SSE stream, snapshot
// aggregator, notification service).
package events

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// EventType represents different event types
type EventType string

const (
	PriceUpdated       EventType = "PRICE_UPDATED"
	SharesMinted       EventType = "SHARES_MINTED"
	SharesBurned       EventType = "SHARES_BURNED"
	Rebalanced         EventType = "REBALANCED"
	Compounded         EventType = "COMPOUNDED"
	VoteCast           EventType = "VOTE_CAST"
	ProposalClosed     EventType = "PROPOSAL_CLOSED"
	WalletConnected    EventType = "WALLET_CONNECTED"
	WalletDisconnected EventType = "WALLET_DISCONNECTED"
	FaucetGranted      EventType = "FAUCET_GRANTED"
	NotificationSet    EventType = "NOTIFICATION_SET"
	ErrorOccurred      EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Module    string                 `json:"module"`

	typed EventData
}

// GetTypedData returns the typed payload attached via EmitTyped, or nil
func (e *Event) GetTypedData() EventData {
	return e.typed
}

// Manager handles event emission and logging
type Manager struct {
	bus *Bus
	log zerolog.Logger
}

// NewManager creates a new event manager
func NewManager(bus *Bus, log zerolog.Logger) *Manager {
	return &Manager{
		bus: bus,
		log: log.With().Str("service", "events").Logger(),
	}
}

// Emit emits an event with a loosely-typed payload
func (m *Manager) Emit(eventType EventType, module string, data map[string]interface{}) {
	event := &Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Data:      data,
		Module:    module,
	}

	m.publish(event)
}

// EmitTyped emits an event carrying a typed payload. The payload is also
// flattened into Data so JSON consumers see a uniform shape.
func (m *Manager) EmitTyped(module string, data EventData) {
	event := &Event{
		Type:      data.EventType(),
		Timestamp: time.Now(),
		Module:    module,
		typed:     data,
	}

	if raw, err := json.Marshal(data); err == nil {
		var flat map[string]interface{}
		if err := json.Unmarshal(raw, &flat); err == nil {
			event.Data = flat
		}
	}

	m.publish(event)
}

// EmitError emits an error event
func (m *Manager) EmitError(module string, err error, context map[string]interface{}) {
	data := map[string]interface{}{
		"error":   err.Error(),
		"context": context,
	}
	m.Emit(ErrorOccurred, module, data)
}

func (m *Manager) publish(event *Event) {
	eventJSON, _ := json.Marshal(event)
	m.log.Debug().
		Str("event_type", string(event.Type)).
		Str("module", event.Module).
		RawJSON("event", eventJSON).
		Msg("Event emitted")

	m.bus.Publish(event)
}
