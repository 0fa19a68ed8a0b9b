// Package services holds the orchestration layer: the vault command
// surface, the state aggregator, and the notification surface. Services
// coordinate the modules; they own no domain math themselves.
package services

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
)

// NotificationService holds the single most-recent user-facing message.
// A newer notification replaces the current one; each auto-clears after
// the configured TTL.
type NotificationService struct {
	mu      sync.Mutex
	current *domain.Notification
	gen     int
	ttl     time.Duration

	eventManager *events.Manager
	log          zerolog.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(ttl time.Duration, eventManager *events.Manager, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		ttl:          ttl,
		eventManager: eventManager,
		log:          log.With().Str("service", "notifications").Logger(),
	}
}

// Notify replaces the current notification and schedules its expiry
func (s *NotificationService) Notify(message string, kind domain.NotificationKind) {
	s.mu.Lock()
	s.current = &domain.Notification{Message: message, Kind: kind}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	s.log.Debug().Str("kind", string(kind)).Str("message", message).Msg("Notification set")

	s.eventManager.EmitTyped("notifications", &events.NotificationSetData{
		Message: message,
		Kind:    string(kind),
	})

	// The generation counter keeps a stale timer from clearing a newer
	// notification.
	time.AfterFunc(s.ttl, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen == gen {
			s.current = nil
		}
	})
}

// Success sets a success notification
func (s *NotificationService) Success(message string) {
	s.Notify(message, domain.NotifySuccess)
}

// Error sets an error notification
func (s *NotificationService) Error(message string) {
	s.Notify(message, domain.NotifyError)
}

// Info sets an info notification
func (s *NotificationService) Info(message string) {
	s.Notify(message, domain.NotifyInfo)
}

// Current returns the active notification, or nil when none is set
func (s *NotificationService) Current() *domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	n := *s.current
	return &n
}

// Clear drops the current notification immediately
func (s *NotificationService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.gen++
}
