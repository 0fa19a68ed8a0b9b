package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aristath/yieldforge/internal/events"
)

// streamBuffer bounds the per-client event queue. A slow client drops its
// oldest queued events rather than blocking the bus.
const streamBuffer = 64

// handleEventStream pushes every bus event to the client over SSE
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan *events.Event, streamBuffer)
	unsubscribe := s.bus.SubscribeAll(func(event *events.Event) {
		select {
		case ch <- event:
		default:
			// Queue full: drop the oldest and retry once
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- event:
			default:
			}
		}
	})
	defer unsubscribe()

	s.log.Debug().Msg("Event stream client connected")

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			s.log.Debug().Msg("Event stream client disconnected")
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case event := <-ch:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}
