package oracle

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/aristath/yieldforge/internal/events"
)

// streamBuffer bounds the per-connection update queue. Slow consumers get
// coalesced behavior: when the buffer is full the oldest update is dropped,
// so the client always converges on the latest values.
const streamBuffer = 16

// StreamHandler pushes oracle price updates to dashboard clients over a
// WebSocket, mirroring the oracle subscription the front end expects.
type StreamHandler struct {
	bus *events.Bus
	log zerolog.Logger
}

// NewStreamHandler creates a new oracle stream handler
func NewStreamHandler(bus *events.Bus, log zerolog.Logger) *StreamHandler {
	return &StreamHandler{
		bus: bus,
		log: log.With().Str("component", "oracle_stream").Logger(),
	}
}

// ServeHTTP handles GET /api/oracle/stream upgrade requests
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The demo dashboard is served from a different origin in dev
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "stream closed")

	updates := make(chan *events.PriceUpdatedData, streamBuffer)
	unsubscribe := h.bus.Subscribe(events.PriceUpdated, func(event *events.Event) {
		data, ok := event.GetTypedData().(*events.PriceUpdatedData)
		if !ok {
			return
		}
		select {
		case updates <- data:
		default:
			// Drop the oldest update to make room; last write wins
			select {
			case <-updates:
			default:
			}
			select {
			case updates <- data:
			default:
			}
		}
	})
	defer unsubscribe()

	h.log.Info().Str("remote", r.RemoteAddr).Msg("Oracle stream connected")

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case data := <-updates:
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, data)
			cancel()
			if err != nil {
				h.log.Debug().Err(err).Msg("Oracle stream write failed, closing")
				return
			}
		}
	}
}
