package compounding

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handler handles compounding HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new compounding handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "compounding").Logger(),
	}
}

// HandleGetHistory returns all recorded compounding events, oldest first
func (h *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.History())
}

// HandleGetStatus returns the interval gate state
func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"can_compound":     h.service.CanCompound(),
		"last_compound":    h.service.LastCompound(),
		"next_compound_at": h.service.NextCompoundAt(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
