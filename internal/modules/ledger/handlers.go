package ledger

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler handles ledger HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new ledger handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetSnapshot returns one owner's ledger position
func (h *Handler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	h.writeJSON(w, http.StatusOK, h.service.SnapshotFor(owner))
}

// HandleGetSupply returns global supply figures
func (h *Handler) HandleGetSupply(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_supply": h.service.TotalSupply(),
		"share_value":  h.service.ShareValue(),
		"tvl":          h.service.TVL(),
		"holders":      h.service.HolderCount(),
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
