package governance

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
)

// Handler handles governance HTTP requests
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new governance handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "governance").Logger(),
	}
}

// HandleGetProposals returns the proposal book
func (h *Handler) HandleGetProposals(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Proposals())
}

// HandleGetProposal returns one proposal by ID
func (h *Handler) HandleGetProposal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	proposal, err := h.service.Proposal(id)
	if err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, proposal)
}

// voteRequest is the body of a vote command
type voteRequest struct {
	Owner   string `json:"owner"`
	Support bool   `json:"support"`
}

// HandleVote casts a vote on a proposal
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Owner == "" {
		h.writeError(w, http.StatusBadRequest, "owner is required")
		return
	}

	weight, err := h.service.Vote(id, req.Owner, req.Support)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrProposalNotFound):
			h.writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrAlreadyVoted),
			errors.Is(err, domain.ErrProposalClosed),
			errors.Is(err, domain.ErrNoVotingPower):
			h.writeError(w, http.StatusConflict, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"proposal_id": id,
		"weight":      weight,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
