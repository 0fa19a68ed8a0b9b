package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aristath/yieldforge/internal/domain"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": "yieldforge",
	})
}

// handleGetState returns the aggregated application snapshot
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.snapshot.State())
}

// handleGetMetrics returns the protocol metrics
func (s *Server) handleGetMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.snapshot.Metrics())
}

// handleGetIPO returns the share-offering stats
func (s *Server) handleGetIPO(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.snapshot.IPO())
}

// handleGetNotification returns the current notification, if any
func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	notification := s.notify.Current()
	if notification == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	s.writeJSON(w, http.StatusOK, notification)
}

// handleGetTransactions returns the persisted transaction history
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.txRepo.GetAll()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load transactions")
		s.writeError(w, http.StatusInternalServerError, "failed to load transactions")
		return
	}
	s.writeJSON(w, http.StatusOK, txs)
}

// handleGetWallet returns the connected wallet, if any
func (s *Server) handleGetWallet(w http.ResponseWriter, r *http.Request) {
	state := s.snapshot.State()
	if state.Wallet == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"connected": false})
		return
	}
	s.writeJSON(w, http.StatusOK, state.Wallet)
}

// handleConnectWallet provisions a fresh testnet wallet
func (s *Server) handleConnectWallet(w http.ResponseWriter, r *http.Request) {
	wallet, err := s.vault.ConnectWallet()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, wallet)
}

// handleDisconnectWallet drops the current wallet
func (s *Server) handleDisconnectWallet(w http.ResponseWriter, r *http.Request) {
	s.vault.DisconnectWallet()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"connected": false})
}

// handleFaucet credits the faucet grant
func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	amount, err := s.vault.RequestFaucet()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"amount": amount})
}

type depositRequest struct {
	Amount float64 `json:"amount"`
}

// handleDeposit converts QX into vault shares
func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lot, err := s.vault.Deposit(req.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lot)
}

type withdrawRequest struct {
	Shares float64 `json:"shares"`
}

// handleWithdraw burns shares back into QX
func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req withdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	qx, err := s.vault.Withdraw(req.Shares)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"qx_returned": qx})
}

type voteRequest struct {
	ProposalID string `json:"proposal_id"`
	Support    bool   `json:"support"`
}

// handleVote casts the connected wallet's vote
func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ProposalID == "" {
		s.writeError(w, http.StatusBadRequest, "proposal_id is required")
		return
	}

	weight, err := s.vault.Vote(req.ProposalID, req.Support)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"proposal_id": req.ProposalID,
		"weight":      weight,
	})
}

// handleRebalance runs one manual rebalance pass
func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	event, err := s.vault.Rebalance()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, event)
}

// handleCompound runs one manual compounding pass
func (s *Server) handleCompound(w http.ResponseWriter, r *http.Request) {
	event, err := s.vault.Compound()
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, event)
}

type autoRebalanceRequest struct {
	Enabled bool `json:"enabled"`
}

// handleSetAutoRebalance toggles the auto-rebalance job
func (s *Server) handleSetAutoRebalance(w http.ResponseWriter, r *http.Request) {
	var req autoRebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.vault.SetAutoRebalance(req.Enabled)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": req.Enabled})
}

// writeDomainError maps sentinel command errors to HTTP statuses
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrWalletNotConnected):
		s.writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientShares),
		errors.Is(err, domain.ErrInsufficientBalance):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProposalNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIntervalNotElapsed),
		errors.Is(err, domain.ErrAlreadyVoted),
		errors.Is(err, domain.ErrProposalClosed),
		errors.Is(err, domain.ErrNoVotingPower):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
