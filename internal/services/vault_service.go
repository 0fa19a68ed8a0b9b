package services

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/clients/qubic"
	"github.com/aristath/yieldforge/internal/domain"
	"github.com/aristath/yieldforge/internal/events"
	"github.com/aristath/yieldforge/internal/modules/compounding"
	"github.com/aristath/yieldforge/internal/modules/governance"
	"github.com/aristath/yieldforge/internal/modules/ledger"
	"github.com/aristath/yieldforge/internal/modules/oracle"
	"github.com/aristath/yieldforge/internal/modules/rebalancing"
)

// Demo-mode auto-compound APY range
const (
	demoAPYMin = 12.0
	demoAPYMax = 18.0
)

// VaultService is the command surface. Every user command flows through
// here: it orchestrates the testnet client, the ledger, the engines, and
// governance, and converts failures into notifications. Command errors
// are never fatal.
type VaultService struct {
	client    *qubic.Client
	ledger    *ledger.Service
	oracle    *oracle.Service
	rebalance *rebalancing.Service
	compound  *compounding.Service
	gov       *governance.Service
	notify    *NotificationService

	autoThreshold float64

	mu            sync.Mutex
	autoRebalance bool
	rng           *rand.Rand

	eventManager *events.Manager
	log          zerolog.Logger
}

// VaultOption configures a VaultService
type VaultOption func(*VaultService)

// WithVaultRand injects a seeded random source for deterministic tests
func WithVaultRand(rng *rand.Rand) VaultOption {
	return func(s *VaultService) { s.rng = rng }
}

// NewVaultService creates the command orchestrator
func NewVaultService(
	client *qubic.Client,
	ledgerSvc *ledger.Service,
	oracleSvc *oracle.Service,
	rebalanceSvc *rebalancing.Service,
	compoundSvc *compounding.Service,
	govSvc *governance.Service,
	notify *NotificationService,
	autoRebalance bool,
	autoThreshold float64,
	eventManager *events.Manager,
	log zerolog.Logger,
	opts ...VaultOption,
) *VaultService {
	s := &VaultService{
		client:        client,
		ledger:        ledgerSvc,
		oracle:        oracleSvc,
		rebalance:     rebalanceSvc,
		compound:      compoundSvc,
		gov:           govSvc,
		notify:        notify,
		autoRebalance: autoRebalance,
		autoThreshold: autoThreshold,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		eventManager:  eventManager,
		log:           log.With().Str("service", "vault").Logger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ConnectWallet provisions a fresh testnet identity
func (s *VaultService) ConnectWallet() (domain.Wallet, error) {
	wallet, err := s.client.ConnectWallet()
	if err != nil {
		s.notify.Error("Failed to connect wallet")
		return domain.Wallet{}, err
	}

	s.eventManager.Emit(events.WalletConnected, "vault", map[string]interface{}{
		"address": wallet.Address,
	})
	s.notify.Success(fmt.Sprintf("Wallet connected: %s...%s", wallet.Address[:6], wallet.Address[len(wallet.Address)-4:]))
	return wallet, nil
}

// DisconnectWallet drops the current identity
func (s *VaultService) DisconnectWallet() {
	s.client.DisconnectWallet()
	s.eventManager.Emit(events.WalletDisconnected, "vault", nil)
	s.notify.Info("Wallet disconnected")
}

// Deposit converts QX into vault shares. The wallet pays the amount plus
// the deposit gas fee.
func (s *VaultService) Deposit(amount float64) (ledger.Share, error) {
	wallet := s.client.Wallet()
	if wallet == nil {
		s.notify.Error("Connect a wallet first")
		return ledger.Share{}, domain.ErrWalletNotConnected
	}

	gas := qubic.GasFee(domain.TxDeposit)
	if wallet.Balance < amount+gas {
		s.notify.Error("Insufficient QX balance")
		return ledger.Share{}, domain.ErrInsufficientBalance
	}

	lot, err := s.ledger.Deposit(wallet.Address, amount)
	if err != nil {
		s.notify.Error(fmt.Sprintf("Deposit failed: %s", err))
		return ledger.Share{}, err
	}

	if _, err := s.client.ExecuteTransaction(domain.TxDeposit, amount); err != nil {
		s.log.Error().Err(err).Msg("Failed to record deposit transaction")
	}
	if err := s.client.AdjustBalance(-(amount + gas)); err != nil {
		s.log.Error().Err(err).Msg("Failed to debit wallet")
	}

	s.notify.Success(fmt.Sprintf("Deposited %.2f QX for %.2f shares", amount, lot.Amount))
	return lot, nil
}

// Withdraw burns shares back into QX. The wallet receives the proceeds
// minus the withdraw gas fee.
func (s *VaultService) Withdraw(shares float64) (float64, error) {
	wallet := s.client.Wallet()
	if wallet == nil {
		s.notify.Error("Connect a wallet first")
		return 0, domain.ErrWalletNotConnected
	}

	qx, err := s.ledger.Withdraw(wallet.Address, shares)
	if err != nil {
		s.notify.Error(fmt.Sprintf("Withdrawal failed: %s", err))
		return 0, err
	}

	gas := qubic.GasFee(domain.TxWithdraw)
	if _, err := s.client.ExecuteTransaction(domain.TxWithdraw, qx); err != nil {
		s.log.Error().Err(err).Msg("Failed to record withdraw transaction")
	}
	if err := s.client.AdjustBalance(qx - gas); err != nil {
		s.log.Error().Err(err).Msg("Failed to credit wallet")
	}

	s.notify.Success(fmt.Sprintf("Withdrew %.2f shares for %.2f QX", shares, qx))
	return qx, nil
}

// Vote casts the connected wallet's full share weight on a proposal
func (s *VaultService) Vote(proposalID string, support bool) (float64, error) {
	wallet := s.client.Wallet()
	if wallet == nil {
		s.notify.Error("Connect a wallet first")
		return 0, domain.ErrWalletNotConnected
	}

	weight, err := s.gov.Vote(proposalID, wallet.Address, support)
	if err != nil {
		s.notify.Error(fmt.Sprintf("Vote failed: %s", err))
		return 0, err
	}

	s.notify.Success(fmt.Sprintf("Vote cast with %.2f shares", weight))
	return weight, nil
}

// Rebalance runs one rebalance pass. A connected wallet is charged the
// rebalance gas fee and gets a transaction record; the pass itself does
// not require a wallet so the auto-rebalance job can run unattended.
func (s *VaultService) Rebalance() (rebalancing.Event, error) {
	event, err := s.rebalance.Rebalance()
	if err != nil {
		s.notify.Error(fmt.Sprintf("Rebalance failed: %s", err))
		return rebalancing.Event{}, err
	}

	if s.client.Connected() {
		if _, err := s.client.ExecuteTransaction(domain.TxRebalance, 0); err != nil {
			s.log.Error().Err(err).Msg("Failed to record rebalance transaction")
		}
		if err := s.client.AdjustBalance(-event.GasUsed); err != nil {
			s.log.Error().Err(err).Msg("Failed to debit rebalance gas")
		}
	}

	s.notify.Success(event.Reason)
	return event, nil
}

// Compound applies one compounding pass at the current derived APY
func (s *VaultService) Compound() (compounding.Event, error) {
	event, err := s.compound.Compound(s.oracle.CurrentAPY())
	if err != nil {
		if errors.Is(err, domain.ErrIntervalNotElapsed) {
			s.notify.Info("Compounding is not available yet")
		} else {
			s.notify.Error(fmt.Sprintf("Compound failed: %s", err))
		}
		return compounding.Event{}, err
	}

	if s.client.Connected() {
		if _, err := s.client.ExecuteTransaction(domain.TxCompound, event.Amount); err != nil {
			s.log.Error().Err(err).Msg("Failed to record compound transaction")
		}
		if err := s.client.AdjustBalance(-qubic.GasFee(domain.TxCompound)); err != nil {
			s.log.Error().Err(err).Msg("Failed to debit compound gas")
		}
	}

	s.notify.Success(fmt.Sprintf("Compounded %.4f QX of yield", event.Amount))
	return event, nil
}

// RequestFaucet credits the faucet grant to the connected wallet
func (s *VaultService) RequestFaucet() (float64, error) {
	amount, err := s.client.RequestFaucet()
	if err != nil {
		s.notify.Error("Connect a wallet first")
		return 0, err
	}

	s.eventManager.Emit(events.FaucetGranted, "vault", map[string]interface{}{
		"amount": amount,
	})
	s.notify.Success(fmt.Sprintf("Faucet granted %.0f QX", amount))
	return amount, nil
}

// SetAutoRebalance toggles the auto-rebalance job
func (s *VaultService) SetAutoRebalance(enabled bool) {
	s.mu.Lock()
	s.autoRebalance = enabled
	s.mu.Unlock()

	if enabled {
		s.notify.Info("Auto-rebalance enabled")
	} else {
		s.notify.Info("Auto-rebalance disabled")
	}
}

// AutoRebalance reports whether the auto-rebalance job is enabled
func (s *VaultService) AutoRebalance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoRebalance
}

// CheckAutoRebalance rebalances when enabled and any asset's absolute 24h
// change exceeds the threshold. Called from the scheduler.
func (s *VaultService) CheckAutoRebalance() error {
	if !s.AutoRebalance() {
		return nil
	}
	if s.oracle.MaxAbsChange24h() <= s.autoThreshold {
		return nil
	}

	s.log.Info().Float64("max_change", s.oracle.MaxAbsChange24h()).Msg("Auto-rebalance triggered")
	_, err := s.Rebalance()
	return err
}

// AutoCompound runs a demo-mode compounding pass with a random APY in
// [12, 18). An interval gate rejection is expected and not an error.
func (s *VaultService) AutoCompound() error {
	s.mu.Lock()
	apy := demoAPYMin + s.rng.Float64()*(demoAPYMax-demoAPYMin)
	s.mu.Unlock()

	_, err := s.compound.Compound(apy)
	if errors.Is(err, domain.ErrIntervalNotElapsed) {
		return nil
	}
	return err
}
