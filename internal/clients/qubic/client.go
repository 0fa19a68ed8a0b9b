// Package qubic provides a simulated Qubic testnet client. Wallets,
// balances, transactions, and confirmations are fabricated in-process;
// there is no network, signing, or real chain behind it.
package qubic

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
)

const (
	network         = "testnet"
	contractAddress = "YIELDFORGE_CONTRACT_ADDRESS"
	faucetAddress   = "QUBIC_TESTNET_FAUCET"

	// addressLen matches the 60-character uppercase Qubic identity format
	addressLen = 60

	// confirmDelay is the simulated time between broadcast and confirmation
	confirmDelay = 2 * time.Second
)

// gasFees holds the flat per-operation gas cost in QX
var gasFees = map[domain.TxType]float64{
	domain.TxDeposit:   0.1,
	domain.TxWithdraw:  0.15,
	domain.TxRebalance: 0.05,
	domain.TxCompound:  0.03,
}

// TransactionStore persists fabricated transactions
type TransactionStore interface {
	Save(tx domain.Transaction) error
	UpdateStatus(id string, status domain.TxStatus, blockNumber int64) error
}

// Client simulates a Qubic testnet connection
type Client struct {
	mu           sync.Mutex
	wallet       *domain.Wallet
	transactions []domain.Transaction
	store        TransactionStore

	startingBalance float64
	faucetAmount    float64

	rng *rand.Rand
	now func() time.Time
	log zerolog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithRand injects a seeded random source for deterministic tests
func WithRand(rng *rand.Rand) Option {
	return func(c *Client) { c.rng = rng }
}

// WithClock injects a clock for deterministic tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithStore attaches a persistent transaction store
func WithStore(store TransactionStore) Option {
	return func(c *Client) { c.store = store }
}

// NewClient creates a new simulated testnet client
func NewClient(startingBalance, faucetAmount float64, log zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		startingBalance: startingBalance,
		faucetAmount:    faucetAmount,
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
		now:             time.Now,
		log:             log.With().Str("client", "qubic").Logger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ConnectWallet creates a fresh testnet identity with the starting balance
func (c *Client) ConnectWallet() (domain.Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	wallet := domain.Wallet{
		Address:   c.generateAddress(),
		Balance:   c.startingBalance,
		Network:   network,
		Connected: true,
	}
	c.wallet = &wallet

	c.log.Info().Str("address", wallet.Address).Msg("Wallet connected")
	return wallet, nil
}

// DisconnectWallet drops the current identity
func (c *Client) DisconnectWallet() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wallet != nil {
		c.log.Info().Str("address", c.wallet.Address).Msg("Wallet disconnected")
	}
	c.wallet = nil
}

// Wallet returns the current wallet, or nil when disconnected
func (c *Client) Wallet() *domain.Wallet {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wallet == nil {
		return nil
	}
	w := *c.wallet
	return &w
}

// Connected reports whether a wallet is attached
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wallet != nil
}

// AdjustBalance applies a delta to the wallet balance.
// Returns ErrWalletNotConnected when no wallet is attached.
func (c *Client) AdjustBalance(delta float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wallet == nil {
		return domain.ErrWalletNotConnected
	}
	c.wallet.Balance += delta
	return nil
}

// RequestFaucet credits the faucet grant and records the transfer
func (c *Client) RequestFaucet() (float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wallet == nil {
		return 0, domain.ErrWalletNotConnected
	}

	c.wallet.Balance += c.faucetAmount

	tx := domain.Transaction{
		ID:          c.generateTxID(),
		From:        faucetAddress,
		To:          c.wallet.Address,
		Amount:      c.faucetAmount,
		Type:        domain.TxDeposit,
		Timestamp:   c.now(),
		Status:      domain.TxConfirmed,
		BlockNumber: c.randomBlockNumber(),
	}
	c.record(tx)

	c.log.Info().Float64("amount", c.faucetAmount).Msg("Faucet granted")
	return c.faucetAmount, nil
}

// ExecuteTransaction fabricates a contract transaction. It is created in
// pending state and confirmed after a simulated network delay.
func (c *Client) ExecuteTransaction(txType domain.TxType, amount float64) (domain.Transaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.wallet == nil {
		return domain.Transaction{}, domain.ErrWalletNotConnected
	}

	tx := domain.Transaction{
		ID:        c.generateTxID(),
		From:      c.wallet.Address,
		To:        contractAddress,
		Amount:    amount,
		Type:      txType,
		Timestamp: c.now(),
		Status:    domain.TxPending,
		GasUsed:   GasFee(txType),
	}
	c.record(tx)

	// Confirm after the simulated delay. The transaction is not
	// cancellable once issued.
	go c.confirmLater(tx.ID)

	c.log.Debug().
		Str("tx_id", tx.ID).
		Str("type", string(txType)).
		Float64("amount", amount).
		Msg("Transaction broadcast")

	return tx, nil
}

// Transactions returns the transaction history, newest last
func (c *Client) Transactions() []domain.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Transaction, len(c.transactions))
	copy(out, c.transactions)
	return out
}

// GasFee returns the flat gas cost for an operation in QX
func GasFee(txType domain.TxType) float64 {
	if fee, ok := gasFees[txType]; ok {
		return fee
	}
	return 0.1
}

func (c *Client) confirmLater(txID string) {
	time.Sleep(confirmDelay)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.transactions {
		if c.transactions[i].ID != txID {
			continue
		}
		c.transactions[i].Status = domain.TxConfirmed
		c.transactions[i].BlockNumber = c.randomBlockNumber()

		if c.store != nil {
			if err := c.store.UpdateStatus(txID, domain.TxConfirmed, c.transactions[i].BlockNumber); err != nil {
				c.log.Error().Err(err).Str("tx_id", txID).Msg("Failed to persist confirmation")
			}
		}
		return
	}
}

func (c *Client) record(tx domain.Transaction) {
	c.transactions = append(c.transactions, tx)

	if c.store != nil {
		if err := c.store.Save(tx); err != nil {
			c.log.Error().Err(err).Str("tx_id", tx.ID).Msg("Failed to persist transaction")
		}
	}
}

// generateAddress fabricates a 60-letter uppercase identity
func (c *Client) generateAddress() string {
	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	b := make([]byte, addressLen)
	for i := range b {
		b[i] = chars[c.rng.Intn(len(chars))]
	}
	return string(b)
}

func (c *Client) generateTxID() string {
	return "TX_" + uuid.New().String()
}

func (c *Client) randomBlockNumber() int64 {
	return int64(c.rng.Intn(1000000)) + 1000000
}
