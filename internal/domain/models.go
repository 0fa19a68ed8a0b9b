// Package domain provides core domain models and types.
package domain

import "time"

// AssetCategory classifies the real-world assets the vault tracks
type AssetCategory string

const (
	CategoryRealEstate AssetCategory = "real-estate"
	CategoryCommodity  AssetCategory = "commodity"
	CategoryForex      AssetCategory = "forex"
)

// TxType represents the kind of simulated contract transaction
type TxType string

const (
	TxDeposit   TxType = "deposit"
	TxWithdraw  TxType = "withdraw"
	TxRebalance TxType = "rebalance"
	TxCompound  TxType = "compound"
)

// TxStatus represents the lifecycle state of a simulated transaction
type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// Transaction is a fabricated on-chain transaction record
type Transaction struct {
	ID          string    `json:"id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	Amount      float64   `json:"amount"`
	Type        TxType    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Status      TxStatus  `json:"status"`
	GasUsed     float64   `json:"gas_used,omitempty"`
	BlockNumber int64     `json:"block_number,omitempty"`
}

// Wallet is the simulated testnet wallet identity
type Wallet struct {
	Address   string  `json:"address"`
	Balance   float64 `json:"balance"`
	Network   string  `json:"network"`
	Connected bool    `json:"connected"`
}

// NotificationKind classifies user-facing notifications
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
	NotifyInfo    NotificationKind = "info"
)

// Notification is the single most-recent user-facing message
type Notification struct {
	Message string           `json:"message"`
	Kind    NotificationKind `json:"kind"`
}

// OracleUpdate is one price observation emitted by the feed generator
type OracleUpdate struct {
	AssetID    string    `json:"asset_id"`
	Price      float64   `json:"price"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
}
