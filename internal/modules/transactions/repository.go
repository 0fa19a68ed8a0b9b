// Package transactions persists the fabricated on-chain transaction
// history.
package transactions

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/yieldforge/internal/domain"
)

// Repository stores transactions in the transactions table. It satisfies
// the testnet client's TransactionStore interface.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new transaction repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "transactions").Logger(),
	}
}

// Save inserts a new transaction
func (r *Repository) Save(tx domain.Transaction) error {
	query := `
		INSERT INTO transactions
		(id, from_address, to_address, amount, type, timestamp, status, gas_used, block_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		tx.ID,
		tx.From,
		tx.To,
		tx.Amount,
		string(tx.Type),
		tx.Timestamp.Format(time.RFC3339Nano),
		string(tx.Status),
		tx.GasUsed,
		tx.BlockNumber,
	)
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	return nil
}

// UpdateStatus moves a transaction to a new lifecycle state
func (r *Repository) UpdateStatus(id string, status domain.TxStatus, blockNumber int64) error {
	result, err := r.db.Exec(
		`UPDATE transactions SET status = ?, block_number = ? WHERE id = ?`,
		string(status), blockNumber, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return fmt.Errorf("transaction %s not found", id)
	}

	return nil
}

// GetAll returns the full transaction history, oldest first
func (r *Repository) GetAll() ([]domain.Transaction, error) {
	query := `
		SELECT id, from_address, to_address, amount, type, timestamp, status, gas_used, block_number
		FROM transactions
		ORDER BY timestamp ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := make([]domain.Transaction, 0)
	for rows.Next() {
		var (
			tx             domain.Transaction
			txType, status string
			ts             string
		)
		if err := rows.Scan(&tx.ID, &tx.From, &tx.To, &tx.Amount, &txType, &ts, &status, &tx.GasUsed, &tx.BlockNumber); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		tx.Type = domain.TxType(txType)
		tx.Status = domain.TxStatus(status)
		tx.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction timestamp: %w", err)
		}

		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

// CountByType returns how many transactions exist per type
func (r *Repository) CountByType() (map[domain.TxType]int, error) {
	rows, err := r.db.Query(`SELECT type, COUNT(*) FROM transactions GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.TxType]int)
	for rows.Next() {
		var (
			txType string
			count  int
		)
		if err := rows.Scan(&txType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan transaction count: %w", err)
		}
		counts[domain.TxType(txType)] = count
	}

	return counts, rows.Err()
}
