package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection for the append-only event history
// (rebalance events, compound events, simulated transactions).
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection.
// Accepts either a file path or a file: URI; the default configuration uses
// an in-memory URI so nothing survives a restart.
func New(dbPath string) (*DB, error) {
	dsn := dbPath
	if !strings.HasPrefix(dbPath, "file:") {
		// Ensure directory exists for on-disk databases
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		// Use WAL mode for better concurrency
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Shared-cache in-memory databases need a single connection to see the
	// same data; on-disk databases get a small pool.
	if strings.Contains(dsn, "mode=memory") {
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(25)
		conn.SetMaxIdleConns(5)
	}

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the history tables
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(historySchema); err != nil {
		return fmt.Errorf("failed to apply history schema: %w", err)
	}
	return nil
}

// historySchema holds the history tables. Event rows are inserted and
// read, never updated or deleted; transactions additionally take a status
// update when the simulated confirmation lands.
const historySchema = `
CREATE TABLE IF NOT EXISTS rebalance_events (
    id TEXT PRIMARY KEY,
    timestamp TEXT NOT NULL,
    previous_allocations TEXT NOT NULL,
    new_allocations TEXT NOT NULL,
    reason TEXT NOT NULL,
    gas_used REAL NOT NULL,
    yield_delta REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_rebalance_events_timestamp ON rebalance_events(timestamp);

CREATE TABLE IF NOT EXISTS compound_events (
    id TEXT PRIMARY KEY,
    timestamp TEXT NOT NULL,
    amount REAL NOT NULL,
    new_share_value REAL NOT NULL,
    apy REAL NOT NULL,
    total_shares REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_compound_events_timestamp ON compound_events(timestamp);

CREATE TABLE IF NOT EXISTS transactions (
    id TEXT PRIMARY KEY,
    from_address TEXT NOT NULL,
    to_address TEXT NOT NULL,
    amount REAL NOT NULL,
    type TEXT NOT NULL,
    timestamp TEXT NOT NULL,
    status TEXT NOT NULL,
    gas_used REAL,
    block_number INTEGER
);

CREATE INDEX IF NOT EXISTS idx_transactions_timestamp ON transactions(timestamp);
CREATE INDEX IF NOT EXISTS idx_transactions_from ON transactions(from_address);
`
