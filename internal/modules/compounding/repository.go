package compounding

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository persists compounding events. Rows are inserted and read,
// never updated or deleted.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new compounding event repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "compound_events").Logger(),
	}
}

// Create inserts a new compounding event
func (r *Repository) Create(event Event) error {
	query := `
		INSERT INTO compound_events
		(id, timestamp, amount, new_share_value, apy, total_shares)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		event.ID,
		event.Timestamp.Format(time.RFC3339Nano),
		event.Amount,
		event.NewShareValue,
		event.APY,
		event.TotalShares,
	)
	if err != nil {
		return fmt.Errorf("failed to create compound event: %w", err)
	}

	return nil
}

// GetAll returns the full history in chronological order
func (r *Repository) GetAll() ([]Event, error) {
	query := `
		SELECT id, timestamp, amount, new_share_value, apy, total_shares
		FROM compound_events
		ORDER BY timestamp ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query compound events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var (
			event Event
			ts    string
		)
		if err := rows.Scan(&event.ID, &ts, &event.Amount, &event.NewShareValue, &event.APY, &event.TotalShares); err != nil {
			return nil, fmt.Errorf("failed to scan compound event: %w", err)
		}

		event.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}

		events = append(events, event)
	}

	return events, rows.Err()
}

// Count returns the number of recorded compounding events
func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM compound_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count compound events: %w", err)
	}
	return count, nil
}
