package rebalancing

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Repository persists rebalance events. Rows are inserted and read, never
// updated or deleted.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new rebalance event repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "rebalance_events").Logger(),
	}
}

// Create inserts a new rebalance event
func (r *Repository) Create(event Event) error {
	prev, err := json.Marshal(event.PreviousAllocations)
	if err != nil {
		return fmt.Errorf("failed to marshal previous allocations: %w", err)
	}
	next, err := json.Marshal(event.NewAllocations)
	if err != nil {
		return fmt.Errorf("failed to marshal new allocations: %w", err)
	}

	query := `
		INSERT INTO rebalance_events
		(id, timestamp, previous_allocations, new_allocations, reason, gas_used, yield_delta)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		event.ID,
		event.Timestamp.Format(time.RFC3339Nano),
		string(prev),
		string(next),
		event.Reason,
		event.GasUsed,
		event.YieldGenerated,
	)
	if err != nil {
		return fmt.Errorf("failed to create rebalance event: %w", err)
	}

	return nil
}

// GetAll returns the full history in chronological order
func (r *Repository) GetAll() ([]Event, error) {
	query := `
		SELECT id, timestamp, previous_allocations, new_allocations, reason, gas_used, yield_delta
		FROM rebalance_events
		ORDER BY timestamp ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rebalance events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		var (
			event      Event
			ts         string
			prev, next string
		)
		if err := rows.Scan(&event.ID, &ts, &prev, &next, &event.Reason, &event.GasUsed, &event.YieldGenerated); err != nil {
			return nil, fmt.Errorf("failed to scan rebalance event: %w", err)
		}

		event.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse event timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(prev), &event.PreviousAllocations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal previous allocations: %w", err)
		}
		if err := json.Unmarshal([]byte(next), &event.NewAllocations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal new allocations: %w", err)
		}

		events = append(events, event)
	}

	return events, rows.Err()
}

// Count returns the number of recorded rebalance events
func (r *Repository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM rebalance_events`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rebalance events: %w", err)
	}
	return count, nil
}
