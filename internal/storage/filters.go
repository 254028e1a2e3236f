package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/taskwire/taskwire/internal/domain"
)

// SaveFilter persists the whole filter object so the next session starts
// where this one left off.
func (db *DB) SaveFilter(f *domain.Filter) error {
	payload, err := json.Marshal(f)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO filters (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), time.Now())
	return err
}

// LoadFilter restores the persisted filter. A fresh database yields the
// default filter, not an error.
func (db *DB) LoadFilter() (*domain.Filter, error) {
	var payload string
	err := db.QueryRow(`SELECT payload FROM filters WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NewFilter(), nil
	}
	if err != nil {
		return nil, err
	}

	f := domain.NewFilter()
	if err := json.Unmarshal([]byte(payload), f); err != nil {
		// A corrupt row should not brick startup.
		return domain.NewFilter(), nil
	}
	return f, nil
}
