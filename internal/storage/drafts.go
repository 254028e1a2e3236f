package storage

import (
	"database/sql"
	"errors"
	"time"
)

// SaveDraft stores unsent comment text for a task/user pair. An empty body
// clears the draft instead of storing an empty row.
func (db *DB) SaveDraft(taskID, userID, body string) error {
	if body == "" {
		return db.DeleteDraft(taskID, userID)
	}

	_, err := db.Exec(`
		INSERT INTO drafts (task_id, user_id, body, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (task_id, user_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, taskID, userID, body, time.Now())
	return err
}

// LoadDraft returns the saved draft for a task/user pair, or "" if none.
func (db *DB) LoadDraft(taskID, userID string) (string, error) {
	var body string
	err := db.QueryRow(`
		SELECT body FROM drafts WHERE task_id = ? AND user_id = ?
	`, taskID, userID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return body, err
}

// DeleteDraft removes a draft, typically after a successful send.
func (db *DB) DeleteDraft(taskID, userID string) error {
	_, err := db.Exec(`DELETE FROM drafts WHERE task_id = ? AND user_id = ?`, taskID, userID)
	return err
}
