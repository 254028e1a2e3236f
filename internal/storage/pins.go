package storage

import "time"

// PinComment marks a comment as pinned within its task.
func (db *DB) PinComment(taskID, commentID string) error {
	_, err := db.Exec(`
		INSERT OR IGNORE INTO pinned_comments (task_id, comment_id, pinned_at) VALUES (?, ?, ?)
	`, taskID, commentID, time.Now())
	return err
}

// UnpinComment removes a pin.
func (db *DB) UnpinComment(taskID, commentID string) error {
	_, err := db.Exec(`
		DELETE FROM pinned_comments WHERE task_id = ? AND comment_id = ?
	`, taskID, commentID)
	return err
}

// PinnedComments returns the pinned comment ids for a task in pin order.
func (db *DB) PinnedComments(taskID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT comment_id FROM pinned_comments WHERE task_id = ? ORDER BY pinned_at
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
