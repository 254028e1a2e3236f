package storage

import "time"

// HighlightTTL is how long a freshly imported task stays visually marked.
const HighlightTTL = 30 * time.Second

// MarkImported records task ids for temporary highlighting after an import.
func (db *DB) MarkImported(taskIDs []string, now time.Time) error {
	expires := now.Add(HighlightTTL)
	for _, id := range taskIDs {
		_, err := db.Exec(`
			INSERT INTO imported_highlights (task_id, expires_at) VALUES (?, ?)
			ON CONFLICT (task_id) DO UPDATE SET expires_at = excluded.expires_at
		`, id, expires)
		if err != nil {
			return err
		}
	}
	return nil
}

// ImportedHighlights returns the still-live highlight set and prunes
// anything expired.
func (db *DB) ImportedHighlights(now time.Time) (map[string]bool, error) {
	if _, err := db.Exec(`DELETE FROM imported_highlights WHERE expires_at <= ?`, now); err != nil {
		return nil, err
	}

	rows, err := db.Query(`SELECT task_id FROM imported_highlights`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	live := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		live[id] = true
	}
	return live, rows.Err()
}
