package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trackr-ai/trackr/internal/models"
)

// scanLogRows converts a (id, timestamp, payload) result set into log
// entries, preserving row order.
func scanLogRows(rows *sql.Rows) ([]models.LogEntry, error) {
	entries := []models.LogEntry{}
	for rows.Next() {
		var (
			entry   models.LogEntry
			ts      time.Time
			payload sql.NullString
		)
		if err := rows.Scan(&entry.ID, &ts, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan log row: %w", err)
		}
		entry.Timestamp = ts
		if payload.Valid && payload.String != "" {
			entry.Payload = json.RawMessage(payload.String)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate log rows: %w", err)
	}
	return entries, nil
}
