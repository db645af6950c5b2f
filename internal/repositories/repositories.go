package repositories

import (
	"database/sql"
	"fmt"
)

// sequenceTables are the counters created by migrations.
var sequenceTables = map[string]string{
	"insert_jobs": "insert_jobs_sequence",
}

// NextSequence bumps the counter for table and returns the new value.
//
// Sequence numbers give jobs a short display number (#42) independent of their UUIDs.
func NextSequence(db *sql.DB, table string) (int, error) {
	counter, ok := sequenceTables[table]
	if !ok {
		return 0, fmt.Errorf("no sequence for table %q", table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s SET value = value + 1 WHERE id = 1 RETURNING value", counter)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}
	return sequence, nil
}
