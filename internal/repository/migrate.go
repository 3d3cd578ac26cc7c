package repository

import (
	"context"
	"fmt"
)

// Timestamps are stored as RFC 3339 text and IDs as UUID text so the same
// schema runs on SQLite and Postgres.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		status      TEXT NOT NULL,
		input_dir   TEXT NOT NULL,
		output_path TEXT NOT NULL,
		total       INTEGER NOT NULL DEFAULT 0,
		succeeded   INTEGER NOT NULL DEFAULT 0,
		failed      INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS documents (
		id                 TEXT PRIMARY KEY,
		run_id             TEXT NOT NULL REFERENCES runs(id),
		name               TEXT NOT NULL,
		path               TEXT NOT NULL,
		status             TEXT NOT NULL,
		score              INTEGER NOT NULL DEFAULT 0,
		primary_strategy   TEXT NOT NULL DEFAULT '',
		secondary_strategy TEXT NOT NULL DEFAULT '',
		error_message      TEXT,
		duration_ms        BIGINT NOT NULL DEFAULT 0,
		processed_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS documents_run_id ON documents (run_id)`,
	`CREATE INDEX IF NOT EXISTS documents_name_status ON documents (name, status)`,
}

// Migrate creates the ledger tables when missing.
func Migrate(ctx context.Context, db *DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
