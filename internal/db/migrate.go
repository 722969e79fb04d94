package db

import (
	"database/sql"
	"fmt"
)

// migrations are idempotent DDL statements run on every open.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS deployment_runs (
		id          TEXT PRIMARY KEY,
		started_at  TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS deployment_records (
		local_id     TEXT PRIMARY KEY,
		kind         TEXT NOT NULL,
		remote_id    TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL CHECK (status IN ('pending', 'in_flight', 'succeeded', 'failed', 'skipped')),
		reason       TEXT NOT NULL DEFAULT '',
		run_id       TEXT NOT NULL REFERENCES deployment_runs(id),
		attempted_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_deployment_records_run ON deployment_records(run_id)`,
}

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
