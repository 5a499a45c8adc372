package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for all tables.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS problems (
		id           TEXT PRIMARY KEY,
		position     INTEGER NOT NULL,
		name         TEXT NOT NULL DEFAULT '',
		url          TEXT NOT NULL DEFAULT '',
		difficulty   INTEGER NOT NULL DEFAULT 0,
		solved       INTEGER NOT NULL DEFAULT 0,
		solved_date  INTEGER NOT NULL DEFAULT 0,
		tries        INTEGER NOT NULL DEFAULT 0,
		ignored      INTEGER NOT NULL DEFAULT 0,
		grandparent  TEXT NOT NULL DEFAULT '',
		parent_topic TEXT NOT NULL DEFAULT '',
		updated_at   TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_problems_position ON problems(position)`,
	`CREATE INDEX IF NOT EXISTS idx_problems_grandparent ON problems(grandparent)`,
	`CREATE INDEX IF NOT EXISTS idx_problems_parent_topic ON problems(parent_topic)`,

	`CREATE TABLE IF NOT EXISTS attempts (
		id           TEXT PRIMARY KEY,
		problem_id   TEXT NOT NULL REFERENCES problems(id) ON DELETE CASCADE,
		accepted     INTEGER NOT NULL DEFAULT 0,
		attempted_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_problem_id ON attempts(problem_id, attempted_at)`,
}

// migrate executes all schema DDL statements.
func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
