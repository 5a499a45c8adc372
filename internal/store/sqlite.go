package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/lqsky7/leetfeedback/internal/logging"
	"github.com/lqsky7/leetfeedback/pkg/model"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and returns a Store.
// Use ":memory:" for an in-memory database (useful in tests).
func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	// Pragmas in the DSN apply to every pooled connection, not just the
	// one that happens to run an Exec.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	// Every connection to ":memory:" is a separate database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma wal: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		logger: logging.Component(logger, "store"),
	}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Migrate creates all required tables and indexes.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	s.logger.Debug("sql", "op", "migrate")
	return migrate(ctx, s.db)
}

const problemColumns = `id, name, url, difficulty, solved, solved_date, tries, ignored, grandparent, parent_topic`

// --- Problems ---

// ReplaceProblems swaps the stored sequence for problems, keeping their
// order. Attempts of problems that disappear are deleted with them.
func (s *SQLiteStore) ReplaceProblems(ctx context.Context, problems []model.Problem) error {
	s.logger.Debug("sql", "op", "replace", "table", "problems", "count", len(problems))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	keep := make(map[string]bool, len(problems))
	for _, p := range problems {
		keep[p.ID] = true
	}

	existing, err := queryIDs(ctx, tx)
	if err != nil {
		return err
	}
	for _, id := range existing {
		if keep[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM problems WHERE id = ?`, id); err != nil {
			return fmt.Errorf("delete problem %s: %w", id, err)
		}
	}

	// Park surviving rows on negative positions so the unique index does
	// not trip while positions are rewritten.
	if _, err := tx.ExecContext(ctx, `UPDATE problems SET position = -1 - position`); err != nil {
		return fmt.Errorf("reset positions: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO problems (id, position, name, url, difficulty, solved, solved_date, tries, ignored, grandparent, parent_topic, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			position = excluded.position,
			name = excluded.name,
			url = excluded.url,
			difficulty = excluded.difficulty,
			solved = excluded.solved,
			solved_date = excluded.solved_date,
			tries = excluded.tries,
			ignored = excluded.ignored,
			grandparent = excluded.grandparent,
			parent_topic = excluded.parent_topic,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range problems {
		if _, err := stmt.ExecContext(ctx,
			p.ID, i, p.Name, p.URL, int(p.Difficulty),
			p.Solved.Value, p.Solved.Date, p.Solved.Tries, p.Ignored,
			p.Grandparent, p.ParentTopic, now,
		); err != nil {
			return fmt.Errorf("upsert problem %s: %w", p.ID, err)
		}
	}

	return tx.Commit()
}

func queryIDs(ctx context.Context, tx *sql.Tx) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `SELECT id FROM problems`)
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

// ListProblems returns every problem in stored order.
func (s *SQLiteStore) ListProblems(ctx context.Context) ([]model.Problem, error) {
	s.logger.Debug("sql", "op", "list", "table", "problems")

	rows, err := s.db.QueryContext(ctx, `SELECT `+problemColumns+` FROM problems ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	problems := []model.Problem{}
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		problems = append(problems, *p)
	}
	return problems, rows.Err()
}

// CountProblems returns the number of stored problems.
func (s *SQLiteStore) CountProblems(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problems`).Scan(&n)
	return n, err
}

// GetProblem returns the problem with id, or nil if there is none.
func (s *SQLiteStore) GetProblem(ctx context.Context, id string) (*model.Problem, error) {
	s.logger.Debug("sql", "op", "select", "table", "problems", "id", id)

	p, err := scanProblem(s.db.QueryRowContext(ctx, `SELECT `+problemColumns+` FROM problems WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// SetIgnored persists the ignored flag of one problem.
func (s *SQLiteStore) SetIgnored(ctx context.Context, id string, ignored bool) error {
	s.logger.Debug("sql", "op", "update", "table", "problems", "id", id, "ignored", ignored)

	result, err := s.db.ExecContext(ctx,
		`UPDATE problems SET ignored = ?, updated_at = ? WHERE id = ?`,
		ignored, time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return model.NewNotFoundError("Problem", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProblem(row scanner) (*model.Problem, error) {
	var p model.Problem
	var difficulty int
	if err := row.Scan(&p.ID, &p.Name, &p.URL, &difficulty,
		&p.Solved.Value, &p.Solved.Date, &p.Solved.Tries, &p.Ignored,
		&p.Grandparent, &p.ParentTopic); err != nil {
		return nil, err
	}
	p.Difficulty = model.Difficulty(difficulty)
	return &p, nil
}

// --- Attempts ---

// RecordAttempt stores a and folds it into the problem: tries goes up by
// one, and an accepted attempt marks the problem solved at AttemptedAt.
// It returns the updated problem.
func (s *SQLiteStore) RecordAttempt(ctx context.Context, a *model.Attempt) (*model.Problem, error) {
	s.logger.Debug("sql", "op", "insert", "table", "attempts", "id", a.ID, "problem_id", a.ProblemID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	var result sql.Result
	if a.Accepted {
		result, err = tx.ExecContext(ctx,
			`UPDATE problems SET tries = tries + 1, solved = 1, solved_date = ?, updated_at = ? WHERE id = ?`,
			a.AttemptedAt, now, a.ProblemID)
	} else {
		result, err = tx.ExecContext(ctx,
			`UPDATE problems SET tries = tries + 1, updated_at = ? WHERE id = ?`,
			now, a.ProblemID)
	}
	if err != nil {
		return nil, fmt.Errorf("update problem: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, model.NewNotFoundError("Problem", a.ProblemID)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (id, problem_id, accepted, attempted_at) VALUES (?, ?, ?, ?)`,
		a.ID, a.ProblemID, a.Accepted, a.AttemptedAt,
	); err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	p, err := scanProblem(tx.QueryRowContext(ctx, `SELECT `+problemColumns+` FROM problems WHERE id = ?`, a.ProblemID))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return p, nil
}

// ListAttempts returns the attempts on a problem, oldest first.
func (s *SQLiteStore) ListAttempts(ctx context.Context, problemID string) ([]*model.Attempt, error) {
	s.logger.Debug("sql", "op", "list", "table", "attempts", "problem_id", problemID)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, problem_id, accepted, attempted_at FROM attempts WHERE problem_id = ? ORDER BY attempted_at, rowid`,
		problemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []*model.Attempt{}
	for rows.Next() {
		var a model.Attempt
		if err := rows.Scan(&a.ID, &a.ProblemID, &a.Accepted, &a.AttemptedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}
