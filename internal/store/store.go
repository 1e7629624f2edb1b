// Package store persists per-trial conformance outcomes to SQLite.
//
// The log is observational: the harness writes through it when a
// database path is configured, and summaries can be read back after a
// run, but nothing here influences pass/fail.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/armlab/kinconform/internal/harness"
)

//go:embed schema.sql
var schemaSQL string

// Store is a SQLite-backed trial log. It implements harness.Recorder.
type Store struct {
	db *sql.DB
}

// Open creates or opens a trial log database at the given path.
// Use ":memory:" for an ephemeral log.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// BeginRun records the start of a conformance run.
func (s *Store) BeginRun(ctx context.Context, runID, solver, group string, started time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, solver, group_name, started_at) VALUES (?, ?, ?, ?)`,
		runID, solver, group, started.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecordTrial appends one trial outcome to the log.
func (s *Store) RecordTrial(ctx context.Context, runID string, category harness.Category, trial int, success, skipped bool, detail string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO trials (run_id, category, trial, success, skipped, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, string(category), trial, boolInt(success), boolInt(skipped), detail)
	if err != nil {
		return fmt.Errorf("failed to insert trial: %w", err)
	}
	return nil
}

// FinishRun records the end and overall outcome of a run.
func (s *Store) FinishRun(ctx context.Context, runID string, passed bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, passed = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), boolInt(passed), runID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("run %q not found", runID)
	}
	return nil
}

// CategorySummary aggregates a run's trials for one category.
type CategorySummary struct {
	Category  harness.Category
	Trials    int
	Successes int
	Skipped   int
}

// Summarize reads back per-category counts for a run, ordered by
// category name.
func (s *Store) Summarize(ctx context.Context, runID string) ([]CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category,
		       COUNT(*),
		       COALESCE(SUM(success), 0),
		       COALESCE(SUM(skipped), 0)
		FROM trials
		WHERE run_id = ?
		GROUP BY category
		ORDER BY category`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trials: %w", err)
	}
	defer rows.Close()

	var out []CategorySummary
	for rows.Next() {
		var cs CategorySummary
		var category string
		if err := rows.Scan(&category, &cs.Trials, &cs.Successes, &cs.Skipped); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		cs.Category = harness.Category(category)
		out = append(out, cs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summary rows: %w", err)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
