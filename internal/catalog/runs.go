package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run records one crawl of a directory tree.
type Run struct {
	ID           string
	Root         string
	StartedAt    time.Time
	FinishedAt   time.Time
	Finished     bool
	FilesScanned int64
	FilesSkipped int64
	FilesFailed  int64
}

// RunStats carries the final counters recorded when a run finishes.
type RunStats struct {
	Scanned int64
	Skipped int64
	Failed  int64
}

// BeginRun opens a new scan run for the given root and returns it.
func (s *Store) BeginRun(ctx context.Context, root string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		Root:      root,
		StartedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO scan_runs (id, root, started_at) VALUES (?, ?, ?)",
		run.ID, run.Root, timestamp(run.StartedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert scan run: %w", err)
	}
	return run, nil
}

// FinishRun stamps a run's completion time and final counters.
func (s *Store) FinishRun(ctx context.Context, runID string, stats RunStats) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE scan_runs
         SET finished_at = ?, files_scanned = ?, files_skipped = ?, files_failed = ?
         WHERE id = ?`,
		timestamp(time.Now()), stats.Scanned, stats.Skipped, stats.Failed, runID,
	)
	if err != nil {
		return fmt.Errorf("finish scan run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finish scan run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	return nil
}

// Run returns one scan run by id.
func (s *Store) Run(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, root, started_at, finished_at, files_scanned, files_skipped, files_failed
         FROM scan_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", ErrNotFound, runID)
	}
	return run, err
}

// Runs lists scan runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]*Run, error) {
	query := `SELECT id, root, started_at, finished_at, files_scanned, files_skipped, files_failed
              FROM scan_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list scan runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list scan runs: %w", err)
	}
	return runs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var started string
	var finished sql.NullString
	err := row.Scan(&run.ID, &run.Root, &started, &finished,
		&run.FilesScanned, &run.FilesSkipped, &run.FilesFailed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parse run start time: %w", err)
	}
	if finished.Valid {
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished.String); err != nil {
			return nil, fmt.Errorf("parse run finish time: %w", err)
		}
		run.Finished = true
	}
	return &run, nil
}
