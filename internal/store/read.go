package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/chemcheck/internal/harness"
)

// ErrRunNotFound is returned when a run ID has no row.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns the most recent runs, newest first.
// A limit of zero or less returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `
		SELECT id, seq, kind, started_at, finished_at, ok
		FROM runs
		ORDER BY seq DESC, id COLLATE BINARY ASC
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns a single run by ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, kind, started_at, finished_at, ok
		FROM runs
		WHERE id = ?
	`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// ReadTestResults returns the per-test outcomes of a suite run in run order.
// Returns an empty slice (not nil) when the run has no results.
func (s *Store) ReadTestResults(ctx context.Context, runID string) ([]TestOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, category, name, status, passed, failed, skipped, error, duration_ns
		FROM test_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query test results: %w", err)
	}
	defer rows.Close()

	outcomes := []TestOutcome{}
	for rows.Next() {
		var (
			o        TestOutcome
			status   string
			duration int64
		)
		err := rows.Scan(
			&o.Seq,
			&o.Category,
			&o.Name,
			&status,
			&o.Totals.Passed,
			&o.Totals.Failed,
			&o.Totals.Skipped,
			&o.Error,
			&duration,
		)
		if err != nil {
			return nil, fmt.Errorf("scan test result: %w", err)
		}
		o.Status = harness.Status(status)
		o.Duration = time.Duration(duration)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate test results: %w", err)
	}
	return outcomes, nil
}

// ReadComparison returns the comparison recorded for a run.
func (s *Store) ReadComparison(ctx context.Context, runID string) (Comparison, error) {
	var c Comparison
	err := s.db.QueryRowContext(ctx, `
		SELECT actual_path, expected_path, actual_digest, expected_digest,
		       molecules, skipped, atoms_failed, molecules_failed
		FROM comparisons
		WHERE run_id = ?
	`, runID).Scan(
		&c.ActualPath,
		&c.ExpectedPath,
		&c.ActualDigest,
		&c.ExpectedDigest,
		&c.Molecules,
		&c.Skipped,
		&c.AtomsFailed,
		&c.MoleculesFailed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Comparison{}, fmt.Errorf("%w: no comparison for %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return Comparison{}, fmt.Errorf("read comparison: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run               Run
		kind              string
		started, finished string
		ok                int
	)
	if err := row.Scan(&run.ID, &run.Seq, &kind, &started, &finished, &ok); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	var err error
	if run.StartedAt, err = time.Parse(timeLayout, started); err != nil {
		return Run{}, fmt.Errorf("parse started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finished); err != nil {
		return Run{}, fmt.Errorf("parse finished_at: %w", err)
	}
	run.Kind = RunKind(kind)
	run.OK = ok == 1
	return run, nil
}
