package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/chemcheck/internal/harness"
)

// RecordSuite stores a harness summary as one run with its per-test results.
// The run and its results are written in a single transaction.
func (s *Store) RecordSuite(ctx context.Context, startedAt time.Time, summary *harness.Summary) (Run, error) {
	if summary == nil {
		return Run{}, fmt.Errorf("record suite: nil summary")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record suite: %w", err)
	}
	defer tx.Rollback()

	run, err := s.insertRun(ctx, tx, KindSuite, startedAt, summary.OK())
	if err != nil {
		return Run{}, fmt.Errorf("record suite: %w", err)
	}

	for i, r := range summary.Results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO test_results
			(run_id, seq, category, name, status, passed, failed, skipped, error, duration_ns)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i+1,
			r.Category,
			r.Name,
			string(r.Status),
			r.Totals.Passed,
			r.Totals.Failed,
			r.Totals.Skipped,
			r.Error,
			int64(r.Duration),
		)
		if err != nil {
			return Run{}, fmt.Errorf("record suite: test %s: %w", r.ID(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record suite: commit: %w", err)
	}
	return run, nil
}

// RecordComparison stores a fixture comparison as one run.
func (s *Store) RecordComparison(ctx context.Context, startedAt time.Time, c Comparison) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record comparison: %w", err)
	}
	defer tx.Rollback()

	run, err := s.insertRun(ctx, tx, KindCompare, startedAt, c.OK())
	if err != nil {
		return Run{}, fmt.Errorf("record comparison: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comparisons
		(run_id, actual_path, expected_path, actual_digest, expected_digest, molecules, skipped, atoms_failed, molecules_failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		c.ActualPath,
		c.ExpectedPath,
		c.ActualDigest,
		c.ExpectedDigest,
		c.Molecules,
		c.Skipped,
		c.AtomsFailed,
		c.MoleculesFailed,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record comparison: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record comparison: commit: %w", err)
	}
	return run, nil
}

// insertRun assigns the next logical seq and inserts the run row.
func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, kind RunKind, startedAt time.Time, ok bool) (Run, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("next seq: %w", err)
	}

	run := Run{
		ID:         s.ids.Generate(),
		Seq:        seq,
		Kind:       kind,
		StartedAt:  startedAt.UTC(),
		FinishedAt: s.now().UTC(),
		OK:         ok,
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, kind, started_at, finished_at, ok)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		string(run.Kind),
		run.StartedAt.Format(timeLayout),
		run.FinishedAt.Format(timeLayout),
		boolToInt(run.OK),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
