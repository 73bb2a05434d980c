package store

import (
	"time"

	"github.com/roach88/chemcheck/internal/harness"
)

// RunKind distinguishes suite runs from fixture comparisons.
type RunKind string

const (
	KindSuite   RunKind = "suite"
	KindCompare RunKind = "compare"
)

// Run is one recorded invocation.
type Run struct {
	ID         string    `json:"id"`
	Seq        int64     `json:"seq"`
	Kind       RunKind   `json:"kind"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	OK         bool      `json:"ok"`
}

// Comparison is the persisted outcome of comparing two fixtures.
type Comparison struct {
	ActualPath      string `json:"actual_path"`
	ExpectedPath    string `json:"expected_path"`
	ActualDigest    string `json:"actual_digest"`
	ExpectedDigest  string `json:"expected_digest"`
	Molecules       int    `json:"molecules"`
	Skipped         int    `json:"skipped"`
	AtomsFailed     int    `json:"atoms_failed"`
	MoleculesFailed int    `json:"molecules_failed"`
}

// OK reports whether the comparison found no failures.
func (c Comparison) OK() bool {
	return c.AtomsFailed == 0 && c.MoleculesFailed == 0
}

// TestOutcome is a stored harness result, in run order.
type TestOutcome struct {
	Seq int `json:"seq"`
	harness.TestResult
}

const timeLayout = time.RFC3339Nano
