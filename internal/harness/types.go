package harness

import (
	"path/filepath"
	"time"

	"github.com/roach88/chemcheck/internal/record"
)

// Status is the outcome of one test executable.
type Status string

const (
	StatusPass  Status = "pass"
	StatusFail  Status = "fail"
	StatusError Status = "error"
)

// Label is the per-test word printed by the runner.
func (s Status) Label() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "FAIL"
	default:
		return "ERROR"
	}
}

// TestCase is a discovered test executable.
type TestCase struct {
	Category   string `json:"category"`
	Name       string `json:"name"`
	Dir        string `json:"dir"`
	Executable string `json:"executable"`
}

// ID returns "category/name".
func (tc TestCase) ID() string {
	return filepath.ToSlash(filepath.Join(tc.Category, tc.Name))
}

// TestResult is the outcome of running one test executable.
type TestResult struct {
	Category string             `json:"category"`
	Name     string             `json:"name"`
	Status   Status             `json:"status"`
	Totals   record.TestSummary `json:"totals"`
	Error    string             `json:"error,omitempty"`
	Duration time.Duration      `json:"duration_ns"`
}

// ID returns "category/name".
func (r TestResult) ID() string {
	return filepath.ToSlash(filepath.Join(r.Category, r.Name))
}

// Summary aggregates the results of a suite run.
// It is threaded through the runner and returned; there is no global state.
type Summary struct {
	Run     int          `json:"run"`
	Passed  int          `json:"passed"`
	Errored int          `json:"errored"`
	Results []TestResult `json:"results"`
}

// NewSummary creates an empty summary.
func NewSummary() *Summary {
	return &Summary{Results: []TestResult{}}
}

// Add records one result. Every result counts as run; only StatusPass counts
// as passed.
func (s *Summary) Add(r TestResult) {
	s.Run++
	switch r.Status {
	case StatusPass:
		s.Passed++
	case StatusError:
		s.Errored++
	}
	s.Results = append(s.Results, r)
}

// Failed returns the number of tests that ran and did not pass, errors included.
func (s *Summary) Failed() int {
	return s.Run - s.Passed
}

// OK reports whether every test that ran passed.
func (s *Summary) OK() bool {
	return s.Run == s.Passed
}
