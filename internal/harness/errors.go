package harness

import (
	"errors"
	"fmt"
)

// InvocationError reports a test executable the harness could not run to a
// usable result. It is distinct from a test that ran and reported failures.
type InvocationError struct {
	Test string // "category/name"
	Op   string // "start", "timeout", "parse output"
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Test, e.Op, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// ErrNoTotals is returned by ParseTotals when the output has no summary line.
var ErrNoTotals = errors.New("output does not end with a Totals line")
