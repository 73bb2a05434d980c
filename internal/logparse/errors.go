package logparse

import (
	"errors"
	"fmt"
)

// MalformedLogError reports a log line whose structure violates the
// expected shape.
type MalformedLogError struct {
	Line   int    // 1-based line number
	Text   string // Trimmed line content
	Reason string
	Err    error // Underlying parse error, if any
}

func (e *MalformedLogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed log at line %d: %s: %v (%q)", e.Line, e.Reason, e.Err, e.Text)
	}
	return fmt.Sprintf("malformed log at line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

func (e *MalformedLogError) Unwrap() error {
	return e.Err
}

// IsMalformed returns true if err is or wraps a *MalformedLogError.
func IsMalformed(err error) bool {
	var me *MalformedLogError
	return errors.As(err, &me)
}
