package record

import "fmt"

// MissingFileError reports a required input file that does not exist.
// Shared by the log parser and the fixture reader so callers can map it to
// a single operator-facing message.
type MissingFileError struct {
	Kind string // "log", "actual fixture", "expected fixture", ...
	Path string
}

func (e *MissingFileError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("could not find %s file (%s)", e.Kind, e.Path)
	}
	return fmt.Sprintf("could not find file (%s)", e.Path)
}
