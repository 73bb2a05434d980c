package compare

import (
	"errors"
	"fmt"
)

// AlignmentError reports an actual molecule with no expected counterpart at
// or after the alignment cursor.
type AlignmentError struct {
	Name        string // Molecule name being aligned
	ActualIndex int    // 0-based position in the actual sequence
	Cursor      int    // Expected index the search started from
	OutOfOrder  bool   // The name exists in expected, but only behind the cursor
}

func (e *AlignmentError) Error() string {
	if e.OutOfOrder {
		return fmt.Sprintf("no matching expected molecule for name %q (actual #%d): it only appears before expected #%d; out-of-order molecules are not supported",
			e.Name, e.ActualIndex+1, e.Cursor+1)
	}
	return fmt.Sprintf("no matching expected molecule for name %q (actual #%d, searched from expected #%d)",
		e.Name, e.ActualIndex+1, e.Cursor+1)
}

// IsAlignmentError returns true if err is or wraps an *AlignmentError.
func IsAlignmentError(err error) bool {
	var ae *AlignmentError
	return errors.As(err, &ae)
}
