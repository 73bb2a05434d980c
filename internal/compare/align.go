package compare

import "github.com/roach88/chemcheck/internal/record"

// Pair is an actual molecule joined with its expected counterpart.
type Pair struct {
	Actual        record.MoleculeRecord
	Expected      record.MoleculeRecord
	ActualIndex   int
	ExpectedIndex int
}

// Alignment is the result of joining two molecule sequences by name.
type Alignment struct {
	Pairs   []Pair
	Skipped []int // Expected indices passed over by the cursor, ascending
}

// Align joins actual to expected with a forward-only cursor.
//
// Policy:
//   - deletion (expected entry absent from actual): skipped, recorded in Skipped
//   - insertion (actual name absent from the rest of expected): *AlignmentError
//   - out of order (actual name only behind the cursor): *AlignmentError with OutOfOrder
//   - repeated names: the cursor rests on the last match, so an actual name
//     repeated back to back pairs with the same expected entry again
//
// Expected entries left after the last actual molecule are not reported as
// skipped; the actual run simply ended earlier.
func Align(actual, expected []record.MoleculeRecord) (*Alignment, error) {
	a := &Alignment{Pairs: make([]Pair, 0, len(actual))}
	cursor := 0
	paired := -1 // expected index the cursor rests on after a match

	for i, mol := range actual {
		match := -1
		for j := cursor; j < len(expected); j++ {
			if expected[j].Name == mol.Name {
				match = j
				break
			}
		}

		if match < 0 {
			return nil, &AlignmentError{
				Name:        mol.Name,
				ActualIndex: i,
				Cursor:      cursor,
				OutOfOrder:  containsName(expected[:cursor], mol.Name),
			}
		}

		for j := cursor; j < match; j++ {
			if j != paired {
				a.Skipped = append(a.Skipped, j)
			}
		}
		a.Pairs = append(a.Pairs, Pair{
			Actual:        mol,
			Expected:      expected[match],
			ActualIndex:   i,
			ExpectedIndex: match,
		})
		cursor = match
		paired = match
	}

	return a, nil
}

func containsName(mols []record.MoleculeRecord, name string) bool {
	for _, m := range mols {
		if m.Name == name {
			return true
		}
	}
	return false
}
