// Package compare diffs an actual fixture against an expected baseline.
//
// # Alignment
//
// Molecules are joined by name with a forward-only merge (Align). A cursor
// walks the expected sequence; each actual molecule pairs with the first
// expected entry at or after the cursor with the same name, and the cursor
// stops on that entry, so a repeated actual name pairs with it again.
// Expected entries passed over are deletions (cases the actual run skipped) and are
// reported, not failed. Insertions (actual names with no expected entry
// ahead of the cursor) and out-of-order names (the only match lies behind
// the cursor) stop the comparison with *AlignmentError. Earlier expected
// entries are never revisited.
//
// # Tolerances
//
// Atoms are compared positionally. An atom fails when its type string
// differs or its charge differs by more than ChargeTolerance. Energies are
// truncated toward zero before comparison, so only whole-unit agreement is
// required.
package compare
