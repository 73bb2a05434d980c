// Package record defines the molecule records shared by the log parser,
// the fixture writer and the comparator.
//
// This package contains type definitions only. All other internal packages
// import record; record imports nothing internal.
//
// Key design constraints:
//   - Atom order is the declaration order from the source log and is the
//     basis for positional comparison
//   - Records are immutable once built; consumers copy before modifying
//   - Molecule names are the join key during comparison but are not unique
package record
