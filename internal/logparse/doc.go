// Package logparse turns an MMFF94 validation-suite optimisation log into
// ordered molecule records.
//
// # Log Shape
//
// The log is line-oriented. Only these trimmed-line prefixes are recognized:
//
//	Structure Name: <name>          starts a molecule
//	New Structure Name: <name>      starts a molecule
//	ATOM NAME  TYPE ...             opens the atom symbol section
//	ATOM    CHARGE ...              opens the atom charge section
//	OPTIMOL-LIST ...                closes the open section
//	Total ENERGY (Kcal) ... <value> sets the molecule energy
//
// Inside a section every data line is a run of whitespace-separated
// triplets. The third token of a symbol triplet is the atom type; the third
// token of a charge triplet is the partial charge of the next unfilled atom.
// Everything else is ignored.
//
// # State Machine
//
// The parser is an explicit three-state machine (StateSeeking,
// StateInSymbols, StateInCharges). Classify maps a line to a LineKind and
// Next is the total transition function over (State, LineKind), so each
// transition can be tested on its own.
//
// # Errors
//
// Structural violations return *MalformedLogError with the 1-based line
// number. Parsing stops at the first violation; nothing is truncated or
// silently wrapped.
package logparse
