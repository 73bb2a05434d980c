package record

// AtomRecord is a single typed, charged atom.
type AtomRecord struct {
	Type   string  `json:"type"`   // Opaque classification code, not an element symbol
	Charge float64 `json:"charge"` // Partial charge
}

// MoleculeRecord is one simulated structure.
type MoleculeRecord struct {
	Name   string       `json:"name"`
	Energy float64      `json:"energy"` // Total energy (kcal/mol)
	Atoms  []AtomRecord `json:"atoms"`  // Declaration order
}

// AtomCount returns the number of atoms in the molecule.
func (m MoleculeRecord) AtomCount() int {
	return len(m.Atoms)
}

// FixtureFile is the ordered molecule sequence persisted as a comparison baseline.
type FixtureFile []MoleculeRecord

// AtomTotal returns the number of atoms across all molecules.
func (f FixtureFile) AtomTotal() int {
	total := 0
	for _, m := range f {
		total += m.AtomCount()
	}
	return total
}

// TestSummary is the pass/fail/skip triple a test executable reports about itself.
type TestSummary struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// OK reports whether the summary has no failures.
func (s TestSummary) OK() bool {
	return s.Failed == 0
}
