package compare

import (
	"fmt"
	"math"
	"os"

	"github.com/roach88/chemcheck/internal/fixture"
	"github.com/roach88/chemcheck/internal/record"
)

// ChargeTolerance is the largest absolute charge difference that still passes.
const ChargeTolerance = 0.01

// chargeSlack absorbs binary rounding so that decimal differences of exactly
// ChargeTolerance (0.28 vs 0.29) pass.
const chargeSlack = 1e-9

// AtomDiff is the positional comparison of one atom slot.
// Actual or Expected is nil when the slot exists on one side only.
type AtomDiff struct {
	Index    int                `json:"index"`
	Actual   *record.AtomRecord `json:"actual,omitempty"`
	Expected *record.AtomRecord `json:"expected,omitempty"`
	Failed   bool               `json:"failed"`
}

// MoleculeDiff is the comparison of one aligned molecule pair.
type MoleculeDiff struct {
	Name           string     `json:"name"`
	ExpectedIndex  int        `json:"expected_index"`
	Energy         float64    `json:"energy"`
	ExpectedEnergy float64    `json:"expected_energy"`
	EnergyFailed   bool       `json:"energy_failed"`
	Atoms          []AtomDiff `json:"atoms"`
	AtomsFailed    int        `json:"atoms_failed"`
}

// Report is the full diff of an actual fixture against an expected one.
type Report struct {
	Molecules       []MoleculeDiff `json:"molecules"`
	Skipped         []string       `json:"skipped,omitempty"` // Expected molecules absent from actual
	AtomsFailed     int            `json:"atoms_failed"`
	MoleculesFailed int            `json:"molecules_failed"`
}

// Failed reports whether any atom or molecule failed.
func (r *Report) Failed() bool {
	return r.AtomsFailed > 0 || r.MoleculesFailed > 0
}

// AtomMatches reports whether an actual atom agrees with the expected one.
func AtomMatches(actual, expected record.AtomRecord) bool {
	if actual.Type != expected.Type {
		return false
	}
	return math.Abs(actual.Charge-expected.Charge) <= ChargeTolerance+chargeSlack
}

// EnergyMatches reports whether two energies agree after truncation toward zero.
func EnergyMatches(actual, expected float64) bool {
	return math.Trunc(actual) == math.Trunc(expected)
}

// Compare aligns actual against expected and diffs every pair.
// An alignment failure aborts the comparison.
func Compare(actual, expected []record.MoleculeRecord) (*Report, error) {
	alignment, err := Align(actual, expected)
	if err != nil {
		return nil, err
	}

	report := &Report{Molecules: make([]MoleculeDiff, 0, len(alignment.Pairs))}
	for _, idx := range alignment.Skipped {
		report.Skipped = append(report.Skipped, expected[idx].Name)
	}

	for _, pair := range alignment.Pairs {
		md := diffMolecule(pair)
		report.AtomsFailed += md.AtomsFailed
		if md.EnergyFailed {
			report.MoleculesFailed++
		}
		report.Molecules = append(report.Molecules, md)
	}

	return report, nil
}

// Files compares two fixture files. Both paths are checked before either is
// read; a missing one yields *record.MissingFileError.
func Files(actualPath, expectedPath string) (*Report, error) {
	actual, expected, err := LoadPair(actualPath, expectedPath)
	if err != nil {
		return nil, err
	}
	return Compare(actual, expected)
}

// LoadPair reads the actual and expected fixtures, checking that both exist
// before decoding either.
func LoadPair(actualPath, expectedPath string) (actual, expected record.FixtureFile, err error) {
	if err := requireFile("actual results", actualPath); err != nil {
		return nil, nil, err
	}
	if err := requireFile("expected results", expectedPath); err != nil {
		return nil, nil, err
	}

	if actual, err = fixture.ReadFile(actualPath); err != nil {
		return nil, nil, err
	}
	if expected, err = fixture.ReadFile(expectedPath); err != nil {
		return nil, nil, err
	}
	return actual, expected, nil
}

func requireFile(kind, path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &record.MissingFileError{Kind: kind, Path: path}
	}
	if err != nil {
		return fmt.Errorf("stat %s file: %w", kind, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s path is a directory: %s", kind, path)
	}
	return nil
}

func diffMolecule(pair Pair) MoleculeDiff {
	md := MoleculeDiff{
		Name:           pair.Actual.Name,
		ExpectedIndex:  pair.ExpectedIndex,
		Energy:         pair.Actual.Energy,
		ExpectedEnergy: pair.Expected.Energy,
		EnergyFailed:   !EnergyMatches(pair.Actual.Energy, pair.Expected.Energy),
	}

	n := max(len(pair.Actual.Atoms), len(pair.Expected.Atoms))
	md.Atoms = make([]AtomDiff, 0, n)
	for i := 0; i < n; i++ {
		ad := AtomDiff{Index: i}
		if i < len(pair.Actual.Atoms) {
			a := pair.Actual.Atoms[i]
			ad.Actual = &a
		}
		if i < len(pair.Expected.Atoms) {
			e := pair.Expected.Atoms[i]
			ad.Expected = &e
		}
		ad.Failed = ad.Actual == nil || ad.Expected == nil || !AtomMatches(*ad.Actual, *ad.Expected)
		if ad.Failed {
			md.AtomsFailed++
		}
		md.Atoms = append(md.Atoms, ad)
	}
	return md
}
