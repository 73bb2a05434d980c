package compare

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chemcheck/internal/fixture"
	"github.com/roach88/chemcheck/internal/record"
)

func atoms(pairs ...any) []record.AtomRecord {
	out := make([]record.AtomRecord, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, record.AtomRecord{Type: pairs[i].(string), Charge: pairs[i+1].(float64)})
	}
	return out
}

func reportFixtures() (actual, expected []record.MoleculeRecord) {
	expected = []record.MoleculeRecord{
		{Name: "A", Energy: 10.01, Atoms: atoms("CR", 0.28, "HC", 0.0)},
		{Name: "B", Energy: 3.0, Atoms: atoms("CR", 0.1)},
		{Name: "C", Energy: -5.5, Atoms: atoms("OR", -0.68)},
	}
	actual = []record.MoleculeRecord{
		{Name: "A", Energy: 10.99, Atoms: atoms("CR", 0.285, "HX", 0.0)},
		{Name: "C", Energy: -4.2, Atoms: atoms("OR", -0.68, "HO", 0.4)},
	}
	return actual, expected
}

func TestAtomMatches(t *testing.T) {
	tests := []struct {
		name     string
		actual   record.AtomRecord
		expected record.AtomRecord
		want     bool
	}{
		{"identical", record.AtomRecord{Type: "CR", Charge: 0.28}, record.AtomRecord{Type: "CR", Charge: 0.28}, true},
		{"within tolerance", record.AtomRecord{Type: "CR", Charge: 0.285}, record.AtomRecord{Type: "CR", Charge: 0.28}, true},
		{"exactly tolerance", record.AtomRecord{Type: "CR", Charge: 0.29}, record.AtomRecord{Type: "CR", Charge: 0.28}, true},
		{"exactly tolerance negative", record.AtomRecord{Type: "OR", Charge: -0.69}, record.AtomRecord{Type: "OR", Charge: -0.68}, true},
		{"beyond tolerance", record.AtomRecord{Type: "CR", Charge: 0.2901}, record.AtomRecord{Type: "CR", Charge: 0.28}, false},
		{"type differs", record.AtomRecord{Type: "HC", Charge: 0.28}, record.AtomRecord{Type: "CR", Charge: 0.28}, false},
		{"type case differs", record.AtomRecord{Type: "cr", Charge: 0.28}, record.AtomRecord{Type: "CR", Charge: 0.28}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AtomMatches(tt.actual, tt.expected))
		})
	}
}

func TestEnergyMatches(t *testing.T) {
	tests := []struct {
		actual, expected float64
		want             bool
	}{
		{10.99, 10.01, true},
		{10.99, 11.01, false},
		{-0.5, 0.5, true},
		{-1.01, -1.99, true},
		{-1.01, -0.99, false},
		{100, 100, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EnergyMatches(tt.actual, tt.expected), "EnergyMatches(%v, %v)", tt.actual, tt.expected)
	}
}

func TestCompareAllPass(t *testing.T) {
	mols := []record.MoleculeRecord{
		{Name: "A", Energy: 1.2, Atoms: atoms("CR", 0.1, "HC", 0.0)},
		{Name: "B", Energy: -7.9, Atoms: atoms("OR", -0.5)},
	}
	report, err := Compare(mols, mols)
	require.NoError(t, err)

	assert.False(t, report.Failed())
	assert.Equal(t, 0, report.AtomsFailed)
	assert.Equal(t, 0, report.MoleculesFailed)
	assert.Len(t, report.Molecules, 2)
}

func TestCompareCountsFailures(t *testing.T) {
	actual, expected := reportFixtures()
	report, err := Compare(actual, expected)
	require.NoError(t, err)

	assert.True(t, report.Failed())
	assert.Equal(t, 2, report.AtomsFailed)
	assert.Equal(t, 1, report.MoleculesFailed)
	assert.Equal(t, []string{"B"}, report.Skipped)

	require.Len(t, report.Molecules, 2)
	c := report.Molecules[1]
	assert.Equal(t, "C", c.Name)
	assert.Equal(t, 2, c.ExpectedIndex)
	assert.True(t, c.EnergyFailed)
	require.Len(t, c.Atoms, 2)
	assert.False(t, c.Atoms[0].Failed)
	assert.True(t, c.Atoms[1].Failed)
	assert.Nil(t, c.Atoms[1].Expected)
}

func TestCompareMissingActualAtom(t *testing.T) {
	actual := []record.MoleculeRecord{{Name: "A", Atoms: atoms("CR", 0.1)}}
	expected := []record.MoleculeRecord{{Name: "A", Atoms: atoms("CR", 0.1, "HC", 0.0)}}

	report, err := Compare(actual, expected)
	require.NoError(t, err)
	assert.Equal(t, 1, report.AtomsFailed)
	assert.Nil(t, report.Molecules[0].Atoms[1].Actual)
}

func TestCompareAlignmentFailure(t *testing.T) {
	_, err := Compare(named("A", "Q"), named("A", "B"))
	require.Error(t, err)
	assert.True(t, IsAlignmentError(err))
}

func TestReportTextGolden(t *testing.T) {
	actual, expected := reportFixtures()
	report, err := Compare(actual, expected)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, TextOptions{}))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "report", buf.Bytes())
}

func TestReportTextColor(t *testing.T) {
	actual, expected := reportFixtures()
	report, err := Compare(actual, expected)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.WriteText(&buf, TextOptions{Color: true}))

	out := buf.String()
	assert.Contains(t, out, colorRed+"[HC, 0] -- FAILED"+colorReset)
	assert.Contains(t, out, "energy: 10.990000 [10.010000]\n")
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	actual, expected := reportFixtures()
	actualPath := filepath.Join(dir, "mmff94.actual")
	expectedPath := filepath.Join(dir, "mmff94.expected")
	require.NoError(t, fixture.WriteFile(actualPath, actual))
	require.NoError(t, fixture.WriteFile(expectedPath, expected))

	report, err := Files(actualPath, expectedPath)
	require.NoError(t, err)
	assert.Equal(t, 2, report.AtomsFailed)
	assert.Equal(t, 1, report.MoleculesFailed)
}

func TestFilesMissing(t *testing.T) {
	dir := t.TempDir()
	expectedPath := filepath.Join(dir, "mmff94.expected")
	require.NoError(t, fixture.WriteFile(expectedPath, nil))

	tests := []struct {
		name     string
		actual   string
		expected string
		want     string
	}{
		{"actual missing", filepath.Join(dir, "mmff94.actual"), expectedPath, "could not find actual results file"},
		{"expected missing", expectedPath, filepath.Join(dir, "nope.expected"), "could not find expected results file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Files(tt.actual, tt.expected)
			require.Error(t, err)

			var missing *record.MissingFileError
			require.ErrorAs(t, err, &missing)
			assert.True(t, strings.HasPrefix(err.Error(), tt.want), err.Error())
		})
	}
}

func TestFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := Files(dir, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
