package logparse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chemcheck/internal/record"
	"github.com/roach88/chemcheck/internal/testutil"
)

func TestParseTwoStructures(t *testing.T) {
	want := []record.MoleculeRecord{
		{
			Name:   "AMHTAR01",
			Energy: -12.3456,
			Atoms: []record.AtomRecord{
				{Type: "CR", Charge: 0.28},
				{Type: "HC", Charge: 0},
				{Type: "OR", Charge: -0.68},
				{Type: "HO", Charge: 0.4},
			},
		},
		{
			Name:   "ACANIL01",
			Energy: 31.02,
			Atoms: []record.AtomRecord{
				{Type: "NC=O", Charge: -0.73},
				{Type: "C=ON", Charge: 0.57},
			},
		},
	}

	log := testutil.NewLogBuilder().Molecule(want[0]).Molecule(want[1]).String()
	got, err := Parse(strings.NewReader(log))
	require.NoError(t, err)

	require.Len(t, got, 2)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseChargesFillInOrder(t *testing.T) {
	log := strings.Join([]string{
		"Structure Name: M1",
		"ATOM NAME  TYPE",
		"1 A T1   2 B T2",
		"3 C T3",
		"OPTIMOL-LIST",
		"ATOM    CHARGE",
		"1 A 0.1",
		"2 B 0.2   3 C 0.3",
		"OPTIMOL-LIST",
	}, "\n")

	got, err := Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, got, 1)

	atoms := got[0].Atoms
	require.Len(t, atoms, 3)
	assert.Equal(t, []string{"T1", "T2", "T3"}, []string{atoms[0].Type, atoms[1].Type, atoms[2].Type})
	assert.Equal(t, []float64{0.1, 0.2, 0.3}, []float64{atoms[0].Charge, atoms[1].Charge, atoms[2].Charge})
}

func TestParseFlushesLastMolecule(t *testing.T) {
	got, err := Parse(strings.NewReader("Structure Name: ONLY\nTotal ENERGY (Kcal) 1.5"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ONLY", got[0].Name)
	assert.Equal(t, 1.5, got[0].Energy)
	assert.Empty(t, got[0].Atoms)
}

func TestParseNewStructureName(t *testing.T) {
	got, err := Parse(strings.NewReader("New Structure Name:  BENZEN \n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BENZEN", got[0].Name)
}

func TestParseIgnoresUnrecognizedLines(t *testing.T) {
	log := strings.Join([]string{
		"MMFF94 validation suite",
		"",
		"Structure Name: M1",
		"some banner line with four tokens",
		"OPTIMOL-LIST",
		"Total ENERGY (Kcal)   2.0",
	}, "\n")

	got, err := Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2.0, got[0].Energy)
}

func TestParseEmptyInput(t *testing.T) {
	got, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name   string
		log    string
		line   int
		reason string
	}{
		{
			name:   "short symbol line",
			log:    "Structure Name: M1\nATOM NAME  TYPE\n1 C1 CR 2 C2\n",
			line:   3,
			reason: "triplets",
		},
		{
			name:   "short charge line",
			log:    "Structure Name: M1\nATOM NAME  TYPE\n1 C1 CR\nOPTIMOL-LIST\nATOM    CHARGE\n1 C1\n",
			line:   6,
			reason: "triplets",
		},
		{
			name:   "charge not a number",
			log:    "Structure Name: M1\nATOM NAME  TYPE\n1 C1 CR\nOPTIMOL-LIST\nATOM    CHARGE\n1 C1 abc\n",
			line:   6,
			reason: "not a number",
		},
		{
			name:   "more charges than atoms",
			log:    "Structure Name: M1\nATOM NAME  TYPE\n1 C1 CR\nOPTIMOL-LIST\nATOM    CHARGE\n1 C1 0.1 2 C2 0.2\n",
			line:   6,
			reason: "exceeds atom count",
		},
		{
			name:   "energy not a number",
			log:    "Structure Name: M1\nTotal ENERGY (Kcal)   n/a\n",
			line:   2,
			reason: "total energy",
		},
		{
			name:   "energy without value",
			log:    "Structure Name: M1\nTotal ENERGY (Kcal)\n",
			line:   2,
			reason: "total energy",
		},
		{
			name:   "energy before structure",
			log:    "Total ENERGY (Kcal) 1.0\n",
			line:   1,
			reason: "before any structure",
		},
		{
			name:   "symbols before structure",
			log:    "\nATOM NAME  TYPE\n1 C1 CR\n",
			line:   3,
			reason: "before any structure",
		},
		{
			name:   "structure without name",
			log:    "Structure Name:   \n",
			line:   1,
			reason: "structure name",
		},
		{
			name:   "control character in name",
			log:    "Structure Name: BAD\x01NAME\n",
			line:   1,
			reason: "U+0001",
		},
		{
			name:   "invalid UTF-8 in name",
			log:    "Structure Name: BAD\xffNAME\n",
			line:   1,
			reason: "invalid UTF-8",
		},
		{
			name:   "control character in atom type",
			log:    "Structure Name: M1\nATOM NAME  TYPE\n1 C1 C\x02R\n",
			line:   3,
			reason: "atom type",
		},
		{
			name:   "new structure without colon",
			log:    "New Structure Name BENZEN\n",
			line:   1,
			reason: "structure name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.log))
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, IsMalformed(err))

			var me *MalformedLogError
			require.ErrorAs(t, err, &me)
			assert.Equal(t, tt.line, me.Line)
			assert.Contains(t, me.Error(), tt.reason)
		})
	}
}

func TestParseNormalizesText(t *testing.T) {
	// "e" + combining acute accent in both the name and an atom type
	log := "Structure Name: cafe\u0301\nATOM NAME  TYPE\n1 C1 Ce\u0301\n"

	got, err := Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "caf\u00e9", got[0].Name)
	assert.Equal(t, "C\u00e9", got[0].Atoms[0].Type)
}

func TestFeedDrivesStates(t *testing.T) {
	p := NewParser(nil)
	assert.Equal(t, StateSeeking, p.State())

	require.NoError(t, p.Feed("Structure Name: M1"))
	assert.Equal(t, StateSeeking, p.State())

	require.NoError(t, p.Feed("  ATOM NAME  TYPE  "))
	assert.Equal(t, StateInSymbols, p.State())

	require.NoError(t, p.Feed("1 C1 CR"))
	assert.Equal(t, StateInSymbols, p.State())

	require.NoError(t, p.Feed("OPTIMOL-LIST>"))
	assert.Equal(t, StateSeeking, p.State())

	require.NoError(t, p.Feed("ATOM    CHARGE"))
	assert.Equal(t, StateInCharges, p.State())

	require.NoError(t, p.Feed("Structure Name: M2"))
	assert.Equal(t, StateSeeking, p.State())
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MMFF94_opti.log")
	mol := record.MoleculeRecord{Name: "M1", Energy: 3.25, Atoms: []record.AtomRecord{{Type: "CR", Charge: -0.1}}}
	require.NoError(t, os.WriteFile(path, []byte(testutil.NewLogBuilder().Molecule(mol).String()), 0644))

	got, err := ParseFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mol, got[0])
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "nope.log"))
	require.Error(t, err)

	var missing *record.MissingFileError
	require.ErrorAs(t, err, &missing)
	assert.Contains(t, err.Error(), "nope.log")
}

func TestParseFileMalformedNamesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.log")
	require.NoError(t, os.WriteFile(path, []byte("Structure Name: M1\nATOM NAME  TYPE\n1 2\n"), 0644))

	_, err := ParseFile(path)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
	assert.Contains(t, err.Error(), "bad.log")
}
