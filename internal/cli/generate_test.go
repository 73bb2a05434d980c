package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/chemcheck/internal/fixture"
	"github.com/roach88/chemcheck/internal/record"
	"github.com/roach88/chemcheck/internal/testutil"
)

func sampleMolecules() []record.MoleculeRecord {
	return []record.MoleculeRecord{
		{
			Name:   "AMHTAR01",
			Energy: -42.5,
			Atoms: []record.AtomRecord{
				{Type: "CR", Charge: 0.28},
				{Type: "HC", Charge: 0},
				{Type: "OR", Charge: -0.68},
			},
		},
		{
			Name:   "ACANIL01",
			Energy: 17.25,
			Atoms: []record.AtomRecord{
				{Type: "NC=O", Charge: -0.7},
			},
		},
	}
}

func writeLog(t *testing.T, dir string, mols []record.MoleculeRecord) string {
	t.Helper()
	b := testutil.NewLogBuilder()
	for _, m := range mols {
		b.Molecule(m)
	}
	path := filepath.Join(dir, "mmff94.log")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0644))
	return path
}

func TestGenerateWritesFixture(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, sampleMolecules())
	out := filepath.Join(dir, "out", "mmff94.expected")

	stdout, _, err := execute(t, "generate", logPath, "-o", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 2 molecules (4 atoms)")

	got, err := fixture.ReadFile(out)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleMolecules(), []record.MoleculeRecord(got)); diff != "" {
		t.Errorf("fixture mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateToStdout(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, sampleMolecules())

	stdout, _, err := execute(t, "generate", logPath)
	require.NoError(t, err)
	assert.Equal(t, string(fixture.Marshal(sampleMolecules())), stdout)
}

func TestGenerateJSON(t *testing.T) {
	dir := t.TempDir()
	logPath := writeLog(t, dir, sampleMolecules())
	out := filepath.Join(dir, "mmff94.expected")

	stdout, _, err := execute(t, "generate", logPath, "-o", out, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   GenerateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Data.Molecules)
	assert.Equal(t, 4, resp.Data.Atoms)
	assert.Equal(t, fixture.Digest(sampleMolecules()), resp.Data.Digest)
}

func TestGenerateMissingLog(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.log")

	_, _, err := execute(t, "generate", missing, "-o", filepath.Join(t.TempDir(), "x"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "could not find log file")
}

func TestGenerateMalformedLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "bad.log")
	content := " Structure Name: X\n ATOM    CHARGE\n 1 C1 notanumber\n"
	require.NoError(t, os.WriteFile(logPath, []byte(content), 0644))

	stdout, _, err := execute(t, "generate", logPath, "-o", filepath.Join(dir, "x"), "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMalformedLog, resp.Error.Code)
}

func TestGenerateMissingArgs(t *testing.T) {
	_, _, err := execute(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
