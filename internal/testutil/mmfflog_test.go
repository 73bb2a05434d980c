package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/chemcheck/internal/record"
)

func TestLogBuilderLayout(t *testing.T) {
	mol := record.MoleculeRecord{
		Name:   "M1",
		Energy: -1.5,
		Atoms: []record.AtomRecord{
			{Type: "CR", Charge: 0.1}, {Type: "HC", Charge: 0}, {Type: "OR", Charge: -0.2}, {Type: "HO", Charge: 0.3},
		},
	}
	log := NewLogBuilder().Molecule(mol).String()
	lines := strings.Split(log, "\n")

	assert.Equal(t, " Structure Name: M1", lines[0])
	assert.Contains(t, log, " Total ENERGY (Kcal)      -1.5\n")

	// 4 atoms at 3 per line: two symbol lines and two charge lines of 9 and 3 tokens
	var tokenCounts []int
	for _, l := range lines {
		if strings.Contains(l, "X1") || strings.Contains(l, "X4") {
			tokenCounts = append(tokenCounts, len(strings.Fields(l)))
		}
	}
	assert.Equal(t, []int{9, 3, 9, 3}, tokenCounts)
}

func TestTotalsScriptExitsWithFailures(t *testing.T) {
	body := TotalsScript(4, 1, 0)
	assert.Contains(t, body, "Totals: 4 passed, 1 failed, 0 skipped")
	assert.True(t, strings.HasSuffix(body, "exit 1"))
}
