package testutil

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/chemcheck/internal/record"
)

// LogBuilder writes synthetic MMFF94 optimisation logs in the shape the log
// parser consumes. Atoms are laid out PerLine triplets per data line.
type LogBuilder struct {
	PerLine int
	sb      strings.Builder
}

// NewLogBuilder creates a builder that puts three triplets on each data line.
func NewLogBuilder() *LogBuilder {
	return &LogBuilder{PerLine: 3}
}

// Molecule appends a complete structure block for m.
func (b *LogBuilder) Molecule(m record.MoleculeRecord) *LogBuilder {
	b.Line(" Structure Name: " + m.Name)
	b.Line("")
	b.Line(" ATOM NAME  TYPE     ATOM NAME  TYPE     ATOM NAME  TYPE")
	for _, chunk := range b.chunks(len(m.Atoms)) {
		var parts []string
		for _, i := range chunk {
			parts = append(parts, fmt.Sprintf("%4d  %-4s %-4s", i+1, fmt.Sprintf("X%d", i+1), m.Atoms[i].Type))
		}
		b.Line(" " + strings.Join(parts, "   "))
	}
	b.Line(" OPTIMOL-LIST> ")
	b.Line("")
	b.Line(" ATOM    CHARGE     ATOM    CHARGE     ATOM    CHARGE")
	for _, chunk := range b.chunks(len(m.Atoms)) {
		var parts []string
		for _, i := range chunk {
			parts = append(parts, fmt.Sprintf("%4d  X%-3d %s", i+1, i+1, strconv.FormatFloat(m.Atoms[i].Charge, 'f', -1, 64)))
		}
		b.Line(" " + strings.Join(parts, "   "))
	}
	b.Line(" OPTIMOL-LIST> ")
	b.Line(fmt.Sprintf(" Total ENERGY (Kcal)      %s", strconv.FormatFloat(m.Energy, 'f', -1, 64)))
	b.Line("")
	return b
}

// Line appends a raw line.
func (b *LogBuilder) Line(s string) *LogBuilder {
	b.sb.WriteString(s)
	b.sb.WriteByte('\n')
	return b
}

// String returns the log text built so far.
func (b *LogBuilder) String() string {
	return b.sb.String()
}

func (b *LogBuilder) chunks(n int) [][]int {
	per := b.PerLine
	if per <= 0 {
		per = 3
	}
	var out [][]int
	for start := 0; start < n; start += per {
		var chunk []int
		for i := start; i < n && i < start+per; i++ {
			chunk = append(chunk, i)
		}
		out = append(out, chunk)
	}
	return out
}
