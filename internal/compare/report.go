package compare

import (
	"bufio"
	"fmt"
	"io"

	"github.com/roach88/chemcheck/internal/fixture"
	"github.com/roach88/chemcheck/internal/record"
)

const (
	colorRed   = "\033[91m"
	colorReset = "\033[0m"
)

// TextOptions controls report rendering.
type TextOptions struct {
	Color bool // Highlight failures with ANSI red
}

// WriteText renders the report: one line per molecule, one per atom with
// the expected value on failure, an energy line per molecule and the
// aggregate failure counts.
func (r *Report) WriteText(w io.Writer, opts TextOptions) error {
	red, reset := "", ""
	if opts.Color {
		red, reset = colorRed, colorReset
	}

	bw := bufio.NewWriter(w)
	for _, md := range r.Molecules {
		fmt.Fprintf(bw, "%d. %s\n", md.ExpectedIndex+1, md.Name)

		for _, ad := range md.Atoms {
			fmt.Fprintf(bw, "   %d. %s", ad.Index+1, atomText(ad.Actual))
			if ad.Failed {
				fmt.Fprintf(bw, " %s[%s] -- FAILED%s", red, atomText(ad.Expected), reset)
			}
			bw.WriteString("\n")
		}

		if md.EnergyFailed {
			fmt.Fprintf(bw, "energy: %f %s[%f] -- FAILED%s\n", md.Energy, red, md.ExpectedEnergy, reset)
		} else {
			fmt.Fprintf(bw, "energy: %f [%f]\n", md.Energy, md.ExpectedEnergy)
		}
	}

	bw.WriteString("\n")
	if len(r.Skipped) > 0 {
		fmt.Fprintf(bw, "skipped: %d expected molecules not in actual results\n", len(r.Skipped))
	}
	fmt.Fprintf(bw, "atoms: %d failed\n", r.AtomsFailed)
	fmt.Fprintf(bw, "molecules: %d failed\n", r.MoleculesFailed)

	return bw.Flush()
}

func atomText(a *record.AtomRecord) string {
	if a == nil {
		return "(missing)"
	}
	return a.Type + ", " + fixture.FormatFloat(a.Charge)
}
