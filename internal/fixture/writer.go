package fixture

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/natefinch/atomic"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/chemcheck/internal/record"
)

// FormatFloat renders a float the way every fixture does: the shortest
// decimal that parses back to the same value, never in exponent form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Write serializes mols to w in canonical form.
func Write(w io.Writer, mols []record.MoleculeRecord) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("<molecules>\n")
	for _, m := range mols {
		fmt.Fprintf(bw, "  <molecule name=\"%s\" energy=\"%s\" atomCount=\"%d\">\n",
			escapeAttr(norm.NFC.String(m.Name)), FormatFloat(m.Energy), m.AtomCount())
		for _, a := range m.Atoms {
			fmt.Fprintf(bw, "    <atom type=\"%s\" charge=\"%s\"/>\n",
				escapeAttr(norm.NFC.String(a.Type)), FormatFloat(a.Charge))
		}
		bw.WriteString("  </molecule>\n")
	}
	bw.WriteString("</molecules>\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}

// Marshal returns the canonical bytes for mols.
func Marshal(mols []record.MoleculeRecord) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail
	_ = Write(&buf, mols)
	return buf.Bytes()
}

// WriteFile atomically replaces path with the canonical fixture for mols.
// Parent directories are created as needed.
func WriteFile(path string, mols []record.MoleculeRecord) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create fixture directory: %w", err)
		}
	}
	if err := atomic.WriteFile(path, bytes.NewReader(Marshal(mols))); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}

// escapeAttr escapes s for use inside a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
