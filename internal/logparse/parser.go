package logparse

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/chemcheck/internal/record"
)

// maxLineSize bounds a single log line. The validation logs stay far below it.
const maxLineSize = 1 << 20

// Parser holds the state of a single parse. It is not reusable.
type Parser struct {
	logger *slog.Logger

	state   State
	lineNo  int
	current *record.MoleculeRecord
	charged int // next unfilled charge slot in current
	out     []record.MoleculeRecord
}

// NewParser creates a parser that logs transitions at debug level.
// A nil logger discards output.
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Parser{logger: logger, state: StateSeeking}
}

// Parse reads a whole log and returns its molecules in declaration order.
func Parse(r io.Reader) ([]record.MoleculeRecord, error) {
	return NewParser(slog.Default()).Parse(r)
}

// ParseFile parses the log at path. A missing file yields
// *record.MissingFileError.
func ParseFile(path string) ([]record.MoleculeRecord, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &record.MissingFileError{Kind: "log", Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	mols, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mols, nil
}

// Parse consumes r to the end.
func (p *Parser) Parse(r io.Reader) ([]record.MoleculeRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := p.Feed(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	p.flush()
	p.logger.Debug("log parsed", "lines", p.lineNo, "molecules", len(p.out))

	if p.out == nil {
		return []record.MoleculeRecord{}, nil
	}
	return p.out, nil
}

// State returns the current parser state.
func (p *Parser) State() State {
	return p.state
}

// Feed processes one raw line. Parse calls it for every line; it is exported
// so single transitions can be driven directly.
func (p *Parser) Feed(raw string) error {
	p.lineNo++
	line := strings.TrimSpace(raw)
	kind := Classify(line)

	switch kind {
	case KindStructureStart:
		name, err := structureName(line)
		if err != nil {
			return p.malformed(line, "structure name", err)
		}
		p.flush()
		p.current = &record.MoleculeRecord{Name: name, Atoms: []record.AtomRecord{}}
		p.charged = 0
		p.logger.Debug("structure start", "line", p.lineNo, "name", name)

	case KindEnergy:
		if p.current == nil {
			return p.malformed(line, "energy before any structure name", nil)
		}
		fields := strings.Fields(line)
		energy, err := strconv.ParseFloat(fields[len(fields)-1], 64)
		if err != nil {
			return p.malformed(line, "total energy is not a number", err)
		}
		p.current.Energy = energy

	case KindData:
		if err := p.data(line); err != nil {
			return err
		}
	}

	next := Next(p.state, kind)
	if next != p.state {
		p.logger.Debug("state transition", "line", p.lineNo, "from", p.state, "to", next, "kind", kind)
	}
	p.state = next
	return nil
}

// data handles a data line according to the current section.
func (p *Parser) data(line string) error {
	if !p.state.InSection() {
		return nil
	}
	if p.current == nil {
		return p.malformed(line, fmt.Sprintf("%s data before any structure name", p.state), nil)
	}

	values, err := thirdOfTriplets(line)
	if err != nil {
		return p.malformed(line, "section line is not a sequence of triplets", err)
	}

	switch p.state {
	case StateInSymbols:
		for _, v := range values {
			typ, err := fixtureText(v)
			if err != nil {
				return p.malformed(line, "atom type", err)
			}
			p.current.Atoms = append(p.current.Atoms, record.AtomRecord{Type: typ})
		}

	case StateInCharges:
		for _, v := range values {
			if p.charged >= len(p.current.Atoms) {
				return p.malformed(line, fmt.Sprintf("charge %d exceeds atom count %d", p.charged+1, len(p.current.Atoms)), nil)
			}
			charge, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return p.malformed(line, "atom charge is not a number", err)
			}
			p.current.Atoms[p.charged].Charge = charge
			p.charged++
		}
	}
	return nil
}

// flush appends the in-progress molecule to the output.
func (p *Parser) flush() {
	if p.current == nil {
		return
	}
	p.out = append(p.out, *p.current)
	p.current = nil
	p.charged = 0
}

func (p *Parser) malformed(line, reason string, err error) error {
	return &MalformedLogError{Line: p.lineNo, Text: line, Reason: reason, Err: err}
}

// structureName extracts the name following the first colon.
func structureName(line string) (string, error) {
	_, after, ok := strings.Cut(line, ":")
	if !ok {
		return "", errors.New("missing ':' separator")
	}
	name := strings.TrimSpace(after)
	if name == "" {
		return "", errors.New("empty name")
	}
	return fixtureText(name)
}

// fixtureText returns s in NFC form, rejecting text a fixture cannot hold
// verbatim: invalid UTF-8 and characters outside the XML character range.
func fixtureText(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", errors.New("invalid UTF-8")
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return "", fmt.Errorf("character %U not allowed", r)
		}
	}
	return norm.NFC.String(s), nil
}

func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// thirdOfTriplets splits line into whitespace tokens, groups them into
// triplets and returns the token at offset 2 of each triplet.
func thirdOfTriplets(line string) ([]string, error) {
	fields := strings.Fields(line)
	if len(fields)%3 != 0 {
		return nil, fmt.Errorf("%d tokens, want a multiple of 3", len(fields))
	}
	values := make([]string, 0, len(fields)/3)
	for i := 0; i+2 < len(fields); i += 3 {
		values = append(values, fields[i+2])
	}
	return values, nil
}
