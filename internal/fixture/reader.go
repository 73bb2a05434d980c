package fixture

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/roach88/chemcheck/internal/record"
)

type xmlDocument struct {
	XMLName   xml.Name      `xml:"molecules"`
	Molecules []xmlMolecule `xml:"molecule"`
}

type xmlMolecule struct {
	Name      string    `xml:"name,attr"`
	Energy    string    `xml:"energy,attr"`
	AtomCount string    `xml:"atomCount,attr"`
	Atoms     []xmlAtom `xml:"atom"`
}

type xmlAtom struct {
	Type   string `xml:"type,attr"`
	Charge string `xml:"charge,attr"`
}

// Read decodes a fixture document.
func Read(r io.Reader) (record.FixtureFile, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	mols := make(record.FixtureFile, 0, len(doc.Molecules))
	for i, xm := range doc.Molecules {
		mol, err := xm.record()
		if err != nil {
			return nil, fmt.Errorf("decode fixture: molecule[%d] %q: %w", i, xm.Name, err)
		}
		mols = append(mols, mol)
	}
	return mols, nil
}

// ReadFile decodes the fixture at path. A missing file yields
// *record.MissingFileError.
func ReadFile(path string) (record.FixtureFile, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &record.MissingFileError{Kind: "fixture", Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()

	mols, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mols, nil
}

func (xm xmlMolecule) record() (record.MoleculeRecord, error) {
	energy, err := strconv.ParseFloat(xm.Energy, 64)
	if err != nil {
		return record.MoleculeRecord{}, fmt.Errorf("energy: %w", err)
	}

	atoms := make([]record.AtomRecord, 0, len(xm.Atoms))
	for j, xa := range xm.Atoms {
		charge, err := strconv.ParseFloat(xa.Charge, 64)
		if err != nil {
			return record.MoleculeRecord{}, fmt.Errorf("atom[%d] charge: %w", j, err)
		}
		atoms = append(atoms, record.AtomRecord{Type: xa.Type, Charge: charge})
	}

	if xm.AtomCount != "" {
		count, err := strconv.Atoi(xm.AtomCount)
		if err != nil {
			return record.MoleculeRecord{}, fmt.Errorf("atomCount: %w", err)
		}
		if count != len(atoms) {
			return record.MoleculeRecord{}, fmt.Errorf("atomCount %d does not match %d atom elements", count, len(atoms))
		}
	}

	return record.MoleculeRecord{Name: xm.Name, Energy: energy, Atoms: atoms}, nil
}
