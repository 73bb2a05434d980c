package logparse

import "strings"

// State is the parser position relative to the log sections.
type State int

const (
	StateSeeking State = iota
	StateInSymbols
	StateInCharges
)

func (s State) String() string {
	switch s {
	case StateSeeking:
		return "SEEKING"
	case StateInSymbols:
		return "IN_SYMBOLS"
	case StateInCharges:
		return "IN_CHARGES"
	default:
		return "UNKNOWN"
	}
}

// InSection reports whether data lines are consumed in this state.
func (s State) InSection() bool {
	return s == StateInSymbols || s == StateInCharges
}

// LineKind classifies a trimmed log line.
type LineKind int

const (
	KindBlank LineKind = iota
	KindStructureStart
	KindSymbolHeader
	KindChargeHeader
	KindSectionEnd
	KindEnergy
	KindData
)

func (k LineKind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindStructureStart:
		return "structure-start"
	case KindSymbolHeader:
		return "symbol-header"
	case KindChargeHeader:
		return "charge-header"
	case KindSectionEnd:
		return "section-end"
	case KindEnergy:
		return "energy"
	case KindData:
		return "data"
	default:
		return "unknown"
	}
}

// Line markers, matched as prefixes of the trimmed line.
const (
	MarkerStructureName    = "Structure Name:"
	MarkerNewStructureName = "New Structure Name"
	MarkerSymbolHeader     = "ATOM NAME  TYPE"
	MarkerChargeHeader     = "ATOM    CHARGE"
	MarkerSectionEnd       = "OPTIMOL-LIST"
	MarkerTotalEnergy      = "Total ENERGY (Kcal)"
)

// Classify maps a trimmed line to its kind. Markers take precedence over
// data, in the order listed by the Marker constants.
func Classify(line string) LineKind {
	switch {
	case line == "":
		return KindBlank
	case strings.HasPrefix(line, MarkerStructureName), strings.HasPrefix(line, MarkerNewStructureName):
		return KindStructureStart
	case strings.HasPrefix(line, MarkerSymbolHeader):
		return KindSymbolHeader
	case strings.HasPrefix(line, MarkerChargeHeader):
		return KindChargeHeader
	case strings.HasPrefix(line, MarkerSectionEnd):
		return KindSectionEnd
	case strings.HasPrefix(line, MarkerTotalEnergy):
		return KindEnergy
	default:
		return KindData
	}
}

// Next returns the state after a line of the given kind. It is total: every
// (State, LineKind) pair has a defined successor.
//
// A section end outside a section, energy lines, data and blank lines leave
// the state unchanged.
func Next(s State, k LineKind) State {
	switch k {
	case KindStructureStart:
		return StateSeeking
	case KindSymbolHeader:
		return StateInSymbols
	case KindChargeHeader:
		return StateInCharges
	case KindSectionEnd:
		return StateSeeking
	default:
		return s
	}
}
