package ir

import "fmt"

// Kind is the bond-graph component type.
type Kind string

const (
	KindCe    Kind = "Ce"     // chemodynamic species
	KindSe    Kind = "Se"     // chemostatic species
	KindC     Kind = "C"      // electrical capacitor
	KindVe    Kind = "Ve"     // electrogenic (membrane voltage) species
	KindRe    Kind = "Re"     // mass-action reaction
	KindReGHK Kind = "Re_GHK" // Goldman-Hodgkin-Katz reaction
	KindR     Kind = "R"      // electrical resistor
)

// SpeciesKinds lists the kinds that appear as matrix rows, in registry order.
var SpeciesKinds = []Kind{KindCe, KindSe, KindC, KindVe}

// ReactionKinds lists the kinds that appear as matrix columns.
var ReactionKinds = []Kind{KindRe, KindReGHK, KindR}

// ParseKind maps a type label from an input file to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindCe, KindSe, KindC, KindVe, KindRe, KindReGHK, KindR:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown component type %q", s)
	}
}

// IsSpecies reports whether k is a row (state-bearing) kind.
func (k Kind) IsSpecies() bool {
	switch k {
	case KindCe, KindSe, KindC, KindVe:
		return true
	}
	return false
}

// IsReaction reports whether k is a column (flow-bearing) kind.
func (k Kind) IsReaction() bool {
	switch k {
	case KindRe, KindReGHK, KindR:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }
