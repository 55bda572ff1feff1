package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/bondgraph/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// Network structure (E201-E209)
	ErrEmptyName           = "E201" // component or reaction name is blank
	ErrDuplicateSpecies    = "E202" // species name used twice
	ErrDuplicateReaction   = "E203" // reaction name used twice
	ErrSpeciesKind         = "E204" // row kind is not a species kind
	ErrReactionKind        = "E205" // column kind is not a reaction kind
	ErrNegativeCoefficient = "E206" // stoichiometric coefficient below zero
	ErrShapeMismatch       = "E207" // N_f / N_r shape disagrees with names
	ErrEmptyReaction       = "E208" // reaction has no participants on either side
	ErrEmptyNetwork        = "E209" // no species or no reactions

	// Matrix file format (E210-E219)
	ErrEmptyCell   = "E210" // blank cell in a matrix file
	ErrBadNumber   = "E211" // coefficient is not a rational number
	ErrRaggedRow   = "E212" // row width differs from the header
	ErrReversePath = "E213" // reverse matrix path cannot be derived
	ErrReadFile    = "E214" // file missing or unreadable
	ErrUnknownKind = "E215" // type label is not a bond-graph kind
)

// ValidationError represents a structural problem in a network.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a network against the structural rules every solver
// relies on. Returns all errors found (does not fail-fast).
func Validate(n *ir.Network) []ValidationError {
	var errs []ValidationError

	if len(n.Species) == 0 {
		errs = append(errs, ValidationError{
			Field:   "species",
			Message: "network has no species",
			Code:    ErrEmptyNetwork,
		})
	}
	if len(n.Reactions) == 0 {
		errs = append(errs, ValidationError{
			Field:   "reactions",
			Message: "network has no reactions",
			Code:    ErrEmptyNetwork,
		})
	}

	errs = append(errs, validateComponents("species", n.Species, true)...)
	errs = append(errs, validateComponents("reactions", n.Reactions, false)...)

	shapeOK := true
	for _, d := range []ir.Direction{ir.Forward, ir.Reverse} {
		if err := checkShape(n, d); err != nil {
			errs = append(errs, *err)
			shapeOK = false
		}
	}
	if !shapeOK {
		return errs
	}

	for j, r := range n.Reactions {
		for _, d := range []ir.Direction{ir.Forward, ir.Reverse} {
			for i, s := range n.Species {
				if n.Coeff(d, i, j).Sign() < 0 {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("%s[%d][%d]", matrixName(d), i, j),
						Message: fmt.Sprintf("coefficient of %s in %s is negative: %s", s.Name, r.Name, n.Coeff(d, i, j).RatString()),
						Code:    ErrNegativeCoefficient,
						Name:    r.Name,
					})
				}
			}
		}
		if len(n.Participants(ir.Forward, j)) == 0 && len(n.Participants(ir.Reverse, j)) == 0 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("reactions[%d]", j),
				Message: fmt.Sprintf("reaction %s has no participants", r.Name),
				Code:    ErrEmptyReaction,
				Name:    r.Name,
			})
		}
	}

	return errs
}

func validateComponents(field string, comps []ir.Component, species bool) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)

	dupCode, kindCode, role := ErrDuplicateReaction, ErrReactionKind, "reaction"
	if species {
		dupCode, kindCode, role = ErrDuplicateSpecies, ErrSpeciesKind, "species"
	}

	for i, c := range comps {
		if strings.TrimSpace(c.Name) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d].name", field, i),
				Message: "name is required and must be non-empty",
				Code:    ErrEmptyName,
			})
			continue
		}
		if seen[c.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d].name", field, i),
				Message: fmt.Sprintf("duplicate %s name: %q", role, c.Name),
				Code:    dupCode,
				Name:    c.Name,
			})
		}
		seen[c.Name] = true

		if (species && !c.Kind.IsSpecies()) || (!species && !c.Kind.IsReaction()) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d].kind", field, i),
				Message: fmt.Sprintf("%q is not a %s type", c.Kind, role),
				Code:    kindCode,
				Name:    c.Name,
			})
		}
	}
	return errs
}

func checkShape(n *ir.Network, d ir.Direction) *ValidationError {
	m := n.Matrix(d)
	bad := len(m) != len(n.Species)
	for _, row := range m {
		if len(row) != len(n.Reactions) {
			bad = true
			break
		}
		for _, c := range row {
			if c == nil {
				bad = true
			}
		}
	}
	if !bad {
		return nil
	}
	return &ValidationError{
		Field:   matrixName(d),
		Message: fmt.Sprintf("matrix must be %d x %d with every entry set", len(n.Species), len(n.Reactions)),
		Code:    ErrShapeMismatch,
	}
}

func matrixName(d ir.Direction) string {
	if d == ir.Reverse {
		return "N_r"
	}
	return "N_f"
}
