package compiler

import (
	"fmt"
	"math/big"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// CompileNetwork parses a CUE network struct into a network. Species and
// reactions keep their declaration order.
//
//	network: enzyme: {
//		species: {A: "Ce", B: "Ce", S: "Se"}
//		reactions: {
//			R1: {type: "Re", forward: {S: 1, A: 1}, reverse: {B: 1}}
//			R2: {type: "Re", forward: {B: 1}, reverse: {A: 1}}
//		}
//	}
func CompileNetwork(v cue.Value) (*ir.Network, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var name string
	if labels := v.Path().Selectors(); len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}

	species, err := parseSpecies(v)
	if err != nil {
		return nil, err
	}

	reactionsVal := v.LookupPath(cue.ParsePath("reactions"))
	if !reactionsVal.Exists() {
		return nil, &CompileError{Field: "reactions", Message: "reactions are required", Pos: v.Pos()}
	}
	iter, err := reactionsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	type side struct {
		val cue.Value
		d   ir.Direction
	}
	var reactions []ir.Component
	var sides [][]side
	for iter.Next() {
		rv := iter.Value()
		typeVal := rv.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return nil, &CompileError{Field: "reactions." + iter.Label() + ".type", Message: "type is required", Pos: rv.Pos()}
		}
		kind, err := parseKind(typeVal)
		if err != nil {
			return nil, err
		}
		reactions = append(reactions, ir.Component{Name: iter.Label(), Kind: kind})
		sides = append(sides, []side{
			{rv.LookupPath(cue.ParsePath("forward")), ir.Forward},
			{rv.LookupPath(cue.ParsePath("reverse")), ir.Reverse},
		})
	}

	net := ir.NewNetwork(name, species, reactions)
	for j, ss := range sides {
		for _, s := range ss {
			if !s.val.Exists() {
				continue
			}
			fields, err := s.val.Fields()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for fields.Next() {
				i, ok := net.SpeciesIndex(fields.Label())
				if !ok {
					return nil, &CompileError{
						Field:   fmt.Sprintf("reactions.%s.%s", reactions[j].Name, s.d),
						Message: fmt.Sprintf("unknown species %q", fields.Label()),
						Pos:     fields.Value().Pos(),
					}
				}
				c, err := parseCoefficient(fields.Value())
				if err != nil {
					return nil, err
				}
				net.Matrix(s.d)[i][j] = c
			}
		}
	}
	return net, nil
}

func parseSpecies(v cue.Value) ([]ir.Component, error) {
	speciesVal := v.LookupPath(cue.ParsePath("species"))
	if !speciesVal.Exists() {
		return nil, &CompileError{Field: "species", Message: "species are required", Pos: v.Pos()}
	}
	iter, err := speciesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var species []ir.Component
	for iter.Next() {
		kind, err := parseKind(iter.Value())
		if err != nil {
			return nil, err
		}
		species = append(species, ir.Component{Name: iter.Label(), Kind: kind})
	}
	return species, nil
}

func parseKind(v cue.Value) (ir.Kind, error) {
	s, err := v.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	kind, err := ir.ParseKind(s)
	if err != nil {
		return "", &CompileError{Field: "type", Message: err.Error(), Pos: v.Pos()}
	}
	return kind, nil
}

// parseCoefficient accepts CUE numbers or rational strings ("1/2").
func parseCoefficient(v cue.Value) (*big.Rat, error) {
	switch v.Kind() {
	case cue.IntKind, cue.FloatKind, cue.NumberKind:
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, formatCUEError(err)
		}
		c, err := expr.ParseRat(string(b))
		if err != nil {
			return nil, &CompileError{Field: "coefficient", Message: err.Error(), Pos: v.Pos()}
		}
		return c, nil
	case cue.StringKind:
		s, _ := v.String()
		c, err := expr.ParseRat(s)
		if err != nil {
			return nil, &CompileError{Field: "coefficient", Message: err.Error(), Pos: v.Pos()}
		}
		return c, nil
	default:
		return nil, &CompileError{
			Field:   "coefficient",
			Message: fmt.Sprintf("coefficient must be a number, got %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// CompileString compiles CUE source holding a `network:` struct. It is the
// in-memory counterpart of LoadCUE.
func CompileString(src, filename string) ([]*ir.Network, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileNetworks(v)
}

// LoadCUE loads every network declared under `network:` in the CUE package
// in dir. Networks are returned in declaration order and validated.
func LoadCUE(dir string) ([]*ir.Network, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, &InputFormatError{File: dir, Code: ErrReadFile, Message: err.Error()}
	}
	if !info.IsDir() {
		return nil, &InputFormatError{File: dir, Code: ErrReadFile, Message: "not a directory"}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &InputFormatError{File: dir, Code: ErrReadFile, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError(inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return compileNetworks(value)
}

func compileNetworks(value cue.Value) ([]*ir.Network, error) {
	networksVal := value.LookupPath(cue.ParsePath("network"))
	if !networksVal.Exists() {
		return nil, &CompileError{Field: "network", Message: "no networks declared", Pos: value.Pos()}
	}
	iter, err := networksVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var nets []*ir.Network
	for iter.Next() {
		net, err := CompileNetwork(iter.Value())
		if err != nil {
			return nil, err
		}
		if errs := Validate(net); len(errs) > 0 {
			return nil, &InputFormatError{
				File:    "network." + iter.Label(),
				Name:    errs[0].Name,
				Code:    errs[0].Code,
				Message: errs[0].Message,
			}
		}
		nets = append(nets, net)
	}
	return nets, nil
}
