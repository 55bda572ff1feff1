package cellml

import (
	"fmt"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// DefaultVOI is the variable of integration used when none is given.
const DefaultVOI = "t"

// Model name prefixes and suffixes.
const (
	PrefixBG          = "BG_"
	PrefixSteadyState = "ss_"
	PrefixBGSteady    = "BG_ss_"
	PrefixUnits       = "units_"
	SuffixParam       = "_param"
	SuffixTest        = "_test"
)

func variable(name, units, initial string) Variable {
	return Variable{Name: name, Units: units, Initial: initial, Interface: InterfacePublic}
}

// inName and outName are the efforts on the forward and reverse sides of a
// reaction.
func inName(spec bg.KindSpec, reaction string) string {
	return spec.EffortName(reaction) + "_in"
}

func outName(spec bg.KindSpec, reaction string) string {
	return spec.EffortName(reaction) + "_out"
}

func initName(spec bg.KindSpec, species string) string {
	return spec.QuantityName(species) + "_init"
}

// BuildBGModel returns BG_<name>: one component holding every component
// variable, the constitutive equations, and the 0- and 1-junction
// equations derived from N_f and N_r.
func BuildBGModel(net *ir.Network, voi string) (*Model, error) {
	if voi == "" {
		voi = DefaultVOI
	}
	m := &Model{Name: PrefixBG + net.Name}
	c := &Component{Name: m.Name}
	m.Components = append(m.Components, c)
	c.AddVariable(variable(voi, "second", ""))

	for _, s := range net.Species {
		spec, err := bg.Lookup(s.Kind)
		if err != nil {
			return nil, err
		}
		param, flow := spec.ParamName(s.Name), spec.FlowName(s.Name)
		q, q0, e := spec.QuantityName(s.Name), initName(spec, s.Name), spec.EffortName(s.Name)
		c.AddVariable(variable(param, spec.Param.Units, ""))
		c.AddVariable(variable(flow, spec.Domain.Flow.Units, ""))
		c.AddVariable(variable(q0, spec.Domain.Quantity.Units, ""))
		c.AddVariable(variable(q, spec.Domain.Quantity.Units, q0))
		c.AddVariable(variable(e, spec.Domain.Effort.Units, ""))

		switch s.Kind {
		case ir.KindCe, ir.KindSe:
			c.AddEquation(Equation{
				Variable: e,
				Expr:     Times(Ci(bg.GasConstant), Ci(bg.Temperature), Ln(Times(Ci(param), Ci(q)))),
			})
		case ir.KindC, ir.KindVe:
			c.AddEquation(Equation{Variable: e, Expr: Divide(Ci(q), Ci(param))})
		}
		if s.Kind == ir.KindCe || s.Kind == ir.KindC {
			c.AddEquation(Equation{Variable: q, VOI: voi, Expr: Ci(flow)})
		}
	}

	for _, r := range net.Reactions {
		spec, err := bg.Lookup(r.Kind)
		if err != nil {
			return nil, err
		}
		param, flow := spec.ParamName(r.Name), spec.FlowName(r.Name)
		in, out := inName(spec, r.Name), outName(spec, r.Name)
		c.AddVariable(variable(param, spec.Param.Units, ""))
		c.AddVariable(variable(flow, spec.Domain.Flow.Units, ""))
		c.AddVariable(variable(in, spec.Domain.Effort.Units, ""))
		c.AddVariable(variable(out, spec.Domain.Effort.Units, ""))

		switch r.Kind {
		case ir.KindRe, ir.KindReGHK:
			rt := Times(Ci(bg.GasConstant), Ci(bg.Temperature))
			c.AddEquation(Equation{
				Variable: flow,
				Expr:     Times(Ci(param), Minus(Exp(Divide(Ci(in), rt)), Exp(Divide(Ci(out), rt)))),
			})
		case ir.KindR:
			c.AddEquation(Equation{Variable: flow, Expr: Times(Ci(param), Minus(Ci(in), Ci(out)))})
		default:
			return nil, fmt.Errorf("cellml: %s is not a reaction kind", r.Kind)
		}
	}

	for i, s := range net.Species {
		spec := bg.MustLookup(s.Kind)
		var terms []expr.Poly
		for j, r := range net.Reactions {
			flow := bg.MustLookup(r.Kind).FlowName(r.Name)
			terms = append(terms, expr.NewTerm(net.NetCoeff(i, j), expr.Mono(flow)))
		}
		c.AddEquation(Equation{Variable: spec.FlowName(s.Name), Expr: FromPoly(expr.Sum(terms...))})
	}
	for j, r := range net.Reactions {
		spec := bg.MustLookup(r.Kind)
		c.AddEquation(Equation{Variable: inName(spec, r.Name), Expr: FromPoly(effortSum(net, ir.Forward, j))})
		c.AddEquation(Equation{Variable: outName(spec, r.Name), Expr: FromPoly(effortSum(net, ir.Reverse, j))})
	}

	for _, k := range bg.Constants {
		c.AddVariable(variable(k.Name, k.Units, ""))
	}
	return m, m.Check()
}

// effortSum is Σ_i N[i][j] * e_i over one side of reaction j.
func effortSum(net *ir.Network, d ir.Direction, j int) expr.Poly {
	var terms []expr.Poly
	for _, i := range net.Participants(d, j) {
		s := net.Species[i]
		terms = append(terms, expr.NewTerm(net.Coeff(d, i, j), expr.Mono(bg.MustLookup(s.Kind).EffortName(s.Name))))
	}
	return expr.Sum(terms...)
}

// paramVariables lists the BG parameter and initial-quantity variables in
// component order followed by the constants. When values is set, every
// variable carries its default value: 1 for parameters, the registry value
// for constants.
func paramVariables(net *ir.Network, values bool) []Variable {
	one := ""
	if values {
		one = "1"
	}
	var vars []Variable
	for _, s := range net.Species {
		spec := bg.MustLookup(s.Kind)
		vars = append(vars,
			variable(spec.ParamName(s.Name), spec.Param.Units, one),
			variable(initName(spec, s.Name), spec.Domain.Quantity.Units, one))
	}
	for _, r := range net.Reactions {
		spec := bg.MustLookup(r.Kind)
		vars = append(vars, variable(spec.ParamName(r.Name), spec.Param.Units, one))
	}
	for _, k := range bg.Constants {
		v := ""
		if values {
			v = Float(k.Value)
		}
		vars = append(vars, variable(k.Name, k.Units, v))
	}
	return vars
}

// BuildParamModel returns BG_<name>_param with every parameter and initial
// quantity set to 1 and the physical constants set to their values.
func BuildParamModel(net *ir.Network) (*Model, error) {
	m := &Model{Name: PrefixBG + net.Name + SuffixParam}
	m.Components = []*Component{{Name: m.Name, Variables: paramVariables(net, true)}}
	return m, m.Check()
}

// BuildUnitsModel returns a model defining every named unit. Builtin units
// are skipped; unknown names are an error.
func BuildUnitsModel(name string, units []string) (*Model, error) {
	m := &Model{Name: PrefixUnits + name}
	seen := map[string]bool{}
	for _, n := range units {
		if seen[n] {
			continue
		}
		seen[n] = true
		u, err := bg.LookupUnits(n)
		if err != nil {
			return nil, fmt.Errorf("cellml: %w", err)
		}
		if !u.Builtin {
			m.Units = append(m.Units, u)
		}
	}
	return m, nil
}

// BuildTestModel imports every component of parts and connects each pair
// of imported components through their same-named variables.
func BuildTestModel(name string, parts ...*Model) *Model {
	m := &Model{Name: name}
	var comps []*Component
	for _, p := range parts {
		imp := Import{Href: p.FileName()}
		for _, c := range p.Components {
			imp.Components = append(imp.Components, ImportedComponent{Name: c.Name, Ref: c.Name})
			comps = append(comps, c)
		}
		m.Imports = append(m.Imports, imp)
	}

	for a := 0; a < len(comps); a++ {
		for b := a + 1; b < len(comps); b++ {
			conn := Connection{Component1: comps[a].Name, Component2: comps[b].Name}
			for _, v := range comps[a].Variables {
				if _, ok := comps[b].Variable(v.Name); ok {
					conn.Mappings = append(conn.Mappings, Mapping{v.Name, v.Name})
				}
			}
			if len(conn.Mappings) > 0 {
				m.Connections = append(m.Connections, conn)
			}
		}
	}
	return m
}

// constant returns the registry entry for a physical constant.
func constant(name string) bg.Constant {
	for _, k := range bg.Constants {
		if k.Name == name {
			return k
		}
	}
	return bg.Constant{Name: name, Value: 1, Units: "dimensionless"}
}
