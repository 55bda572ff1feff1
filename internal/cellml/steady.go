package cellml

import (
	"slices"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/lump"
)

// FluxVariable is the steady-state flux.
const FluxVariable = "v_ss"

// FluxUnits is the unit of FluxVariable.
var FluxUnits = bg.Chemical.Flow.Units

// usesVoltage reports whether the simplified flux contains the voltage
// factor, which brings in V_m and the constants.
func usesVoltage(res *lump.Result) bool {
	return slices.Contains(res.Ratio().Symbols(), expr.VoltageFactor)
}

// voltageVariables are V_m followed by the constants the voltage factor
// reads. V_m defaults to 0 when values is set.
func voltageVariables(values bool) []Variable {
	vm := ""
	if values {
		vm = "0"
	}
	vars := []Variable{variable(bg.Voltage, bg.Electrical.Effort.Units, vm)}
	for _, name := range []string{bg.Faraday, bg.GasConstant, bg.Temperature} {
		k := constant(name)
		v := ""
		if values {
			v = Float(k.Value)
		}
		vars = append(vars, variable(k.Name, k.Units, v))
	}
	return vars
}

// lumpedVariables lists P then Q, then the voltage variables if needed.
func lumpedVariables(res *lump.Result, values bool) []Variable {
	one := ""
	if values {
		one = "1"
	}
	var vars []Variable
	for _, p := range res.P {
		vars = append(vars, variable(p.Name, p.Units, one))
	}
	for _, q := range res.Q {
		vars = append(vars, variable(q.Name, q.Units, one))
	}
	if usesVoltage(res) {
		vars = append(vars, voltageVariables(values)...)
	}
	return vars
}

// SteadyStateExpr renders the simplified flux with its numerator factored.
func SteadyStateExpr(res *lump.Result) Node {
	num := FromFactored(res.Factored)
	if res.Den.IsOne() {
		return num
	}
	return Divide(num, FromPoly(res.Den))
}

// BuildSteadyStateModel returns ss_<name>: the v_ss equation over the
// lumped parameters and quantities.
func BuildSteadyStateModel(name string, res *lump.Result) (*Model, error) {
	m := &Model{Name: PrefixSteadyState + name}
	c := &Component{Name: m.Name, Variables: lumpedVariables(res, false)}
	c.AddVariable(variable(FluxVariable, FluxUnits, ""))
	c.AddEquation(Equation{Variable: FluxVariable, Expr: SteadyStateExpr(res)})
	m.Components = []*Component{c}
	return m, m.Check()
}

// BuildSteadyStateParamModel returns ss_<name>_param with every lumped
// parameter and quantity set to 1.
func BuildSteadyStateParamModel(name string, res *lump.Result) (*Model, error) {
	m := &Model{Name: PrefixSteadyState + name + SuffixParam}
	m.Components = []*Component{{Name: m.Name, Variables: lumpedVariables(res, true)}}
	return m, m.Check()
}

// BuildBGSteadyStateParamModel returns BG_ss_<name>_param: each lumped
// parameter defined by its coefficient over the BG parameters.
func BuildBGSteadyStateParamModel(net *ir.Network, res *lump.Result) (*Model, error) {
	m := &Model{Name: PrefixBGSteady + net.Name + SuffixParam}
	c := &Component{Name: m.Name}
	for _, p := range res.P {
		c.AddVariable(variable(p.Name, p.Units, ""))
	}
	for _, v := range paramVariables(net, false) {
		c.AddVariable(v)
	}
	for _, p := range res.P {
		c.AddEquation(Equation{Variable: p.Name, Expr: FromPoly(p.Expr)})
	}
	m.Components = []*Component{c}
	return m, m.Check()
}
