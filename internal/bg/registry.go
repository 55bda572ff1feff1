package bg

import (
	"fmt"

	"github.com/roach88/bondgraph/internal/ir"
)

// Variable names a domain variable prefix and its units.
type Variable struct {
	Prefix string
	Units  string
}

// Domain is a physical domain.
type Domain struct {
	Name     string
	Effort   Variable
	Flow     Variable
	Quantity Variable
}

var (
	Chemical = Domain{
		Name:     "Ch",
		Effort:   Variable{"mu", "J_per_mol"},
		Flow:     Variable{"v", "fmol_per_sec"},
		Quantity: Variable{"q", "fmol"},
	}
	Electrical = Domain{
		Name:     "E",
		Effort:   Variable{"V", "volt"},
		Flow:     Variable{"I", "fA"},
		Quantity: Variable{"q", "fC"},
	}
)

// KindSpec is the registry entry for a component kind.
type KindSpec struct {
	Kind        ir.Kind
	Description string
	Domain      Domain
	Param       Variable
}

var kinds = map[ir.Kind]KindSpec{
	ir.KindCe:    {ir.KindCe, "Chemical species", Chemical, Variable{"K", "per_fmol"}},
	ir.KindSe:    {ir.KindSe, "Chemostat", Chemical, Variable{"K", "per_fmol"}},
	ir.KindC:     {ir.KindC, "Capacitor", Electrical, Variable{"C", "fF"}},
	ir.KindVe:    {ir.KindVe, "Voltage source", Electrical, Variable{"C", "fF"}},
	ir.KindRe:    {ir.KindRe, "Chemical reaction", Chemical, Variable{"kappa", "fmol_per_sec"}},
	ir.KindReGHK: {ir.KindReGHK, "GHK reaction", Chemical, Variable{"kappa", "fmol_per_sec"}},
	ir.KindR:     {ir.KindR, "Resistor", Electrical, Variable{"g", "fS"}},
}

// Lookup returns the registry entry for k.
func Lookup(k ir.Kind) (KindSpec, error) {
	spec, ok := kinds[k]
	if !ok {
		return KindSpec{}, fmt.Errorf("bond-graph kind %q is not defined", k)
	}
	return spec, nil
}

// MustLookup is like Lookup but panics on an unknown kind. Kinds inside a
// loaded ir.Network are always registered.
func MustLookup(k ir.Kind) KindSpec {
	spec, err := Lookup(k)
	if err != nil {
		panic(err)
	}
	return spec
}

// ParamName is the parameter variable of a component, e.g. K_A or kappa_R1.
func (s KindSpec) ParamName(component string) string {
	return s.Param.Prefix + "_" + component
}

// FlowName is the flow variable of a component, e.g. v_R1 or I_Vm.
func (s KindSpec) FlowName(component string) string {
	return s.Domain.Flow.Prefix + "_" + component
}

// QuantityName is the conserved quantity of a species, e.g. q_A.
func (s KindSpec) QuantityName(component string) string {
	return s.Domain.Quantity.Prefix + "_" + component
}

// EffortName is the effort variable of a species, e.g. mu_A.
func (s KindSpec) EffortName(component string) string {
	return s.Domain.Effort.Prefix + "_" + component
}

// Constant is a physical constant shared by every generated model.
type Constant struct {
	Name  string
	Value float64
	Units string
}

// Constants in declaration order.
var Constants = []Constant{
	{"F", 96485, "C_per_mol"},
	{"R", 8.31, "J_per_K_per_mol"},
	{"T", 293, "kelvin"},
}

// Well-known symbol names used by the steady-state derivation.
const (
	Faraday     = "F"
	GasConstant = "R"
	Temperature = "T"
	Voltage     = "V_m"
	TotalAmount = "E"
	LumpPrefix  = "P"
)
