package cellml

import (
	"fmt"
	"slices"

	"github.com/roach88/bondgraph/internal/bg"
)

// Interface values for variables.
const (
	InterfacePublic           = "public"
	InterfacePublicAndPrivate = "public_and_private"
)

// Variable is a CellML variable. Initial is either a literal value or the
// name of another variable in the same component; empty means unset.
type Variable struct {
	Name      string
	Units     string
	Initial   string
	Interface string
}

// Component holds variables and the equations over them.
type Component struct {
	Name      string
	Variables []Variable
	Equations []Equation
}

// Variable returns the named variable.
func (c *Component) Variable(name string) (Variable, bool) {
	for _, v := range c.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}

// AddVariable appends v unless a variable of the same name already exists.
func (c *Component) AddVariable(v Variable) {
	if _, ok := c.Variable(v.Name); ok {
		return
	}
	c.Variables = append(c.Variables, v)
}

// AddEquation appends an equation.
func (c *Component) AddEquation(eq Equation) {
	c.Equations = append(c.Equations, eq)
}

// ImportedComponent brings component Ref of the imported model in as Name.
type ImportedComponent struct {
	Name string
	Ref  string
}

// Import references another model document by relative path.
type Import struct {
	Href       string
	Units      []string
	Components []ImportedComponent
}

// Mapping equates one variable of each connected component.
type Mapping struct {
	Variable1 string
	Variable2 string
}

// Connection joins two components.
type Connection struct {
	Component1 string
	Component2 string
	Mappings   []Mapping
}

// Model is one CellML document.
type Model struct {
	Name        string
	Imports     []Import
	Units       []bg.Units
	Components  []*Component
	Connections []Connection
}

// FileName is the name the model is written under.
func (m *Model) FileName() string { return m.Name + ".cellml" }

// Component returns the named local component.
func (m *Model) Component(name string) (*Component, bool) {
	for _, c := range m.Components {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// UnitsUsed returns every non-builtin unit name referenced by a local
// variable, sorted.
func (m *Model) UnitsUsed() []string {
	var names []string
	for _, c := range m.Components {
		for _, v := range c.Variables {
			u, err := bg.LookupUnits(v.Units)
			if err == nil && u.Builtin {
				continue
			}
			names = append(names, v.Units)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ImportUnits adds an import of every unit the model uses from the units
// model.
func (m *Model) ImportUnits(units *Model) {
	names := m.UnitsUsed()
	if len(names) == 0 {
		return
	}
	m.Imports = append(m.Imports, Import{Href: units.FileName(), Units: names})
}

// Check reports variables whose units cannot be resolved and equations
// assigned to undeclared variables.
func (m *Model) Check() error {
	for _, c := range m.Components {
		for _, v := range c.Variables {
			if _, err := bg.LookupUnits(v.Units); err != nil {
				return fmt.Errorf("model %s: variable %s: %w", m.Name, v.Name, err)
			}
		}
		for _, eq := range c.Equations {
			if _, ok := c.Variable(eq.Variable); !ok {
				return fmt.Errorf("model %s: component %s: equation for undeclared variable %s", m.Name, c.Name, eq.Variable)
			}
		}
	}
	return nil
}
