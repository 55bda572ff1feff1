package steady

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// Quantity is the amount symbol of a species, q_<name>.
func Quantity(species string) string { return bg.MustLookup(ir.KindCe).Domain.Quantity.Prefix + "_" + species }

// Affinity is the thermodynamic constant symbol of a species, K_<name>.
func Affinity(species string) string { return bg.MustLookup(ir.KindCe).ParamName(species) }

// Kappa is the rate constant symbol of a reaction, kappa_<name>.
func Kappa(reaction string) string { return bg.MustLookup(ir.KindRe).ParamName(reaction) }

// Side is one direction of a reaction, split into the part fixed by the
// boundary and the chemodynamic species that vary.
type Side struct {
	// Boltzmann is exp(Σ n·μ/(R·T)) over the chemostatic and electrogenic
	// species of the side, which is Π (K q)^n · exp(F·V_m/(R·T))^m.
	Boltzmann expr.Poly

	// Chemodynamic holds network species indices with a non-zero
	// coefficient, in component order.
	Chemodynamic []int

	// Coeffs holds the stoichiometric coefficient of each entry of
	// Chemodynamic.
	Coeffs []*big.Rat
}

// RateTerm is the mass-action description of one reaction:
// v = kappa·(B_f·x_f − B_r·x_r).
type RateTerm struct {
	Index   int
	Name    string
	Kind    ir.Kind
	Kappa   expr.Poly
	Forward Side
	Reverse Side
}

// Side returns the forward or reverse side.
func (r RateTerm) Side(d ir.Direction) Side {
	if d == ir.Reverse {
		return r.Reverse
	}
	return r.Forward
}

// Model is the symbolic view of a network: symbol assignment, species
// classification and per-reaction rate terms. A Model is immutable.
type Model struct {
	net          *ir.Network
	chemostatic  []int
	chemodynamic []int
	electrogenic []int
	position     map[int]int
	rates        []RateTerm
}

// NewModel classifies the species of net and builds its rate terms.
//
// Chemostatic and electrogenic coefficients become exponents and must be
// integers. Capacitors carry no chemical potential and may not take part
// in a reaction.
func NewModel(net *ir.Network) (*Model, error) {
	if net == nil {
		return nil, errors.New("steady: nil network")
	}
	m := &Model{net: net, position: map[int]int{}}
	for i, s := range net.Species {
		switch s.Kind {
		case ir.KindSe:
			m.chemostatic = append(m.chemostatic, i)
		case ir.KindCe:
			m.position[i] = len(m.chemodynamic)
			m.chemodynamic = append(m.chemodynamic, i)
		case ir.KindVe:
			m.electrogenic = append(m.electrogenic, i)
		}
	}

	for j, r := range net.Reactions {
		term := RateTerm{Index: j, Name: r.Name, Kind: r.Kind, Kappa: expr.Var(Kappa(r.Name))}
		for _, d := range []ir.Direction{ir.Forward, ir.Reverse} {
			side, err := m.buildSide(d, j)
			if err != nil {
				return nil, err
			}
			if d == ir.Forward {
				term.Forward = side
			} else {
				term.Reverse = side
			}
		}
		m.rates = append(m.rates, term)
	}
	return m, nil
}

func (m *Model) buildSide(d ir.Direction, j int) (Side, error) {
	side := Side{Boltzmann: expr.One()}
	voltage := 0
	for _, i := range m.net.Participants(d, j) {
		s := m.net.Species[i]
		c := m.net.Coeff(d, i, j)
		switch s.Kind {
		case ir.KindCe:
			side.Chemodynamic = append(side.Chemodynamic, i)
			side.Coeffs = append(side.Coeffs, new(big.Rat).Set(c))
		case ir.KindSe:
			n, err := integerExponent(c, m.net.Reactions[j].Name, s.Name)
			if err != nil {
				return Side{}, err
			}
			side.Boltzmann = side.Boltzmann.Mul(expr.FromMonomial(expr.Monomial{
				{Name: Affinity(s.Name), Exp: n},
				{Name: Quantity(s.Name), Exp: n},
			}))
		case ir.KindVe:
			n, err := integerExponent(c, m.net.Reactions[j].Name, s.Name)
			if err != nil {
				return Side{}, err
			}
			voltage += n
		default:
			return Side{}, &UnsupportedTopologyError{
				Reaction: m.net.Reactions[j].Name,
				Species:  s.Name,
				Reason:   fmt.Sprintf("%s species has no chemical potential", s.Kind),
			}
		}
	}
	if voltage > 0 {
		side.Boltzmann = side.Boltzmann.Mul(expr.VarPow(expr.VoltageFactor, voltage))
	}
	return side, nil
}

func integerExponent(c *big.Rat, reaction, species string) (int, error) {
	if !c.IsInt() || !c.Num().IsInt64() || c.Num().Int64() > 64 {
		return 0, &UnsupportedTopologyError{
			Reaction: reaction,
			Species:  species,
			Reason:   fmt.Sprintf("coefficient %s is not a small integer", c.RatString()),
		}
	}
	return int(c.Num().Int64()), nil
}

// Network returns the network the model was built from.
func (m *Model) Network() *ir.Network { return m.net }

// Chemostatic returns the species indices of Se species.
func (m *Model) Chemostatic() []int { return append([]int(nil), m.chemostatic...) }

// Chemodynamic returns the species indices of Ce species.
func (m *Model) Chemodynamic() []int { return append([]int(nil), m.chemodynamic...) }

// Electrogenic returns the species indices of Ve species.
func (m *Model) Electrogenic() []int { return append([]int(nil), m.electrogenic...) }

// ChemodynamicNames returns the names of the Ce species in component order.
func (m *Model) ChemodynamicNames() []string {
	names := make([]string, len(m.chemodynamic))
	for k, i := range m.chemodynamic {
		names[k] = m.net.Species[i].Name
	}
	return names
}

// RateTerms returns one rate term per reaction, in reaction order.
func (m *Model) RateTerms() []RateTerm { return append([]RateTerm(nil), m.rates...) }

// Position returns the index of species i among the chemodynamic species.
func (m *Model) Position(i int) (int, bool) {
	p, ok := m.position[i]
	return p, ok
}

// SelectReaction resolves a reaction name; empty selects the first.
func (m *Model) SelectReaction(name string) (int, error) {
	if len(m.rates) == 0 {
		return 0, &UnsupportedTopologyError{Reason: "network has no reactions"}
	}
	if name == "" {
		return 0, nil
	}
	j, ok := m.net.ReactionIndex(name)
	if !ok {
		return 0, fmt.Errorf("steady: unknown reaction %q", name)
	}
	return j, nil
}

func (m *Model) reactionNames() []string {
	names := make([]string, len(m.net.Reactions))
	for j, r := range m.net.Reactions {
		names[j] = r.Name
	}
	return names
}

// single returns the one chemodynamic species of a side, or -1 when the
// side has none. More than one, or a coefficient other than 1, makes the
// rate non-linear in the unknowns.
func (s Side) single(reaction string, d ir.Direction, net *ir.Network) (int, error) {
	switch len(s.Chemodynamic) {
	case 0:
		return -1, nil
	case 1:
		if s.Coeffs[0].Cmp(big.NewRat(1, 1)) != 0 {
			return 0, &UnsupportedTopologyError{
				Reaction: reaction,
				Species:  net.Species[s.Chemodynamic[0]].Name,
				Reason:   fmt.Sprintf("chemodynamic coefficient %s on the %s side is not 1", s.Coeffs[0].RatString(), d),
			}
		}
		return s.Chemodynamic[0], nil
	default:
		return 0, &UnsupportedTopologyError{
			Reaction: reaction,
			Reason:   fmt.Sprintf("%d chemodynamic species on the %s side", len(s.Chemodynamic), d),
		}
	}
}
