// Package testutil provides fixture networks and deterministic sample
// points for tests.
package testutil

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/roach88/bondgraph/internal/ir"
)

// Builder assembles a network from reaction equations such as
// "A + S" -> "B" or "2 A" -> "1/2 P".
type Builder struct {
	net       *ir.Network
	species   []ir.Component
	reactions []ir.Component
	sides     [][2]string
}

// NewNetwork starts a network with the given name.
func NewNetwork(name string) *Builder {
	return &Builder{net: &ir.Network{Name: name}}
}

// Species declares species of one kind, in order.
func (b *Builder) Species(kind ir.Kind, names ...string) *Builder {
	for _, n := range names {
		b.species = append(b.species, ir.Component{Name: n, Kind: kind})
	}
	return b
}

// Reaction declares an Re reaction.
func (b *Builder) Reaction(name, forward, reverse string) *Builder {
	return b.ReactionOf(ir.KindRe, name, forward, reverse)
}

// ReactionOf declares a reaction of an explicit kind.
func (b *Builder) ReactionOf(kind ir.Kind, name, forward, reverse string) *Builder {
	b.reactions = append(b.reactions, ir.Component{Name: name, Kind: kind})
	b.sides = append(b.sides, [2]string{forward, reverse})
	return b
}

// Build returns the network. It panics on an equation that names an
// undeclared species; fixtures are static.
func (b *Builder) Build() *ir.Network {
	n := ir.NewNetwork(b.net.Name, b.species, b.reactions)
	for j, sides := range b.sides {
		for d, side := range sides {
			for _, part := range splitSide(side) {
				coeff, name := parsePart(part)
				i, ok := n.SpeciesIndex(name)
				if !ok {
					panic(fmt.Sprintf("testutil: reaction %s names unknown species %q", b.reactions[j].Name, name))
				}
				m := n.Matrix(ir.Direction(d))
				m[i][j].Add(m[i][j], coeff)
			}
		}
	}
	return n
}

func splitSide(side string) []string {
	var parts []string
	for _, p := range strings.Split(side, "+") {
		if p = strings.TrimSpace(p); p != "" && p != "0" {
			parts = append(parts, p)
		}
	}
	return parts
}

func parsePart(part string) (*big.Rat, string) {
	fields := strings.Fields(part)
	if len(fields) == 1 {
		return big.NewRat(1, 1), fields[0]
	}
	c, ok := new(big.Rat).SetString(fields[0])
	if !ok {
		panic(fmt.Sprintf("testutil: bad coefficient in %q", part))
	}
	return c, fields[1]
}

// Enzyme is the two-state enzyme cycle
//
//	R1: A + S -> B
//	R2: B -> A + P
//
// with enzyme states A, B chemodynamic and substrate S, product P
// chemostatic.
func Enzyme() *ir.Network {
	return NewNetwork("enzyme").
		Species(ir.KindCe, "A", "B").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "A + S", "B").
		Reaction("R2", "B", "A + P").
		Build()
}

// ThreeState is a three-state enzyme cycle.
func ThreeState() *ir.Network {
	return NewNetwork("threestate").
		Species(ir.KindCe, "E1", "E2", "E3").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "E1 + S", "E2").
		Reaction("R2", "E2", "E3").
		Reaction("R3", "E3", "E1 + P").
		Build()
}

// Catalyst is one chemodynamic species and one reaction: A + S -> A + P.
// Its reaction graph is a single self-loop.
func Catalyst() *ir.Network {
	return NewNetwork("catalyst").
		Species(ir.KindCe, "A").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "A + S", "A + P").
		Build()
}

// Chemostat is A -> B with A chemostatic and B chemodynamic.
func Chemostat() *ir.Network {
	return NewNetwork("chemostat").
		Species(ir.KindSe, "A").
		Species(ir.KindCe, "B").
		Reaction("R1", "A", "B").
		Build()
}

// Transporter is an electrogenic two-state carrier: the forward step of R1
// moves one charge across the membrane.
func Transporter() *ir.Network {
	return NewNetwork("transporter").
		Species(ir.KindCe, "Z1", "Z2").
		Species(ir.KindSe, "Ao", "Ai").
		Species(ir.KindVe, "Vm").
		Reaction("R1", "Z1 + Ao + Vm", "Z2").
		Reaction("R2", "Z2", "Z1 + Ai").
		Build()
}

// Reversed is Enzyme with R2 written in the opposite direction, so the two
// reactions do not share an orientation around the cycle.
func Reversed() *ir.Network {
	return NewNetwork("reversed").
		Species(ir.KindCe, "A", "B").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "A + S", "B").
		Reaction("R2", "A + P", "B").
		Build()
}

// Branched has two cycles through A, so removing one reaction does not
// leave a spanning tree.
func Branched() *ir.Network {
	return NewNetwork("branched").
		Species(ir.KindCe, "A", "B", "C").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "A + S", "B").
		Reaction("R2", "B", "C").
		Reaction("R3", "C", "A + P").
		Reaction("R4", "A", "C").
		Build()
}

// Dimer has a chemodynamic coefficient of 2, which neither solver accepts.
func Dimer() *ir.Network {
	return NewNetwork("dimer").
		Species(ir.KindCe, "A", "B").
		Reaction("R1", "2 A", "B").
		Reaction("R2", "B", "2 A").
		Build()
}

// Isolated has a chemodynamic species no reaction touches, so the reduced
// linear system is singular.
func Isolated() *ir.Network {
	return NewNetwork("isolated").
		Species(ir.KindCe, "A", "B").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "A + S", "A + P").
		Build()
}
