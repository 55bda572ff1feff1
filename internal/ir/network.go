package ir

import (
	"fmt"
	"math/big"
)

// Component is a named bond-graph element: a species (matrix row) or a
// reaction (matrix column).
type Component struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Direction selects one of the two stoichiometric matrices.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Network is a loaded bond-graph description: species and reactions plus the
// forward (N_f) and reverse (N_r) stoichiometric matrices, indexed
// [species][reaction]. Entries are never nil once loading has succeeded.
type Network struct {
	Name      string       `json:"name"`
	Species   []Component  `json:"species"`
	Reactions []Component  `json:"reactions"`
	Forward   [][]*big.Rat `json:"-"`
	Reverse   [][]*big.Rat `json:"-"`
}

// NewNetwork allocates a network with zero-filled matrices of the right shape.
func NewNetwork(name string, species, reactions []Component) *Network {
	n := &Network{
		Name:      name,
		Species:   append([]Component(nil), species...),
		Reactions: append([]Component(nil), reactions...),
	}
	n.Forward = zeroMatrix(len(species), len(reactions))
	n.Reverse = zeroMatrix(len(species), len(reactions))
	return n
}

func zeroMatrix(rows, cols int) [][]*big.Rat {
	m := make([][]*big.Rat, rows)
	for i := range m {
		m[i] = make([]*big.Rat, cols)
		for j := range m[i] {
			m[i][j] = new(big.Rat)
		}
	}
	return m
}

// Matrix returns N_f or N_r.
func (n *Network) Matrix(d Direction) [][]*big.Rat {
	if d == Reverse {
		return n.Reverse
	}
	return n.Forward
}

// Coeff returns the coefficient of species i in reaction j on side d.
func (n *Network) Coeff(d Direction, i, j int) *big.Rat {
	return n.Matrix(d)[i][j]
}

// NetCoeff returns N_r - N_f for species i in reaction j: the change in the
// amount of species i per unit of forward progress of reaction j.
func (n *Network) NetCoeff(i, j int) *big.Rat {
	return new(big.Rat).Sub(n.Reverse[i][j], n.Forward[i][j])
}

// SpeciesIndex returns the row index of the named species.
func (n *Network) SpeciesIndex(name string) (int, bool) {
	for i, c := range n.Species {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

// ReactionIndex returns the column index of the named reaction.
func (n *Network) ReactionIndex(name string) (int, bool) {
	for j, c := range n.Reactions {
		if c.Name == name {
			return j, true
		}
	}
	return -1, false
}

// SpeciesOfKind returns the row indices of every species of kind k, in
// component order.
func (n *Network) SpeciesOfKind(k Kind) []int {
	var idx []int
	for i, c := range n.Species {
		if c.Kind == k {
			idx = append(idx, i)
		}
	}
	return idx
}

// Participants returns the species indices with a non-zero coefficient in
// reaction j on side d.
func (n *Network) Participants(d Direction, j int) []int {
	var idx []int
	m := n.Matrix(d)
	for i := range n.Species {
		if m[i][j].Sign() != 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Clone returns a deep copy.
func (n *Network) Clone() *Network {
	c := NewNetwork(n.Name, n.Species, n.Reactions)
	for i := range n.Species {
		for j := range n.Reactions {
			c.Forward[i][j].Set(n.Forward[i][j])
			c.Reverse[i][j].Set(n.Reverse[i][j])
		}
	}
	return c
}

// Permute returns a copy with species and reactions reordered. speciesOrder[k]
// is the old row index placed at new row k; reactionOrder likewise for columns.
func (n *Network) Permute(speciesOrder, reactionOrder []int) (*Network, error) {
	if err := checkPermutation(speciesOrder, len(n.Species)); err != nil {
		return nil, fmt.Errorf("species order: %w", err)
	}
	if err := checkPermutation(reactionOrder, len(n.Reactions)); err != nil {
		return nil, fmt.Errorf("reaction order: %w", err)
	}

	species := make([]Component, len(speciesOrder))
	for k, old := range speciesOrder {
		species[k] = n.Species[old]
	}
	reactions := make([]Component, len(reactionOrder))
	for k, old := range reactionOrder {
		reactions[k] = n.Reactions[old]
	}

	p := NewNetwork(n.Name, species, reactions)
	for ni, oi := range speciesOrder {
		for nj, oj := range reactionOrder {
			p.Forward[ni][nj].Set(n.Forward[oi][oj])
			p.Reverse[ni][nj].Set(n.Reverse[oi][oj])
		}
	}
	return p, nil
}

func checkPermutation(order []int, size int) error {
	if len(order) != size {
		return fmt.Errorf("length %d, want %d", len(order), size)
	}
	seen := make([]bool, size)
	for _, v := range order {
		if v < 0 || v >= size || seen[v] {
			return fmt.Errorf("invalid index %d", v)
		}
		seen[v] = true
	}
	return nil
}
