package steady

import (
	"fmt"

	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// SolveLinear derives the steady-state flux by solving the reduced linear
// system for the chemodynamic quantities.
//
// Each rate is affine in the unknowns: v_j = Σ_k a_jk·q_k + b_j. The
// system keeps the balance rows Σ_j N_ij·v_j = 0 for every chemodynamic
// species but the last and closes with Σ_k q_k = E. It is solved by
// Cramer's rule over fraction-free determinants, so every intermediate
// value stays polynomial.
func SolveLinear(m *Model, opts Options) (*Flux, error) {
	opts = opts.withDefaults()
	sel, err := m.SelectReaction(opts.Reaction)
	if err != nil {
		return nil, err
	}
	n := len(m.chemodynamic)
	if n == 0 {
		return nil, &UnsupportedTopologyError{Reason: "network has no chemodynamic species"}
	}
	if n > opts.MaxLinearSpecies {
		return nil, &UnsupportedScaleError{Metric: "chemodynamic species", Value: n, Limit: opts.MaxLinearSpecies}
	}

	a := make([][]expr.Poly, len(m.rates))
	b := make([]expr.Poly, len(m.rates))
	for j, r := range m.rates {
		a[j], b[j], err = m.affineRate(r)
		if err != nil {
			return nil, err
		}
	}

	sys := make([][]expr.Poly, n)
	rhs := make([]expr.Poly, n)
	for row := 0; row < n-1; row++ {
		i := m.chemodynamic[row]
		sys[row] = make([]expr.Poly, n)
		for j := range m.rates {
			c := m.net.NetCoeff(i, j)
			if c.Sign() == 0 {
				continue
			}
			for k := range n {
				sys[row][k] = sys[row][k].Add(a[j][k].Scale(c))
			}
			rhs[row] = rhs[row].Sub(b[j].Scale(c))
		}
		for k := range n {
			if err := opts.checkTerms(sys[row][k].Len()); err != nil {
				return nil, err
			}
		}
	}
	sys[n-1] = make([]expr.Poly, n)
	for k := range n {
		sys[n-1][k] = expr.One()
	}
	rhs[n-1] = total()

	det, err := determinant(sys, opts)
	if err != nil {
		return nil, err
	}
	if det.IsZero() {
		return nil, &DegenerateNetworkError{
			Species:   m.ChemodynamicNames(),
			Reactions: m.reactionNames(),
			Reason:    "reduced steady-state system is singular",
		}
	}

	num := b[sel].Mul(det)
	for k := range n {
		if a[sel][k].IsZero() {
			continue
		}
		dk, err := determinant(replaceColumn(sys, k, rhs), opts)
		if err != nil {
			return nil, err
		}
		num = num.Add(a[sel][k].Mul(dk))
		if err := opts.checkTerms(num.Len()); err != nil {
			return nil, err
		}
	}
	return newFlux(MethodLinear, m.rates[sel].Name, num, det, opts)
}

// affineRate splits v_j into coefficients of the chemodynamic quantities
// and a constant part.
func (m *Model) affineRate(r RateTerm) ([]expr.Poly, expr.Poly, error) {
	a := make([]expr.Poly, len(m.chemodynamic))
	var b expr.Poly
	for _, d := range []ir.Direction{ir.Forward, ir.Reverse} {
		side := r.Side(d)
		i, err := side.single(r.Name, d, m.net)
		if err != nil {
			return nil, expr.Poly{}, err
		}
		term := r.Kappa.Mul(side.Boltzmann)
		if d == ir.Reverse {
			term = term.Neg()
		}
		if i < 0 {
			b = b.Add(term)
			continue
		}
		k := m.position[i]
		a[k] = a[k].Add(term.Mul(expr.Var(Affinity(m.net.Species[i].Name))))
	}
	return a, b, nil
}

func replaceColumn(sys [][]expr.Poly, col int, v []expr.Poly) [][]expr.Poly {
	out := make([][]expr.Poly, len(sys))
	for i, row := range sys {
		out[i] = append([]expr.Poly(nil), row...)
		out[i][col] = v[i]
	}
	return out
}

// determinant computes det(sys) by Bareiss elimination. Every division by
// the previous pivot is exact. Rows are swapped to bring the candidate
// pivot with the fewest terms into place.
func determinant(sys [][]expr.Poly, opts Options) (expr.Poly, error) {
	n := len(sys)
	if n == 0 {
		return expr.One(), nil
	}
	a := make([][]expr.Poly, n)
	for i := range sys {
		a[i] = append([]expr.Poly(nil), sys[i]...)
	}

	negate := false
	prev := expr.One()
	for k := 0; k < n-1; k++ {
		p := -1
		for i := k; i < n; i++ {
			if a[i][k].IsZero() {
				continue
			}
			if p < 0 || a[i][k].Len() < a[p][k].Len() {
				p = i
			}
		}
		if p < 0 {
			return expr.Zero(), nil
		}
		if p != k {
			a[k], a[p] = a[p], a[k]
			negate = !negate
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				cross := a[k][k].Mul(a[i][j]).Sub(a[i][k].Mul(a[k][j]))
				if err := opts.checkTerms(cross.Len()); err != nil {
					return expr.Poly{}, err
				}
				q, ok := expr.DivExact(cross, prev)
				if !ok {
					return expr.Poly{}, fmt.Errorf("steady: inexact elimination step at pivot %d", k)
				}
				a[i][j] = q
			}
			a[i][k] = expr.Zero()
		}
		prev = a[k][k]
	}

	det := a[n-1][n-1]
	if negate {
		det = det.Neg()
	}
	return det, nil
}
