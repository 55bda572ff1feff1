// Package numeric evaluates steady-state expressions in floating point and
// solves the steady-state system directly with LU decomposition, so that
// symbolic results can be checked against an independent computation.
package numeric

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/steady"
)

// ErrSingular is returned when the reduced system has no unique solution at
// the evaluation point.
var ErrSingular = errors.New("numeric: steady-state system is singular")

// Evaluate returns r at env.
func Evaluate(r expr.Ratio, env expr.Env) (float64, error) {
	return r.Eval(env)
}

// Solution is a numeric steady state.
type Solution struct {
	// Quantities holds q for each chemodynamic species, in component order.
	Quantities []float64

	// Fluxes holds the rate of each reaction, in reaction order.
	Fluxes []float64
}

// SteadyState solves the reduced balance system of m at env. The system is
// the one the linear solver builds symbolically.
func SteadyState(m *steady.Model, env expr.Env) (*Solution, error) {
	n := len(m.Chemodynamic())
	if n == 0 {
		return nil, &steady.UnsupportedTopologyError{Reason: "network has no chemodynamic species"}
	}
	net := m.Network()
	rates := m.RateTerms()

	a := mat.NewDense(len(rates), n, nil)
	b := mat.NewVecDense(len(rates), nil)
	for j, r := range rates {
		if err := affineRate(m, r, env, a.RawRowView(j), b, j); err != nil {
			return nil, err
		}
	}

	sys := mat.NewDense(n, n, nil)
	rhs := mat.NewVecDense(n, nil)
	for row, i := range m.Chemodynamic()[:n-1] {
		for j := range rates {
			c, _ := net.NetCoeff(i, j).Float64()
			if c == 0 {
				continue
			}
			for k := range n {
				sys.Set(row, k, sys.At(row, k)+c*a.At(j, k))
			}
			rhs.SetVec(row, rhs.AtVec(row)-c*b.AtVec(j))
		}
	}
	total, err := env.Lookup(bg.TotalAmount)
	if err != nil {
		return nil, err
	}
	for k := range n {
		sys.Set(n-1, k, 1)
	}
	rhs.SetVec(n-1, total)

	var lu mat.LU
	lu.Factorize(sys)
	if lu.Det() == 0 {
		return nil, ErrSingular
	}
	var q mat.VecDense
	if err := lu.SolveVecTo(&q, false, rhs); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return nil, fmt.Errorf("%w: %v", ErrSingular, err)
		}
	}

	var v mat.VecDense
	v.MulVec(a, &q)
	v.AddVec(&v, b)
	return &Solution{Quantities: q.RawVector().Data, Fluxes: v.RawVector().Data}, nil
}

// SteadyStateFlux returns the numeric flux of one reaction; empty selects
// the first.
func SteadyStateFlux(m *steady.Model, reaction string, env expr.Env) (float64, error) {
	j, err := m.SelectReaction(reaction)
	if err != nil {
		return 0, err
	}
	sol, err := SteadyState(m, env)
	if err != nil {
		return 0, err
	}
	return sol.Fluxes[j], nil
}

// affineRate writes the coefficients of v_j in the chemodynamic quantities
// into row and the constant part into b[j].
func affineRate(m *steady.Model, r steady.RateTerm, env expr.Env, row []float64, b *mat.VecDense, j int) error {
	kappa, err := r.Kappa.Eval(env)
	if err != nil {
		return err
	}
	for _, d := range []ir.Direction{ir.Forward, ir.Reverse} {
		side := r.Side(d)
		boltz, err := side.Boltzmann.Eval(env)
		if err != nil {
			return err
		}
		term := kappa * boltz
		if d == ir.Reverse {
			term = -term
		}
		switch len(side.Chemodynamic) {
		case 0:
			b.SetVec(j, b.AtVec(j)+term)
		case 1:
			if side.Coeffs[0].Cmp(big.NewRat(1, 1)) != 0 {
				return &steady.UnsupportedTopologyError{Reaction: r.Name, Reason: "chemodynamic coefficient is not 1"}
			}
			i := side.Chemodynamic[0]
			k, _ := m.Position(i)
			affinity, err := env.Lookup(steady.Affinity(m.Network().Species[i].Name))
			if err != nil {
				return err
			}
			row[k] += term * affinity
		default:
			return &steady.UnsupportedTopologyError{Reaction: r.Name, Reason: "more than one chemodynamic species on one side"}
		}
	}
	return nil
}

// Symbols returns every free symbol the steady state of m depends on,
// sorted. The voltage factor is replaced by V_m and the physical constants.
func Symbols(m *steady.Model) []string {
	names := []string{bg.TotalAmount}
	net := m.Network()
	for _, i := range m.Chemodynamic() {
		names = append(names, steady.Affinity(net.Species[i].Name))
	}
	for _, r := range m.RateTerms() {
		names = append(names, r.Kappa.Symbols()...)
		names = append(names, r.Forward.Boltzmann.Symbols()...)
		names = append(names, r.Reverse.Boltzmann.Symbols()...)
	}
	return expandSymbols(names)
}

func expandSymbols(names []string) []string {
	var out []string
	for _, s := range names {
		if s == expr.VoltageFactor {
			out = append(out, bg.Voltage, bg.Faraday, bg.GasConstant, bg.Temperature)
			continue
		}
		out = append(out, s)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// Physical returns the registry constants as an environment.
func Physical() expr.Env {
	env := expr.Env{}
	for _, c := range bg.Constants {
		env[c.Name] = c.Value
	}
	return env
}

// SamplePoints returns n deterministic evaluation points over symbols.
// Physical constants take their registry values; V_m is drawn from
// [-0.05, 0.05) so the voltage factor stays well conditioned; every other
// symbol is drawn from [0.5, 2).
func SamplePoints(symbols []string, n int, seed uint64) []expr.Env {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	constants := Physical()
	points := make([]expr.Env, n)
	for k := range points {
		env := Physical()
		for _, s := range symbols {
			if _, ok := constants[s]; ok || s == expr.VoltageFactor {
				continue
			}
			if s == bg.Voltage {
				env[s] = rng.Float64()*0.1 - 0.05
				continue
			}
			env[s] = 0.5 + 1.5*rng.Float64()
		}
		points[k] = env
	}
	return points
}

// Check is one comparison of a symbolic flux against the numeric solve.
type Check struct {
	Point    expr.Env `json:"point"`
	Symbolic float64  `json:"symbolic"`
	Numeric  float64  `json:"numeric"`
	RelErr   float64  `json:"rel_err"`
}

// CrossCheck evaluates flux and the numeric steady state at every point and
// reports the relative error of each. It returns an error only when a
// point cannot be evaluated.
func CrossCheck(m *steady.Model, flux *steady.Flux, points []expr.Env) ([]Check, error) {
	checks := make([]Check, 0, len(points))
	for i, env := range points {
		s, err := Evaluate(flux.Ratio, env)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		v, err := SteadyStateFlux(m, flux.Reaction, env)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		checks = append(checks, Check{Point: env, Symbolic: s, Numeric: v, RelErr: relErr(s, v)})
	}
	return checks, nil
}

// MaxRelErr returns the largest relative error among checks.
func MaxRelErr(checks []Check) float64 {
	worst := 0.0
	for _, c := range checks {
		worst = max(worst, c.RelErr)
	}
	return worst
}

func relErr(a, b float64) float64 {
	scale := max(math.Abs(a), math.Abs(b))
	if scale == 0 {
		return 0
	}
	return math.Abs(a-b) / scale
}
