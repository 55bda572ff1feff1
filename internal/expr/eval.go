package expr

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Substitute replaces every occurrence of name with value.
func (p Poly) Substitute(name string, value Poly) Poly {
	if !p.Has(name) {
		return p
	}
	powers := map[int]Poly{}
	var parts []Poly
	var untouched []Term
	for _, t := range p.terms {
		e := t.Mono.Degree(name)
		if e == 0 {
			untouched = append(untouched, t)
			continue
		}
		pw, ok := powers[e]
		if !ok {
			pw = value.Pow(e)
			powers[e] = pw
		}
		parts = append(parts, pw.MulTerm(t.Coef, t.Mono.Without(name)))
	}
	parts = append(parts, build(untouched))
	return Sum(parts...)
}

// SubstituteAll applies Substitute for each binding. Bindings are applied
// one after another in the order given by names.
func (p Poly) SubstituteAll(names []string, values map[string]Poly) Poly {
	for _, n := range names {
		p = p.Substitute(n, values[n])
	}
	return p
}

// Env binds symbols to floating-point values for evaluation. The voltage
// factor is computed from F, V_m, R and T when it is not bound directly.
type Env map[string]float64

// Lookup returns the value of a symbol.
func (e Env) Lookup(name string) (float64, error) {
	if v, ok := e[name]; ok {
		return v, nil
	}
	if name == VoltageFactor {
		f, okF := e["F"]
		vm, okV := e["V_m"]
		r, okR := e["R"]
		t, okT := e["T"]
		if okF && okV && okR && okT {
			return math.Exp(f * vm / (r * t)), nil
		}
	}
	return 0, fmt.Errorf("expr: no value for symbol %s", name)
}

// Eval evaluates p in env.
func (p Poly) Eval(env Env) (float64, error) {
	total := 0.0
	for _, t := range p.terms {
		c, _ := t.Coef.Float64()
		for _, pw := range t.Mono {
			v, err := env.Lookup(pw.Name)
			if err != nil {
				return 0, err
			}
			c *= math.Pow(v, float64(pw.Exp))
		}
		total += c
	}
	return total, nil
}

// Eval evaluates r in env.
func (r Ratio) Eval(env Env) (float64, error) {
	n, err := r.Num.Eval(env)
	if err != nil {
		return 0, err
	}
	d, err := r.Den.Eval(env)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, ErrZeroDenominator
	}
	return n / d, nil
}

// ParseRat parses an exact rational literal: integers, decimals, fractions
// and exponent notation.
func ParseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("invalid number %q", s)
	}
	return r, nil
}
