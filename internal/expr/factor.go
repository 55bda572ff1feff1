package expr

import (
	"math/big"
	"strings"
)

// Factored is Coef * Mono * Rest, the content-extracted form of a
// polynomial. Rest has coprime integer coefficients and no monomial factor.
type Factored struct {
	Coef *big.Rat
	Mono Monomial
	Rest Poly
}

// FactorContent pulls the positive numeric content and the common monomial
// out of p. FactorContent(0) has a zero coefficient and Rest 0.
func FactorContent(p Poly) Factored {
	if p.IsZero() {
		return Factored{Coef: new(big.Rat), Rest: Poly{}}
	}
	c := p.Content()
	m := p.MonomialContent()
	rest, ok := DivExact(p.Scale(new(big.Rat).Inv(c)), FromMonomial(m))
	if !ok {
		panic("expr: monomial content does not divide " + p.String())
	}
	return Factored{Coef: c, Mono: m, Rest: rest}
}

// Expand multiplies the factors back together.
func (f Factored) Expand() Poly {
	return f.Rest.MulTerm(f.Coef, f.Mono)
}

func (f Factored) String() string {
	if f.Rest.IsZero() {
		return "0"
	}
	rest := f.Rest
	neg := false
	if v, ok := rest.ConstantValue(); ok && v.Sign() < 0 {
		neg = true
		rest = rest.Neg()
	}

	var parts []string
	if f.Coef.Cmp(big.NewRat(1, 1)) != 0 {
		parts = append(parts, f.Coef.RatString())
	}
	if !f.Mono.IsOne() {
		parts = append(parts, f.Mono.String())
	}
	switch {
	case rest.Len() > 1 && len(parts) > 0:
		parts = append(parts, "("+rest.String()+")")
	case !rest.IsOne() || len(parts) == 0:
		parts = append(parts, rest.String())
	}

	s := strings.Join(parts, "*")
	if neg {
		s = "-" + s
	}
	return s
}
