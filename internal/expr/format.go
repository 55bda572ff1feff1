package expr

import (
	"math/big"
	"strings"
)

// String renders p in infix form with terms in canonical order, e.g.
// "-P_0*q_P + P_1*q_S" or "1/2*x^2 - 3".
func (p Poly) String() string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, t := range p.terms {
		neg := t.Coef.Sign() < 0
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(termString(new(big.Rat).Abs(t.Coef), t.Mono))
	}
	return b.String()
}

// termString renders a non-negative coefficient times a monomial.
func termString(c *big.Rat, m Monomial) string {
	if m.IsOne() {
		return c.RatString()
	}
	if c.Cmp(big.NewRat(1, 1)) == 0 {
		return m.String()
	}
	return c.RatString() + "*" + m.String()
}
