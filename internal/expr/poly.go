package expr

import (
	"math/big"
	"slices"
)

// Term is a coefficient times a monomial.
type Term struct {
	Coef *big.Rat
	Mono Monomial
}

// Poly is a sparse multivariate polynomial over the rationals. The zero
// value is the zero polynomial.
type Poly struct {
	terms []Term
}

// Zero returns 0.
func Zero() Poly { return Poly{} }

// One returns 1.
func One() Poly { return Int(1) }

// Int returns the constant polynomial n.
func Int(n int64) Poly { return Const(big.NewRat(n, 1)) }

// Const returns the constant polynomial c.
func Const(c *big.Rat) Poly { return NewTerm(c, nil) }

// Var returns the polynomial consisting of the symbol name.
func Var(name string) Poly { return VarPow(name, 1) }

// VarPow returns name^exp. VarPow(name, 0) is 1.
func VarPow(name string, exp int) Poly {
	if exp == 0 {
		return One()
	}
	return NewTerm(big.NewRat(1, 1), Monomial{{name, exp}})
}

// NewTerm returns the single-term polynomial c*m.
func NewTerm(c *big.Rat, m Monomial) Poly {
	if c.Sign() == 0 {
		return Poly{}
	}
	return Poly{terms: []Term{{new(big.Rat).Set(c), m}}}
}

// FromMonomial returns 1*m.
func FromMonomial(m Monomial) Poly { return NewTerm(big.NewRat(1, 1), m) }

// build collects raw terms into canonical form: like monomials merged, zero
// coefficients dropped, descending monomial order.
func build(raw []Term) Poly {
	index := make(map[string]int, len(raw))
	merged := make([]Term, 0, len(raw))
	for _, t := range raw {
		if t.Coef.Sign() == 0 {
			continue
		}
		k := t.Mono.key()
		if at, ok := index[k]; ok {
			merged[at].Coef.Add(merged[at].Coef, t.Coef)
			continue
		}
		index[k] = len(merged)
		merged = append(merged, Term{new(big.Rat).Set(t.Coef), t.Mono})
	}
	out := merged[:0]
	for _, t := range merged {
		if t.Coef.Sign() != 0 {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b Term) int { return compareMonomials(b.Mono, a.Mono) })
	if len(out) == 0 {
		return Poly{}
	}
	return Poly{terms: out}
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	out := make([]Term, 0, len(p.terms)+len(q.terms))
	i, j := 0, 0
	for i < len(p.terms) && j < len(q.terms) {
		switch c := compareMonomials(p.terms[i].Mono, q.terms[j].Mono); {
		case c > 0:
			out = append(out, p.terms[i])
			i++
		case c < 0:
			out = append(out, q.terms[j])
			j++
		default:
			s := new(big.Rat).Add(p.terms[i].Coef, q.terms[j].Coef)
			if s.Sign() != 0 {
				out = append(out, Term{s, p.terms[i].Mono})
			}
			i++
			j++
		}
	}
	out = append(out, p.terms[i:]...)
	out = append(out, q.terms[j:]...)
	if len(out) == 0 {
		return Poly{}
	}
	return Poly{terms: out}
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

// Neg returns -p.
func (p Poly) Neg() Poly { return p.Scale(big.NewRat(-1, 1)) }

// Scale returns c*p.
func (p Poly) Scale(c *big.Rat) Poly {
	if c.Sign() == 0 || len(p.terms) == 0 {
		return Poly{}
	}
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{new(big.Rat).Mul(t.Coef, c), t.Mono}
	}
	return Poly{terms: out}
}

// MulTerm returns p * c * m.
func (p Poly) MulTerm(c *big.Rat, m Monomial) Poly {
	if c.Sign() == 0 || len(p.terms) == 0 {
		return Poly{}
	}
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{new(big.Rat).Mul(t.Coef, c), t.Mono.Mul(m)}
	}
	// Multiplying every monomial by the same m preserves their order.
	return Poly{terms: out}
}

// Mul returns p * q.
func (p Poly) Mul(q Poly) Poly {
	switch {
	case len(p.terms) == 0 || len(q.terms) == 0:
		return Poly{}
	case len(q.terms) == 1:
		return p.MulTerm(q.terms[0].Coef, q.terms[0].Mono)
	case len(p.terms) == 1:
		return q.MulTerm(p.terms[0].Coef, p.terms[0].Mono)
	}
	raw := make([]Term, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			raw = append(raw, Term{new(big.Rat).Mul(a.Coef, b.Coef), a.Mono.Mul(b.Mono)})
		}
	}
	return build(raw)
}

// Pow returns p^n for n >= 0.
func (p Poly) Pow(n int) Poly {
	if n < 0 {
		panic("expr: negative exponent")
	}
	result := One()
	base := p
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// Sum adds polynomials.
func Sum(ps ...Poly) Poly {
	var raw []Term
	for _, p := range ps {
		raw = append(raw, p.terms...)
	}
	return build(raw)
}

// Prod multiplies polynomials. Prod() is 1.
func Prod(ps ...Poly) Poly {
	result := One()
	for _, p := range ps {
		result = result.Mul(p)
	}
	return result
}

// IsZero reports whether p is 0.
func (p Poly) IsZero() bool { return len(p.terms) == 0 }

// IsConstant reports whether p has no symbols (0 is constant).
func (p Poly) IsConstant() bool {
	return len(p.terms) == 0 || (len(p.terms) == 1 && p.terms[0].Mono.IsOne())
}

// IsOne reports whether p is exactly 1.
func (p Poly) IsOne() bool {
	return p.IsConstant() && len(p.terms) == 1 && p.terms[0].Coef.Cmp(big.NewRat(1, 1)) == 0
}

// ConstantValue returns the value of a constant polynomial.
func (p Poly) ConstantValue() (*big.Rat, bool) {
	if !p.IsConstant() {
		return nil, false
	}
	if len(p.terms) == 0 {
		return new(big.Rat), true
	}
	return new(big.Rat).Set(p.terms[0].Coef), true
}

// Len is the number of terms.
func (p Poly) Len() int { return len(p.terms) }

// Terms returns a copy of the terms in canonical order.
func (p Poly) Terms() []Term {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		out[i] = Term{new(big.Rat).Set(t.Coef), t.Mono}
	}
	return out
}

// Leading returns the greatest term. It panics on the zero polynomial.
func (p Poly) Leading() Term {
	t := p.terms[0]
	return Term{new(big.Rat).Set(t.Coef), t.Mono}
}

// Equal reports whether p and q are the same polynomial.
func (p Poly) Equal(q Poly) bool {
	if len(p.terms) != len(q.terms) {
		return false
	}
	for i := range p.terms {
		if p.terms[i].Coef.Cmp(q.terms[i].Coef) != 0 || !p.terms[i].Mono.Equal(q.terms[i].Mono) {
			return false
		}
	}
	return true
}

// Symbols returns every symbol in p, sorted by name.
func (p Poly) Symbols() []string {
	seen := map[string]bool{}
	var names []string
	for _, t := range p.terms {
		for _, pw := range t.Mono {
			if !seen[pw.Name] {
				seen[pw.Name] = true
				names = append(names, pw.Name)
			}
		}
	}
	slices.Sort(names)
	return names
}

// Has reports whether name occurs in p.
func (p Poly) Has(name string) bool { return p.Degree(name) > 0 }

// Degree is the highest exponent of name in p.
func (p Poly) Degree(name string) int {
	d := 0
	for _, t := range p.terms {
		d = max(d, t.Mono.Degree(name))
	}
	return d
}

// CoefficientsIn views p as a polynomial in name: the result maps each
// exponent to its coefficient, which is free of name.
func (p Poly) CoefficientsIn(name string) map[int]Poly {
	raw := map[int][]Term{}
	for _, t := range p.terms {
		e := t.Mono.Degree(name)
		raw[e] = append(raw[e], Term{t.Coef, t.Mono.Without(name)})
	}
	out := make(map[int]Poly, len(raw))
	for e, ts := range raw {
		// Removing one symbol from every monomial can reorder them.
		out[e] = build(ts)
	}
	return out
}

// coefficientIn returns the coefficient of name^exp.
func (p Poly) coefficientIn(name string, exp int) Poly {
	var ts []Term
	for _, t := range p.terms {
		if t.Mono.Degree(name) == exp {
			ts = append(ts, Term{t.Coef, t.Mono.Without(name)})
		}
	}
	return build(ts)
}
