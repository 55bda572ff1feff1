package cellml

import (
	"math/big"
	"strconv"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
)

// Node is a MathML content expression.
type Node interface {
	write(w *writer)
}

// Ci is an identifier.
type Ci string

// Cn is a dimensionless numeric literal.
type Cn string

// Apply applies an operator (plus, minus, times, divide, power, exp, ln)
// to its arguments.
type Apply struct {
	Op   string
	Args []Node
}

func (c Ci) write(w *writer) { w.leaf("ci", string(c)) }

func (c Cn) write(w *writer) { w.leaf("cn", string(c), attr{"cellml:units", "dimensionless"}) }

func (a Apply) write(w *writer) {
	w.open("apply")
	w.empty(a.Op)
	for _, arg := range a.Args {
		arg.write(w)
	}
	w.close("apply")
}

// Equation is `Variable = Expr`, or `d(Variable)/d(VOI) = Expr` when VOI
// is set.
type Equation struct {
	Expr     Node
	Variable string
	VOI      string
}

func (eq Equation) write(w *writer) {
	w.open("apply")
	w.empty("eq")
	if eq.VOI != "" {
		w.open("apply")
		w.empty("diff")
		w.open("bvar")
		Ci(eq.VOI).write(w)
		w.close("bvar")
		Ci(eq.Variable).write(w)
		w.close("apply")
	} else {
		Ci(eq.Variable).write(w)
	}
	eq.Expr.write(w)
	w.close("apply")
}

func op(name string, args ...Node) Node { return Apply{Op: name, Args: args} }

// Times multiplies factors; a single factor is returned unchanged.
func Times(factors ...Node) Node {
	if len(factors) == 1 {
		return factors[0]
	}
	return op("times", factors...)
}

// Minus negates a or subtracts b from a.
func Minus(a Node, b ...Node) Node { return op("minus", append([]Node{a}, b...)...) }

// Divide is a/b.
func Divide(a, b Node) Node { return op("divide", a, b) }

// Exp is e^a.
func Exp(a Node) Node { return op("exp", a) }

// Ln is the natural logarithm.
func Ln(a Node) Node { return op("ln", a) }

// Number renders an exact rational. Non-integers become a quotient of two
// integer literals.
func Number(r *big.Rat) Node {
	if r.IsInt() {
		return Cn(r.Num().String())
	}
	return Divide(Cn(r.Num().String()), Cn(r.Denom().String()))
}

// Float renders a floating-point literal in the shortest exact form.
func Float(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// VoltageFactor is exp(F*V_m/(R*T)).
func VoltageFactor() Node {
	return Exp(Divide(
		Times(Ci(bg.Faraday), Ci(bg.Voltage)),
		Times(Ci(bg.GasConstant), Ci(bg.Temperature)),
	))
}

// FromMonomial renders a product of powers. The voltage factor atom is
// expanded to its exponential.
func FromMonomial(m expr.Monomial) []Node {
	factors := make([]Node, 0, len(m))
	for _, p := range m {
		var base Node = Ci(p.Name)
		if p.Name == expr.VoltageFactor {
			base = VoltageFactor()
		}
		if p.Exp != 1 {
			base = op("power", base, Cn(strconv.Itoa(p.Exp)))
		}
		factors = append(factors, base)
	}
	return factors
}

func termNode(c *big.Rat, m expr.Monomial) Node {
	factors := FromMonomial(m)
	if c.Cmp(big.NewRat(1, 1)) != 0 || len(factors) == 0 {
		factors = append([]Node{Number(c)}, factors...)
	}
	return Times(factors...)
}

// FromPoly renders a polynomial with terms in canonical order. Negative
// terms are unary minus inside one n-ary plus, except that a-b is written
// as a binary minus.
func FromPoly(p expr.Poly) Node {
	terms := p.Terms()
	if len(terms) == 0 {
		return Cn("0")
	}
	nodes := make([]Node, len(terms))
	for i, t := range terms {
		abs := new(big.Rat).Abs(t.Coef)
		nodes[i] = termNode(abs, t.Mono)
		if t.Coef.Sign() < 0 && !(len(terms) == 2 && i == 1 && terms[0].Coef.Sign() > 0) {
			nodes[i] = Minus(nodes[i])
		}
	}
	switch {
	case len(nodes) == 1:
		return nodes[0]
	case len(terms) == 2 && terms[0].Coef.Sign() > 0 && terms[1].Coef.Sign() < 0:
		return Minus(nodes[0], nodes[1])
	}
	return op("plus", nodes...)
}

// FromRatio renders num/den, or num alone when den is 1.
func FromRatio(r expr.Ratio) Node {
	if r.Den.IsOne() {
		return FromPoly(r.Num)
	}
	return Divide(FromPoly(r.Num), FromPoly(r.Den))
}

// FromFactored renders Coef * Mono * Rest keeping the factors apart.
func FromFactored(f expr.Factored) Node {
	if f.Rest.IsZero() {
		return Cn("0")
	}
	rest := f.Rest
	neg := false
	if v, ok := rest.ConstantValue(); ok && v.Sign() < 0 {
		neg, rest = true, rest.Neg()
	}

	var factors []Node
	if f.Coef.Cmp(big.NewRat(1, 1)) != 0 {
		factors = append(factors, Number(f.Coef))
	}
	factors = append(factors, FromMonomial(f.Mono)...)
	if !rest.IsOne() || len(factors) == 0 {
		factors = append(factors, FromPoly(rest))
	}
	n := Times(factors...)
	if neg {
		return Minus(n)
	}
	return n
}
