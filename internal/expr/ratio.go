package expr

import (
	"errors"
	"math/big"
	"slices"
	"strings"
)

// ErrZeroDenominator is returned when a rational function would divide by 0.
var ErrZeroDenominator = errors.New("expr: zero denominator")

// Ratio is a rational function Num/Den.
type Ratio struct {
	Num Poly
	Den Poly
}

// NewRatio builds num/den, rejecting a zero denominator.
func NewRatio(num, den Poly) (Ratio, error) {
	if den.IsZero() {
		return Ratio{}, ErrZeroDenominator
	}
	return Ratio{Num: num, Den: den}, nil
}

// Normalize scales numerator and denominator so the denominator is
// primitive with a positive leading coefficient. A zero numerator gives 0/1.
func (r Ratio) Normalize() Ratio {
	if r.Num.IsZero() {
		return Ratio{Num: Poly{}, Den: One()}
	}
	c := r.Den.Content()
	if r.Den.terms[0].Coef.Sign() < 0 {
		c.Neg(c)
	}
	inv := new(big.Rat).Inv(c)
	return Ratio{Num: r.Num.Scale(inv), Den: r.Den.Scale(inv)}
}

// Cancel divides out the gcd of numerator and denominator and normalizes.
// The result is the unique lowest-terms representative.
func (r Ratio) Cancel() Ratio {
	out, _ := r.CancelBounded(0)
	return out
}

// CancelBounded is Cancel with the gcd bounded by maxTerms as in
// GCDBounded. On *TermLimitError r is returned normalized but uncancelled.
func (r Ratio) CancelBounded(maxTerms int) (Ratio, error) {
	if r.Num.IsZero() {
		return r.Normalize(), nil
	}
	g, err := GCDBounded(r.Num, r.Den, maxTerms)
	if err != nil {
		return r.Normalize(), err
	}
	if !g.IsOne() {
		r = Ratio{Num: mustDiv(r.Num, g), Den: mustDiv(r.Den, g)}
	}
	return r.Normalize(), nil
}

// Equivalent reports whether two rational functions are equal, by cross
// multiplication. It does not require either side to be cancelled.
func (r Ratio) Equivalent(o Ratio) bool {
	return r.Num.Mul(o.Den).Equal(o.Num.Mul(r.Den))
}

// Equal reports structural equality of numerator and denominator.
func (r Ratio) Equal(o Ratio) bool {
	return r.Num.Equal(o.Num) && r.Den.Equal(o.Den)
}

// Symbols returns every symbol in numerator or denominator, sorted.
func (r Ratio) Symbols() []string {
	names := append(r.Num.Symbols(), r.Den.Symbols()...)
	slices.Sort(names)
	return slices.Compact(names)
}

func (r Ratio) String() string {
	if r.Den.IsOne() {
		return r.Num.String()
	}
	return group(r.Num) + "/" + group(r.Den)
}

func group(p Poly) string {
	s := p.String()
	if p.Len() > 1 || strings.ContainsAny(s, "*/-") {
		return "(" + s + ")"
	}
	return s
}
