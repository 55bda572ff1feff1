package lump

import (
	"fmt"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
)

// Param is a lumped parameter: a fresh symbol standing for a coefficient of
// the original expression.
type Param struct {
	Name  string    `json:"name"`
	Expr  expr.Poly `json:"expr"`
	Units string    `json:"units"`
}

// Quantity is a symbol left in the simplified expression.
type Quantity struct {
	Name  string `json:"name"`
	Units string `json:"units"`
}

// Group records how one grouping key of the original expression was
// replaced: Sign * Param * Key.
type Group struct {
	Key   expr.Monomial `json:"-"`
	Param string        `json:"param"`
	Sign  int           `json:"sign"`
}

// Result is a simplified flux. Num and Den are polynomials over P and Q
// symbols only.
type Result struct {
	Num       expr.Poly     `json:"num"`
	Den       expr.Poly     `json:"den"`
	P         []Param       `json:"p"`
	Q         []Quantity    `json:"q"`
	NumGroups []Group       `json:"num_groups"`
	DenGroups []Group       `json:"den_groups"`
	Factored  expr.Factored `json:"-"`
}

// IsKeySymbol reports whether a symbol stays in the simplified expression:
// species quantities, the total amount and the voltage factor.
func IsKeySymbol(name string) bool {
	return strings.HasPrefix(name, "q_") || name == bg.TotalAmount || name == expr.VoltageFactor
}

// ParamName returns the i-th lumped parameter symbol.
func ParamName(i int) string { return bg.LumpPrefix + "_" + strconv.Itoa(i) }

// Simplify lumps num and den. Numerator groups are numbered first, then
// denominator groups, from one shared sequence; groups whose coefficients
// coincide after sign normalization share a parameter.
func Simplify(num, den expr.Poly) (*Result, error) {
	if den.IsZero() {
		return nil, expr.ErrZeroDenominator
	}
	for _, s := range append(num.Symbols(), den.Symbols()...) {
		if strings.HasPrefix(s, bg.LumpPrefix+"_") {
			return nil, fmt.Errorf("lump: expression already contains lumped symbol %s", s)
		}
	}

	l := &lumper{index: map[string]int{}}
	res := &Result{}
	res.Num, res.NumGroups = l.lump(num)
	res.Den, res.DenGroups = l.lump(den)
	res.P = l.params
	res.Factored = expr.FactorContent(res.Num)

	seen := map[string]bool{}
	for _, g := range append(res.NumGroups, res.DenGroups...) {
		for _, pw := range g.Key {
			if pw.Name == expr.VoltageFactor || seen[pw.Name] {
				continue
			}
			seen[pw.Name] = true
			res.Q = append(res.Q, Quantity{Name: pw.Name, Units: AmountUnit})
		}
	}
	slices.SortFunc(res.Q, func(a, b Quantity) int { return strings.Compare(a.Name, b.Name) })
	return res, nil
}

type lumper struct {
	params []Param
	index  map[string]int // canonical coefficient text -> params index
}

func (l *lumper) lump(p expr.Poly) (expr.Poly, []Group) {
	type bucket struct {
		key  expr.Monomial
		coef []expr.Poly
	}
	var order []string
	buckets := map[string]*bucket{}
	for _, t := range p.Terms() {
		key := t.Mono.Select(IsKeySymbol)
		rest := t.Mono.Select(func(name string) bool { return !IsKeySymbol(name) })
		k := key.String()
		b, ok := buckets[k]
		if !ok {
			b = &bucket{key: key}
			buckets[k] = b
			order = append(order, k)
		}
		b.coef = append(b.coef, expr.NewTerm(t.Coef, rest))
	}

	var out []expr.Poly
	groups := make([]Group, 0, len(order))
	for _, k := range order {
		b := buckets[k]
		coef := expr.Sum(b.coef...)
		sign := 1
		if coef.Leading().Coef.Sign() < 0 {
			coef, sign = coef.Neg(), -1
		}
		name := l.param(coef)
		groups = append(groups, Group{Key: b.key, Param: name, Sign: sign})
		out = append(out, expr.NewTerm(big.NewRat(int64(sign), 1), b.key.Mul(expr.Mono(name))))
	}
	return expr.Sum(out...), groups
}

func (l *lumper) param(coef expr.Poly) string {
	text := coef.String()
	if i, ok := l.index[text]; ok {
		return l.params[i].Name
	}
	p := Param{Name: ParamName(len(l.params)), Expr: coef, Units: InferUnits(coef)}
	l.index[text] = len(l.params)
	l.params = append(l.params, p)
	return p.Name
}

// Ratio returns Num/Den.
func (r *Result) Ratio() expr.Ratio { return expr.Ratio{Num: r.Num, Den: r.Den} }

// Param returns the lumped parameter with the given name.
func (r *Result) Param(name string) (Param, bool) {
	for _, p := range r.P {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// Expand substitutes every lumped parameter by its coefficient, giving back
// the original numerator and denominator.
func (r *Result) Expand() (num, den expr.Poly) {
	names := make([]string, len(r.P))
	values := make(map[string]expr.Poly, len(r.P))
	for i, p := range r.P {
		names[i] = p.Name
		values[p.Name] = p.Expr
	}
	return r.Num.SubstituteAll(names, values), r.Den.SubstituteAll(names, values)
}

// String renders the simplified flux with the factored numerator.
func (r *Result) String() string {
	num := r.Factored.String()
	if r.Den.IsOne() {
		return num
	}
	if r.Num.Len() > 1 && !strings.HasSuffix(num, ")") {
		num = "(" + num + ")"
	}
	den := r.Den.String()
	if r.Den.Len() > 1 {
		den = "(" + den + ")"
	}
	return num + "/" + den
}
