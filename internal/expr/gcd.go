package expr

import (
	"fmt"
	"math/big"
	"math/rand/v2"
	"slices"
)

// DivExact returns p / d when d divides p exactly over the rationals.
// Division by zero reports false.
func DivExact(p, d Poly) (Poly, bool) {
	if d.IsZero() {
		return Poly{}, false
	}
	if p.IsZero() {
		return Poly{}, true
	}
	lead := d.terms[0]
	if len(d.terms) == 1 {
		out := make([]Term, len(p.terms))
		for i, t := range p.terms {
			m, ok := t.Mono.Div(lead.Mono)
			if !ok {
				return Poly{}, false
			}
			out[i] = Term{new(big.Rat).Quo(t.Coef, lead.Coef), m}
		}
		return Poly{terms: out}, true
	}

	var quotient []Term
	r := p
	for !r.IsZero() {
		lt := r.terms[0]
		m, ok := lt.Mono.Div(lead.Mono)
		if !ok {
			return Poly{}, false
		}
		c := new(big.Rat).Quo(lt.Coef, lead.Coef)
		quotient = append(quotient, Term{c, m})
		r = r.Sub(d.MulTerm(c, m))
	}
	// Leading terms were produced in strictly decreasing order.
	return Poly{terms: quotient}, true
}

// Content returns the positive rational c such that p/c has coprime integer
// coefficients. Content of 0 is 0.
func (p Poly) Content() *big.Rat {
	if p.IsZero() {
		return new(big.Rat)
	}
	num := new(big.Int)
	den := big.NewInt(1)
	for _, t := range p.terms {
		num.GCD(nil, nil, num, new(big.Int).Abs(t.Coef.Num()))
		g := new(big.Int).GCD(nil, nil, den, t.Coef.Denom())
		den.Mul(den, t.Coef.Denom())
		den.Quo(den, g)
	}
	return new(big.Rat).SetFrac(num, den)
}

// MonomialContent returns the largest monomial dividing every term.
func (p Poly) MonomialContent() Monomial {
	if p.IsZero() {
		return nil
	}
	m := p.terms[0].Mono
	for _, t := range p.terms[1:] {
		m = m.GCD(t.Mono)
		if m.IsOne() {
			break
		}
	}
	return m
}

// Primitive returns p scaled to coprime integer coefficients with a
// positive leading coefficient. Primitive of 0 is 0.
func (p Poly) Primitive() Poly {
	if p.IsZero() {
		return p
	}
	c := p.Content()
	if p.terms[0].Coef.Sign() < 0 {
		c.Neg(c)
	}
	return p.Scale(new(big.Rat).Inv(c))
}

// workFactor scales a term ceiling into the budget of term products a
// bounded gcd may spend.
const workFactor = 64

// TermLimitError reports a bounded gcd that outgrew its ceiling. Metric is
// "gcd terms" for an intermediate polynomial that is too large and "gcd
// work" for an exhausted budget of term products.
type TermLimitError struct {
	Metric string
	Value  int
	Limit  int
}

func (e *TermLimitError) Error() string {
	return fmt.Sprintf("expr: %s %d exceeds limit %d", e.Metric, e.Value, e.Limit)
}

// GCD returns the greatest common divisor of p and q, normalized with
// Primitive. GCD(0, 0) is 0; a constant gcd is 1.
func GCD(p, q Poly) Poly {
	g, _ := GCDBounded(p, q, 0)
	return g
}

// GCDBounded is GCD with a ceiling on the terms of every intermediate
// polynomial and on the total work, 64*maxTerms term products.
// Exceeding either returns *TermLimitError. A maxTerms of 0 or less is
// unbounded and never fails.
func GCDBounded(p, q Poly, maxTerms int) (Poly, error) {
	s := &gcdRun{limit: maxTerms, budget: maxTerms * workFactor}
	return s.gcd(p, q)
}

// gcdRun carries the ceilings of one gcd computation.
type gcdRun struct {
	limit  int
	budget int
	work   int
}

func (s *gcdRun) charge(n int) error {
	if s.limit <= 0 {
		return nil
	}
	s.work += n
	if s.work > s.budget {
		return &TermLimitError{Metric: "gcd work", Value: s.work, Limit: s.budget}
	}
	return nil
}

func (s *gcdRun) check(p Poly) error {
	if s.limit > 0 && p.Len() > s.limit {
		return &TermLimitError{Metric: "gcd terms", Value: p.Len(), Limit: s.limit}
	}
	return nil
}

func (s *gcdRun) mul(a, b Poly) (Poly, error) {
	if err := s.charge(a.Len() * b.Len()); err != nil {
		return Poly{}, err
	}
	out := a.Mul(b)
	return out, s.check(out)
}

func (s *gcdRun) div(p, d Poly) (Poly, error) {
	if err := s.charge(p.Len() * d.Len()); err != nil {
		return Poly{}, err
	}
	return mustDiv(p, d), nil
}

func (s *gcdRun) gcd(p, q Poly) (Poly, error) {
	switch {
	case p.IsZero():
		return q.Primitive(), nil
	case q.IsZero():
		return p.Primitive(), nil
	case p.IsConstant() || q.IsConstant():
		return One(), nil
	case len(p.terms) == 1:
		return FromMonomial(p.terms[0].Mono.GCD(q.MonomialContent())), nil
	case len(q.terms) == 1:
		return FromMonomial(q.terms[0].Mono.GCD(p.MonomialContent())), nil
	}

	// Monomial factors split off: neither remaining part has one.
	mp, mq := p.MonomialContent(), q.MonomialContent()
	mono := FromMonomial(mp.GCD(mq))
	p = mustDiv(p, FromMonomial(mp)).Primitive()
	q = mustDiv(q, FromMonomial(mq)).Primitive()

	if ok, err := s.coprime(p, q); err != nil || ok {
		return mono, err
	}
	if g, ok, err := s.divides(p, q); err != nil || ok {
		return mono.Mul(g).Primitive(), err
	}

	g, err := s.multivariate(p, q)
	if err != nil {
		return Poly{}, err
	}
	return mono.Mul(g).Primitive(), nil
}

// divides tries the smaller of p and q as a divisor of the other.
func (s *gcdRun) divides(p, q Poly) (Poly, bool, error) {
	if p.Len() > q.Len() {
		p, q = q, p
	}
	if err := s.charge(p.Len() * q.Len()); err != nil {
		return Poly{}, false, err
	}
	if _, ok := DivExact(q, p); ok {
		return p.Primitive(), true, nil
	}
	return Poly{}, false, nil
}

func (s *gcdRun) multivariate(p, q Poly) (Poly, error) {
	x := mainVariable(p, q)
	switch {
	case !p.Has(x):
		c, err := s.contentIn(q, x)
		if err != nil {
			return Poly{}, err
		}
		return s.gcd(p, c)
	case !q.Has(x):
		c, err := s.contentIn(p, x)
		if err != nil {
			return Poly{}, err
		}
		return s.gcd(c, q)
	}

	cp, err := s.contentIn(p, x)
	if err != nil {
		return Poly{}, err
	}
	cq, err := s.contentIn(q, x)
	if err != nil {
		return Poly{}, err
	}
	pp, err := s.div(p, cp)
	if err != nil {
		return Poly{}, err
	}
	pq, err := s.div(q, cq)
	if err != nil {
		return Poly{}, err
	}
	g, err := s.primitivePRS(pp, pq, x)
	if err != nil {
		return Poly{}, err
	}
	c, err := s.gcd(cp, cq)
	if err != nil {
		return Poly{}, err
	}
	return s.mul(c, g)
}

// coprimeAttempts bounds the evaluation points tried per variable before
// the check gives up.
const coprimeAttempts = 3

// coprime proves gcd(p, q) = 1 for p and q free of monomial factors and
// numeric content. For every shared variable x it evaluates the others at
// a point where the leading coefficient of p in x does not vanish; the
// degree in x of the true gcd is at most that of the gcd of the univariate
// images. False means not proven, not that a common factor exists.
func (s *gcdRun) coprime(p, q Poly) (bool, error) {
	rng := rand.New(rand.NewPCG(uint64(p.Len()), uint64(q.Len())))
	names := p.Symbols()
	for _, x := range names {
		if !q.Has(x) {
			continue
		}
		proved := false
		for range coprimeAttempts {
			if err := s.charge(p.Len() + q.Len()); err != nil {
				return false, err
			}
			point := samplePoint(rng, p, q, x)
			pi, qi := image(p, x, point), image(q, x, point)
			if len(pi)-1 != p.Degree(x) {
				continue
			}
			proved = univariateGCDDegree(pi, qi) == 0
			break
		}
		if !proved {
			return false, nil
		}
	}
	return true, nil
}

func samplePoint(rng *rand.Rand, p, q Poly, x string) map[string]*big.Int {
	point := map[string]*big.Int{}
	for _, poly := range []Poly{p, q} {
		for _, name := range poly.Symbols() {
			if _, ok := point[name]; ok || name == x {
				continue
			}
			point[name] = big.NewInt(2 + rng.Int64N(997))
		}
	}
	return point
}

// image evaluates every symbol but x at point and returns the dense
// coefficients in x, trimmed of leading zeros.
func image(p Poly, x string, point map[string]*big.Int) []*big.Rat {
	coeffs := make([]*big.Rat, p.Degree(x)+1)
	for i := range coeffs {
		coeffs[i] = new(big.Rat)
	}
	for _, t := range p.terms {
		v := new(big.Int).Set(t.Coef.Num())
		e := 0
		for _, pw := range t.Mono {
			if pw.Name == x {
				e = pw.Exp
				continue
			}
			v.Mul(v, new(big.Int).Exp(point[pw.Name], big.NewInt(int64(pw.Exp)), nil))
		}
		coeffs[e].Add(coeffs[e], new(big.Rat).SetFrac(v, t.Coef.Denom()))
	}
	return trim(coeffs)
}

func trim(c []*big.Rat) []*big.Rat {
	for len(c) > 0 && c[len(c)-1].Sign() == 0 {
		c = c[:len(c)-1]
	}
	return c
}

// univariateGCDDegree runs Euclid's algorithm over the rationals. The gcd
// of two zero polynomials has degree -1.
func univariateGCDDegree(a, b []*big.Rat) int {
	a, b = trim(a), trim(b)
	for len(b) > 0 {
		a, b = b, univariateRem(a, b)
	}
	return len(a) - 1
}

func univariateRem(a, b []*big.Rat) []*big.Rat {
	r := make([]*big.Rat, len(a))
	for i, c := range a {
		r[i] = new(big.Rat).Set(c)
	}
	lead := b[len(b)-1]
	for len(r) >= len(b) {
		f := new(big.Rat).Quo(r[len(r)-1], lead)
		shift := len(r) - len(b)
		for i, c := range b {
			r[shift+i].Sub(r[shift+i], new(big.Rat).Mul(f, c))
		}
		r = trim(r[:len(r)-1])
	}
	return r
}

// mainVariable picks the smallest symbol occurring in either polynomial.
func mainVariable(p, q Poly) string {
	ps, qs := p.Symbols(), q.Symbols()
	switch {
	case len(ps) == 0:
		return qs[0]
	case len(qs) == 0:
		return ps[0]
	}
	return min(ps[0], qs[0])
}

// contentIn is the gcd of the coefficients of p viewed as a polynomial in x.
func (s *gcdRun) contentIn(p Poly, x string) (Poly, error) {
	coeffs := p.CoefficientsIn(x)
	exps := make([]int, 0, len(coeffs))
	for e := range coeffs {
		exps = append(exps, e)
	}
	slices.Sort(exps)

	g := Poly{}
	for _, e := range exps {
		var err error
		if g, err = s.gcd(g, coeffs[e]); err != nil {
			return Poly{}, err
		}
		if g.IsOne() {
			break
		}
	}
	return g, nil
}

// primitivePart divides out the content of p in x.
func (s *gcdRun) primitivePart(p Poly, x string) (Poly, error) {
	if p.IsZero() {
		return p, nil
	}
	c, err := s.contentIn(p, x)
	if err != nil {
		return Poly{}, err
	}
	return s.div(p, c)
}

// primitivePRS computes the gcd of two polynomials primitive in x using
// the primitive pseudo-remainder sequence.
func (s *gcdRun) primitivePRS(a, b Poly, x string) (Poly, error) {
	if a.Degree(x) < b.Degree(x) {
		a, b = b, a
	}
	for {
		if b.IsZero() {
			pa, err := s.primitivePart(a, x)
			return pa.Primitive(), err
		}
		if b.Degree(x) == 0 {
			return One(), nil
		}
		r, err := s.pseudoRemainder(a, b, x)
		if err != nil {
			return Poly{}, err
		}
		pr, err := s.primitivePart(r, x)
		if err != nil {
			return Poly{}, err
		}
		a, b = b, pr
	}
}

// pseudoRemainder returns c*a mod b in x for some c free of x.
func (s *gcdRun) pseudoRemainder(a, b Poly, x string) (Poly, error) {
	db := b.Degree(x)
	lb := b.coefficientIn(x, db)
	r := a
	for !r.IsZero() {
		dr := r.Degree(x)
		if dr < db {
			break
		}
		lr := r.coefficientIn(x, dr)
		scaled, err := s.mul(r, lb)
		if err != nil {
			return Poly{}, err
		}
		lead, err := s.mul(lr.Mul(VarPow(x, dr-db)), b)
		if err != nil {
			return Poly{}, err
		}
		r = scaled.Sub(lead)
		if err := s.check(r); err != nil {
			return Poly{}, err
		}
	}
	return r, nil
}

func mustDiv(p, d Poly) Poly {
	q, ok := DivExact(p, d)
	if !ok {
		panic("expr: inexact division of " + p.String() + " by " + d.String())
	}
	return q
}
