package expr

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var (
	namePattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	mantissaStart = regexp.MustCompile(`^[0-9.]+[eE]$`)
)

// ParsePoly reads a polynomial in the infix form String writes: terms
// joined by + and -, factors joined by *, integer powers with ^, and
// rational coefficients. The voltage factor is accepted as a symbol.
func ParsePoly(s string) (Poly, error) {
	terms, err := splitTerms(s)
	if err != nil {
		return Poly{}, err
	}
	out := Zero()
	for _, t := range terms {
		p, err := parseTerm(t.text)
		if err != nil {
			return Poly{}, fmt.Errorf("expr: parse %q: %w", s, err)
		}
		if t.neg {
			p = p.Neg()
		}
		out = out.Add(p)
	}
	return out, nil
}

type signedTerm struct {
	text string
	neg  bool
}

func splitTerms(s string) ([]signedTerm, error) {
	var terms []signedTerm
	var cur strings.Builder
	neg, depth := false, 0
	flush := func() error {
		text := strings.TrimSpace(cur.String())
		if text == "" {
			return fmt.Errorf("expr: parse %q: empty term", s)
		}
		terms = append(terms, signedTerm{text, neg})
		cur.Reset()
		return nil
	}
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("expr: parse %q: unbalanced parentheses", s)
			}
		case (r == '+' || r == '-') && depth == 0:
			pending := strings.TrimSpace(cur.String())
			if mantissaStart.MatchString(pending) {
				break
			}
			if pending == "" && len(terms) == 0 {
				if r == '-' {
					neg = !neg
				}
				continue
			}
			if err := flush(); err != nil {
				return nil, err
			}
			neg = r == '-'
			continue
		}
		cur.WriteRune(r)
	}
	if depth != 0 {
		return nil, fmt.Errorf("expr: parse %q: unbalanced parentheses", s)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return terms, nil
}

func parseTerm(t string) (Poly, error) {
	coef := big.NewRat(1, 1)
	var names []string
	for _, f := range splitFactors(t) {
		f = strings.TrimSpace(f)
		if c, ok := new(big.Rat).SetString(f); ok {
			coef.Mul(coef, c)
			continue
		}
		name, exp := f, 1
		if i := strings.LastIndexByte(f, '^'); i > 0 && !strings.Contains(f[i:], ")") {
			n, err := strconv.Atoi(f[i+1:])
			if err != nil || n < 1 {
				return Poly{}, fmt.Errorf("bad power in %q", f)
			}
			name, exp = f[:i], n
		}
		if name != VoltageFactor && !namePattern.MatchString(name) {
			return Poly{}, fmt.Errorf("bad factor %q", f)
		}
		for range exp {
			names = append(names, name)
		}
	}
	return NewTerm(coef, Mono(names...)), nil
}

func splitFactors(t string) []string {
	var out []string
	depth, start := 0, 0
	for i, r := range t {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case '*':
			if depth == 0 {
				out = append(out, t[start:i])
				start = i + 1
			}
		}
	}
	return append(out, t[start:])
}
