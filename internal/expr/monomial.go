package expr

import (
	"strconv"
	"strings"
)

// VoltageFactor is the atom exp(F*V_m/(R*T)).
const VoltageFactor = "exp(F*V_m/(R*T))"

// Power is a symbol raised to a positive integer exponent.
type Power struct {
	Name string
	Exp  int
}

// Monomial is a product of powers sorted by symbol name. The empty monomial
// is 1. Monomials are treated as immutable.
type Monomial []Power

// Mono builds a monomial from symbol names; repeated names multiply.
func Mono(names ...string) Monomial {
	var m Monomial
	for _, n := range names {
		m = m.Mul(Monomial{{n, 1}})
	}
	return m
}

// Mul multiplies two monomials.
func (m Monomial) Mul(o Monomial) Monomial {
	out := make(Monomial, 0, len(m)+len(o))
	i, j := 0, 0
	for i < len(m) && j < len(o) {
		switch {
		case m[i].Name == o[j].Name:
			out = append(out, Power{m[i].Name, m[i].Exp + o[j].Exp})
			i++
			j++
		case m[i].Name < o[j].Name:
			out = append(out, m[i])
			i++
		default:
			out = append(out, o[j])
			j++
		}
	}
	out = append(out, m[i:]...)
	return append(out, o[j:]...)
}

// Div divides m by o, reporting false when o does not divide m.
func (m Monomial) Div(o Monomial) (Monomial, bool) {
	out := make(Monomial, 0, len(m))
	j := 0
	for _, p := range m {
		if j < len(o) && o[j].Name < p.Name {
			return nil, false
		}
		if j < len(o) && o[j].Name == p.Name {
			switch {
			case o[j].Exp > p.Exp:
				return nil, false
			case o[j].Exp < p.Exp:
				out = append(out, Power{p.Name, p.Exp - o[j].Exp})
			}
			j++
			continue
		}
		out = append(out, p)
	}
	if j < len(o) {
		return nil, false
	}
	return out, true
}

// GCD returns the monomial of minimum exponents common to m and o.
func (m Monomial) GCD(o Monomial) Monomial {
	var out Monomial
	i, j := 0, 0
	for i < len(m) && j < len(o) {
		switch {
		case m[i].Name == o[j].Name:
			out = append(out, Power{m[i].Name, min(m[i].Exp, o[j].Exp)})
			i++
			j++
		case m[i].Name < o[j].Name:
			i++
		default:
			j++
		}
	}
	return out
}

// Degree is the exponent of name in m.
func (m Monomial) Degree(name string) int {
	for _, p := range m {
		if p.Name == name {
			return p.Exp
		}
	}
	return 0
}

// Without removes name from m.
func (m Monomial) Without(name string) Monomial {
	out := make(Monomial, 0, len(m))
	for _, p := range m {
		if p.Name != name {
			out = append(out, p)
		}
	}
	return out
}

// Select keeps only the powers whose name satisfies keep.
func (m Monomial) Select(keep func(name string) bool) Monomial {
	var out Monomial
	for _, p := range m {
		if keep(p.Name) {
			out = append(out, p)
		}
	}
	return out
}

// IsOne reports whether m is the empty monomial.
func (m Monomial) IsOne() bool { return len(m) == 0 }

// Equal reports whether two monomials are identical.
func (m Monomial) Equal(o Monomial) bool {
	return compareMonomials(m, o) == 0
}

func (m Monomial) key() string {
	var b strings.Builder
	for _, p := range m {
		b.WriteString(p.Name)
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(p.Exp))
		b.WriteByte(1)
	}
	return b.String()
}

// String renders m as a product, "1" when empty.
func (m Monomial) String() string {
	if len(m) == 0 {
		return "1"
	}
	parts := make([]string, len(m))
	for i, p := range m {
		if p.Exp == 1 {
			parts[i] = p.Name
		} else {
			parts[i] = p.Name + "^" + strconv.Itoa(p.Exp)
		}
	}
	return strings.Join(parts, "*")
}

// compareMonomials orders monomials lexicographically with symbols compared
// by name: the first symbol (in name order) whose exponents differ decides,
// and the larger exponent is the larger monomial.
func compareMonomials(a, b Monomial) int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Name == b[j].Name:
			if a[i].Exp != b[j].Exp {
				if a[i].Exp > b[j].Exp {
					return 1
				}
				return -1
			}
			i++
			j++
		case a[i].Name < b[j].Name:
			return 1
		default:
			return -1
		}
	}
	switch {
	case i < len(a):
		return 1
	case j < len(b):
		return -1
	}
	return 0
}
