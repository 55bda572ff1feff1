package expr

import (
	"encoding/json"
	"fmt"
	"math/big"
)

type jsonTerm struct {
	Coef   string   `json:"coef"`
	Powers []jsonPw `json:"powers,omitempty"`
}

type jsonPw struct {
	Name string `json:"name"`
	Exp  int    `json:"exp"`
}

// MarshalJSON encodes p as its canonical term list with exact rational
// coefficients.
func (p Poly) MarshalJSON() ([]byte, error) {
	out := make([]jsonTerm, len(p.terms))
	for i, t := range p.terms {
		jt := jsonTerm{Coef: t.Coef.RatString()}
		for _, pw := range t.Mono {
			jt.Powers = append(jt.Powers, jsonPw{pw.Name, pw.Exp})
		}
		out[i] = jt
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a term list written by MarshalJSON.
func (p *Poly) UnmarshalJSON(data []byte) error {
	var in []jsonTerm
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	raw := make([]Term, 0, len(in))
	for i, jt := range in {
		c, ok := new(big.Rat).SetString(jt.Coef)
		if !ok {
			return fmt.Errorf("term %d: invalid coefficient %q", i, jt.Coef)
		}
		m := Monomial{}
		for _, pw := range jt.Powers {
			if pw.Exp <= 0 {
				return fmt.Errorf("term %d: invalid exponent %d for %s", i, pw.Exp, pw.Name)
			}
			m = m.Mul(Monomial{{pw.Name, pw.Exp}})
		}
		raw = append(raw, Term{c, m})
	}
	*p = build(raw)
	return nil
}
