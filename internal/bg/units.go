package bg

import (
	"fmt"
	"strconv"
	"strings"
)

// UnitPart is one factor of a unit definition: prefix * base ^ exponent.
type UnitPart struct {
	Base     string
	Prefix   string
	Exponent int
}

// Units is a named unit definition. Builtin units are predefined by CellML
// and are never emitted into a units model.
type Units struct {
	Name    string
	Parts   []UnitPart
	Builtin bool
}

var builtinUnits = map[string]bool{
	"dimensionless": true,
	"second":        true,
	"kelvin":        true,
	"volt":          true,
	"mole":          true,
	"ampere":        true,
	"coulomb":       true,
	"joule":         true,
	"litre":         true,
	"farad":         true,
	"siemens":       true,
}

// unitTokens maps the naming-convention tokens to their base parts.
var unitTokens = map[string][]UnitPart{
	"fmol": {{"mole", "femto", 1}},
	"mol":  {{"mole", "", 1}},
	"mM":   {{"mole", "milli", 1}, {"litre", "", -1}},
	"sec":  {{"second", "", 1}},
	"fA":   {{"ampere", "femto", 1}},
	"fC":   {{"coulomb", "femto", 1}},
	"fF":   {{"farad", "femto", 1}},
	"fS":   {{"siemens", "femto", 1}},
	"C":    {{"coulomb", "", 1}},
	"J":    {{"joule", "", 1}},
	"K":    {{"kelvin", "", 1}},
}

// LookupUnits resolves a unit name: CellML builtins first, then the naming
// convention (`fmol_per_sec`, `per_fmol_sec2`, `J_per_K_per_mol`).
func LookupUnits(name string) (Units, error) {
	if builtinUnits[name] {
		return Units{Name: name, Builtin: true}, nil
	}
	parts, err := parseUnitName(name)
	if err != nil {
		return Units{}, err
	}
	return Units{Name: name, Parts: parts}, nil
}

// parseUnitName splits a name on "_" into tokens. Every token after a "per"
// token lands in the denominator. A token may carry an integer power suffix
// (fmol2).
func parseUnitName(name string) ([]UnitPart, error) {
	if name == "" {
		return nil, fmt.Errorf("empty unit name")
	}

	var parts []UnitPart
	index := map[string]int{}
	sign := 1
	for _, tok := range strings.Split(name, "_") {
		if tok == "per" {
			sign = -1
			continue
		}
		sym, power, err := splitPower(tok)
		if err != nil {
			return nil, fmt.Errorf("unit %q: %w", name, err)
		}
		base, ok := unitTokens[sym]
		if !ok {
			return nil, fmt.Errorf("unit %q: unknown token %q", name, tok)
		}
		for _, p := range base {
			key := p.Prefix + p.Base
			exp := sign * power * p.Exponent
			if at, seen := index[key]; seen {
				parts[at].Exponent += exp
				continue
			}
			index[key] = len(parts)
			parts = append(parts, UnitPart{Base: p.Base, Prefix: p.Prefix, Exponent: exp})
		}
	}

	kept := parts[:0]
	for _, p := range parts {
		if p.Exponent != 0 {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("unit %q reduces to dimensionless", name)
	}
	return kept, nil
}

func splitPower(tok string) (string, int, error) {
	i := len(tok)
	for i > 0 && tok[i-1] >= '0' && tok[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return "", 0, fmt.Errorf("token %q has no symbol", tok)
	}
	if i == len(tok) {
		return tok, 1, nil
	}
	n, err := strconv.Atoi(tok[i:])
	if err != nil || n == 0 {
		return "", 0, fmt.Errorf("token %q has an invalid power", tok)
	}
	return tok[:i], n, nil
}
