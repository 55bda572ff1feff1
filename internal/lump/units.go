package lump

import (
	"strconv"
	"strings"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
)

// Unit names used by inference.
const (
	AmountUnit    = "fmol"
	TimeUnit      = "sec"
	Dimensionless = "dimensionless"
)

// InferUnits names the unit of a lumped coefficient from the symbols of its
// first term. Every distinct K* symbol counts as 1/fmol, every kappa* symbol
// as fmol/sec and E as fmol; exponents on the symbols are ignored. This is
// a naming convention over symbol prefixes, not dimensional analysis.
func InferUnits(coef expr.Poly) string {
	if coef.IsZero() {
		return Dimensionless
	}
	amount, time := 0, 0
	for _, pw := range coef.Leading().Mono {
		switch {
		case pw.Name == bg.TotalAmount:
			amount++
		case strings.HasPrefix(pw.Name, "kappa"):
			amount++
			time--
		case strings.HasPrefix(pw.Name, "K"):
			amount--
		}
	}
	return renderUnits(amount, time)
}

type unitFactor struct {
	base string
	exp  int
}

// renderUnits writes fmol^amount*sec^time as a CellML unit name:
// "dimensionless", "per_<den>", "<num>" or "<num>_per_<den>". Within each
// side, factors with exponent 1 come first, then powered ones; ties keep
// the order fmol, sec.
func renderUnits(amount, time int) string {
	var num, den []unitFactor
	for _, f := range []unitFactor{{AmountUnit, amount}, {TimeUnit, time}} {
		switch {
		case f.exp > 0:
			num = append(num, f)
		case f.exp < 0:
			den = append(den, unitFactor{f.base, -f.exp})
		}
	}
	switch {
	case len(num) == 0 && len(den) == 0:
		return Dimensionless
	case len(num) == 0:
		return "per_" + joinFactors(den)
	case len(den) == 0:
		return joinFactors(num)
	}
	return joinFactors(num) + "_per_" + joinFactors(den)
}

func joinFactors(fs []unitFactor) string {
	var first, powered []string
	for _, f := range fs {
		if f.exp == 1 {
			first = append(first, f.base)
		} else {
			powered = append(powered, f.base+strconv.Itoa(f.exp))
		}
	}
	return strings.Join(append(first, powered...), "_")
}
