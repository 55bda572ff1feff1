package harness

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/bondgraph/internal/cellml"
	"github.com/roach88/bondgraph/internal/derive"
	"github.com/roach88/bondgraph/internal/numeric"
	"github.com/roach88/bondgraph/internal/steady"
)

// Numeric defaults for numeric_agrees.
const (
	DefaultSamples   = 5
	DefaultTolerance = 1e-6
	DefaultSeed      = 1
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Flux     string // Lumped flux for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if e.Flux != "" {
		fmt.Fprintf(&buf, "  Flux: %s\n", e.Flux)
	}
	return buf.String()
}

// AssertionContext carries what assertions need beyond the result.
type AssertionContext struct {
	Ctx      context.Context
	Harness  *Harness
	Scenario *Scenario
}

// EvaluateAssertions runs every assertion and returns the failure
// messages in order.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(result, a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d] (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

func evaluate(result *Result, a Assertion, actx *AssertionContext) error {
	if result.Derivation == nil {
		return fmt.Errorf("no derivation to check")
	}
	switch a.Type {
	case AssertNumericAgrees:
		return assertNumericAgrees(result.Derivation, a)
	case AssertMethodsAgree:
		return assertMethodsAgree(result.Derivation, actx)
	case AssertCellMLFamily:
		return assertCellMLFamily(result, a, actx)
	case AssertCacheHit:
		return assertCacheHit(result, actx)
	case AssertFluxSymbols:
		return assertFluxSymbols(result.Derivation, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// assertNumericAgrees evaluates the symbolic flux at sampled points and
// compares it with a numeric solve of the same network.
func assertNumericAgrees(res *derive.Result, a Assertion) error {
	samples, tol, seed := a.Samples, a.Tolerance, a.Seed
	if samples == 0 {
		samples = DefaultSamples
	}
	if tol == 0 {
		tol = DefaultTolerance
	}
	if seed == 0 {
		seed = DefaultSeed
	}
	points := numeric.SamplePoints(numeric.Symbols(res.Model), samples, seed)
	checks, err := numeric.CrossCheck(res.Model, res.Flux, points)
	if err != nil {
		return err
	}
	if worst := numeric.MaxRelErr(checks); worst > tol {
		return &AssertionError{
			Type:     AssertNumericAgrees,
			Expected: fmt.Sprintf("relative error <= %g over %d points", tol, samples),
			Actual:   fmt.Sprintf("relative error %g", worst),
			Flux:     res.Lumped.String(),
		}
	}
	return nil
}

// assertMethodsAgree solves again with the method not used and requires
// an equivalent flux.
func assertMethodsAgree(res *derive.Result, actx *AssertionContext) error {
	other := steady.MethodDiagram
	if res.Method == steady.MethodDiagram {
		other = steady.MethodLinear
	}
	flux, err := derive.Solve(other, res.Model, actx.Harness.cfg.Options(res.Flux.Reaction))
	if err != nil {
		return &AssertionError{
			Type:     AssertMethodsAgree,
			Expected: fmt.Sprintf("%s method to solve the network", other),
			Actual:   err.Error(),
		}
	}
	if !flux.Ratio.Equivalent(res.Flux.Ratio) {
		return &AssertionError{
			Type:     AssertMethodsAgree,
			Expected: fmt.Sprintf("%s: %s", res.Method, res.Flux.Ratio),
			Actual:   fmt.Sprintf("%s: %s", other, flux.Ratio),
		}
	}
	return nil
}

// assertCellMLFamily builds and serializes the model family.
func assertCellMLFamily(result *Result, a Assertion, actx *AssertionContext) error {
	models, err := cellml.Build(result.Network, result.Derivation.Lumped, actx.Harness.cfg.Output.VOI)
	if err != nil {
		return err
	}
	names := make([]string, len(models))
	for i, m := range models {
		names[i] = m.Name
		if _, err := cellml.Marshal(m); err != nil {
			return fmt.Errorf("%s: %w", m.Name, err)
		}
	}
	if !slices.Equal(names, a.Models) {
		return &AssertionError{
			Type:     AssertCellMLFamily,
			Expected: strings.Join(a.Models, ", "),
			Actual:   strings.Join(names, ", "),
		}
	}
	return nil
}

// assertCacheHit repeats the derivation and requires the cached answer.
func assertCacheHit(result *Result, actx *AssertionContext) error {
	h := actx.Harness
	again, err := derive.Run(actx.Ctx, result.Network, h.cfg, h.deriveOptions(actx.Scenario)...)
	if err != nil {
		return err
	}
	if !again.Cached {
		return &AssertionError{
			Type:     AssertCacheHit,
			Expected: "derivation served from the cache",
			Actual:   "derivation recomputed",
		}
	}
	if !again.Flux.Ratio.Equal(result.Derivation.Flux.Ratio) {
		return &AssertionError{
			Type:     AssertCacheHit,
			Expected: result.Derivation.Flux.Ratio.String(),
			Actual:   again.Flux.Ratio.String(),
		}
	}
	return nil
}

func assertFluxSymbols(res *derive.Result, a Assertion) error {
	got := res.Flux.Ratio.Symbols()
	want := slices.Clone(a.Symbols)
	slices.Sort(want)
	if !slices.Equal(got, want) {
		return &AssertionError{
			Type:     AssertFluxSymbols,
			Expected: strings.Join(want, ", "),
			Actual:   strings.Join(got, ", "),
			Flux:     res.Flux.Ratio.String(),
		}
	}
	return nil
}
