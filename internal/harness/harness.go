package harness

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/bondgraph/internal/compiler"
	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/derive"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/steady"
	"github.com/roach88/bondgraph/internal/store"
)

// Harness is the test execution engine. Each scenario gets a fresh
// in-memory cache so cache assertions see only their own derivations.
type Harness struct {
	store  *store.Store
	cfg    *config.Config
	logger *zap.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithConfig sets the configuration derivations run under.
func WithConfig(cfg *config.Config) Option {
	return func(h *Harness) { h.cfg = cfg }
}

// WithLogger sets the logger passed to derivations.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a test scenario and returns the result.
//
// Execution flow:
// 1. Create fresh in-memory cache
// 2. Load the network
// 3. Derive the steady-state flux
// 4. Check the expect clause
// 5. Evaluate assertions
//
// A non-nil error means the scenario could not be executed at all; a
// failing scenario returns a Result with Pass false.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st, cfg: config.Default(), logger: zap.NewNop()}
	for _, o := range opts {
		o(h)
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	result := NewResult(scenario.Name)

	net, err := compiler.Load(scenario.Network, scenario.Reverse, scenario.Select)
	if err != nil {
		if compiler.IsInputFormatError(err) || isCompileError(err) {
			h.checkError(scenario, result, err)
			return result, nil
		}
		return nil, fmt.Errorf("failed to load network: %w", err)
	}
	result.Network = net
	result.Snapshot.Network = net.Name

	res, err := derive.Run(ctx, net, h.cfg, h.deriveOptions(scenario)...)
	if err != nil {
		h.checkError(scenario, result, err)
		return result, nil
	}
	result.Derivation = res
	result.Snapshot.record(res)

	if scenario.Expect.Error != "" {
		result.AddError(fmt.Sprintf("expected %s error, derivation succeeded with %s", scenario.Expect.Error, res.Lumped))
		return result, nil
	}
	checkExpect(&scenario.Expect, res, result)

	actx := &AssertionContext{Ctx: ctx, Harness: h, Scenario: scenario}
	for _, msg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario complete",
		zap.String("scenario", scenario.Name),
		zap.Bool("pass", result.Pass),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func (h *Harness) deriveOptions(s *Scenario) []derive.Option {
	opts := []derive.Option{
		derive.WithStore(h.store),
		derive.WithLogger(h.logger),
		derive.WithReaction(s.Reaction),
		derive.WithCommand("test"),
	}
	if s.Method != "" {
		opts = append(opts, derive.WithMethod(s.Method))
	}
	return opts
}

func (h *Harness) checkError(s *Scenario, result *Result, err error) {
	kind := ErrorKind(err)
	result.Snapshot.Error = kind
	switch {
	case s.Expect.Error == "":
		result.AddError(fmt.Sprintf("derivation failed: %v", err))
	case s.Expect.Error != kind:
		result.AddError(fmt.Sprintf("expected %s error, got %s: %v", s.Expect.Error, kind, err))
	}
}

func isCompileError(err error) bool {
	var ce *compiler.CompileError
	return errors.As(err, &ce)
}

// ErrorKind classifies a derivation error.
func ErrorKind(err error) string {
	switch {
	case compiler.IsInputFormatError(err), isCompileError(err):
		return KindInputFormat
	case steady.IsUnsupportedTopologyError(err):
		return KindUnsupportedTopology
	case steady.IsUnsupportedScaleError(err):
		return KindUnsupportedScale
	case steady.IsDegenerateNetworkError(err):
		return KindDegenerateNetwork
	case errors.Is(err, expr.ErrZeroDenominator):
		return KindZeroDenominator
	default:
		return KindOther
	}
}

// checkExpect compares the derivation with the expect clause. Expressions
// are compared as polynomials, not as text.
func checkExpect(e *Expect, res *derive.Result, result *Result) {
	if e.Method != "" && e.Method != string(res.Method) {
		result.AddError(fmt.Sprintf("method: expected %s, got %s", e.Method, res.Method))
	}
	if e.Fallback != nil && *e.Fallback != res.Fallback {
		result.AddError(fmt.Sprintf("fallback: expected %t, got %t", *e.Fallback, res.Fallback))
	}
	comparePoly(result, "num", e.Num, res.Lumped.Num)
	comparePoly(result, "den", e.Den, res.Lumped.Den)

	if len(e.Params) > 0 {
		if len(e.Params) != len(res.Lumped.P) {
			result.AddError(fmt.Sprintf("params: expected %d, got %d", len(e.Params), len(res.Lumped.P)))
		}
		for _, want := range e.Params {
			got, ok := res.Lumped.Param(want.Name)
			if !ok {
				result.AddError(fmt.Sprintf("params: %s not found", want.Name))
				continue
			}
			comparePoly(result, want.Name, want.Expr, got.Expr)
			if want.Units != "" && want.Units != got.Units {
				result.AddError(fmt.Sprintf("%s units: expected %s, got %s", want.Name, want.Units, got.Units))
			}
		}
	}

	if len(e.Quantities) > 0 {
		got := make([]string, len(res.Lumped.Q))
		for i, q := range res.Lumped.Q {
			got[i] = q.Name
		}
		if fmt.Sprint(got) != fmt.Sprint(e.Quantities) {
			result.AddError(fmt.Sprintf("quantities: expected %v, got %v", e.Quantities, got))
		}
	}
}

func comparePoly(result *Result, field, want string, got expr.Poly) {
	if want == "" {
		return
	}
	p, err := expr.ParsePoly(want)
	if err != nil {
		result.AddError(fmt.Sprintf("%s: %v", field, err))
		return
	}
	if !p.Equal(got) {
		result.AddError(fmt.Sprintf("%s: expected %s, got %s", field, p, got))
	}
}
