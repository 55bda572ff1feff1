// Package derive runs a complete steady-state derivation: solver selection,
// cache lookup, solving, and lumping.
package derive

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/lump"
	"github.com/roach88/bondgraph/internal/steady"
	"github.com/roach88/bondgraph/internal/store"
)

// Result is a finished derivation.
type Result struct {
	Method   steady.Method
	Flux     *steady.Flux
	Lumped   *lump.Result
	Hash     string
	Key      string
	Cached   bool
	Fallback bool
	RunID    string
	Model    *steady.Model
}

// Option configures Run.
type Option func(*runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *runner) { r.log = l }
}

// WithStore enables the derivation cache.
func WithStore(s *store.Store) Option {
	return func(r *runner) { r.store = s }
}

// WithReaction selects the reaction whose flux is derived. Empty selects
// the first reaction.
func WithReaction(name string) Option {
	return func(r *runner) { r.reaction = name }
}

// WithMethod overrides the configured method.
func WithMethod(method string) Option {
	return func(r *runner) { r.method = method }
}

// WithCommand names the command recorded with the cache run.
func WithCommand(name string) Option {
	return func(r *runner) { r.command = name }
}

type runner struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	reaction string
	method   string
	command  string
	runID    string
}

// Choose resolves a configured method for m. Auto picks the diagram method
// when the chemodynamic species outnumber the threshold.
func Choose(method string, threshold int, m *steady.Model) (steady.Method, error) {
	switch method {
	case string(steady.MethodLinear):
		return steady.MethodLinear, nil
	case string(steady.MethodDiagram):
		return steady.MethodDiagram, nil
	case config.MethodAuto:
		if len(m.Chemodynamic()) > threshold {
			return steady.MethodDiagram, nil
		}
		return steady.MethodLinear, nil
	}
	return "", fmt.Errorf("derive: unknown method %q", method)
}

// Solve runs one solver.
func Solve(method steady.Method, m *steady.Model, opts steady.Options) (*steady.Flux, error) {
	if method == steady.MethodDiagram {
		return steady.SolveDiagram(m, opts)
	}
	return steady.SolveLinear(m, opts)
}

// fallback returns the other method when auto may retry after err.
func fallback(method steady.Method, err error) (steady.Method, bool) {
	switch {
	case method == steady.MethodDiagram && steady.IsUnsupportedTopologyError(err):
		return steady.MethodLinear, true
	case method == steady.MethodLinear && steady.IsUnsupportedScaleError(err):
		return steady.MethodDiagram, true
	}
	return "", false
}

// Run derives and lumps the steady-state flux of net.
func Run(ctx context.Context, net *ir.Network, cfg *config.Config, opts ...Option) (*Result, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &runner{cfg: cfg, log: zap.NewNop(), method: cfg.Solver.Method, command: "derive"}
	for _, o := range opts {
		o(r)
	}
	return r.run(ctx, net)
}

func (r *runner) run(ctx context.Context, net *ir.Network) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hash, err := ir.NetworkHash(net)
	if err != nil {
		return nil, err
	}
	log := r.log.With(zap.String("network", net.Name), zap.String("hash", hash[:12]))

	m, err := steady.NewModel(net)
	if err != nil {
		return nil, err
	}
	sel, err := m.SelectReaction(r.reaction)
	if err != nil {
		return nil, err
	}
	reaction := net.Reactions[sel].Name

	method, err := Choose(r.method, r.cfg.Solver.AutoThreshold, m)
	if err != nil {
		return nil, err
	}
	log.Debug("model built",
		zap.Int("species", len(net.Species)),
		zap.Int("chemodynamic", len(m.Chemodynamic())),
		zap.Int("reactions", len(net.Reactions)),
		zap.String("method", string(method)),
		zap.String("reaction", reaction))

	res := &Result{Hash: hash, Model: m}
	flux, key, cached, err := r.solve(ctx, log, m, hash, method, reaction)
	if next, ok := fallback(method, err); ok && r.method == config.MethodAuto {
		log.Info("solver fallback",
			zap.String("from", string(method)),
			zap.String("to", string(next)),
			zap.Error(err))
		res.Fallback = true
		method = next
		flux, key, cached, err = r.solve(ctx, log, m, hash, method, reaction)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lumped, err := lump.Simplify(flux.Num(), flux.Den())
	if err != nil {
		return nil, err
	}
	log.Debug("flux lumped", zap.Int("params", len(lumped.P)), zap.Int("quantities", len(lumped.Q)))

	if r.store != nil && !cached {
		if err := r.record(ctx, hash, key, net.Name, flux); err != nil {
			return nil, err
		}
	}

	res.Method, res.Flux, res.Lumped = method, flux, lumped
	res.Key, res.Cached, res.RunID = key, cached, r.runID
	log.Info("derivation complete",
		zap.String("method", string(method)),
		zap.Bool("cached", cached),
		zap.Int("num_terms", flux.Num().Len()),
		zap.Int("den_terms", flux.Den().Len()))
	return res, nil
}

func (r *runner) solve(ctx context.Context, log *zap.Logger, m *steady.Model, hash string, method steady.Method, reaction string) (*steady.Flux, string, bool, error) {
	opts := r.cfg.Options(reaction)
	key, err := ir.DerivationKey(hash, string(method), reaction, ir.Ceilings{
		LinearSpecies: opts.MaxLinearSpecies,
		DiagramEdges:  opts.MaxDiagramEdges,
		Terms:         opts.MaxTerms,
	})
	if err != nil {
		return nil, "", false, err
	}
	if r.store != nil {
		d, ok, err := r.store.ReadDerivation(ctx, key)
		if err != nil {
			return nil, "", false, err
		}
		if ok {
			log.Debug("cache hit", zap.String("key", key[:12]), zap.String("run", d.RunID))
			return &steady.Flux{Method: method, Reaction: reaction, Ratio: expr.Ratio{Num: d.Num, Den: d.Den}}, key, true, nil
		}
	}

	flux, err := Solve(method, m, opts)
	if err != nil {
		log.Debug("solver failed", zap.String("method", string(method)), zap.Error(err))
		return nil, key, false, err
	}
	return flux, key, false, nil
}

func (r *runner) record(ctx context.Context, hash, key, name string, flux *steady.Flux) error {
	if r.runID == "" {
		run, err := r.store.WriteRun(ctx, r.command, hash)
		if err != nil {
			return err
		}
		r.runID = run.ID
	}
	return r.store.WriteDerivation(ctx, store.Derivation{
		Key:         key,
		NetworkHash: hash,
		Network:     name,
		Method:      string(flux.Method),
		Reaction:    flux.Reaction,
		Num:         flux.Num(),
		Den:         flux.Den(),
		RunID:       r.runID,
	})
}

// IsUnsupported reports whether err means the network is outside what the
// solvers handle, as opposed to a malformed input.
func IsUnsupported(err error) bool {
	return steady.IsUnsupportedTopologyError(err) || steady.IsUnsupportedScaleError(err) ||
		steady.IsDegenerateNetworkError(err) || errors.Is(err, expr.ErrZeroDenominator)
}
