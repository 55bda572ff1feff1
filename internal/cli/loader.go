package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/roach88/bondgraph/internal/compiler"
	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/derive"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/steady"
)

// Error code constants shared by all commands. Input format errors carry
// their own E2xx code from the compiler.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Configuration invalid
	ErrCodeCache       = "E003" // Cache unavailable
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeCompile     = "E100" // CUE compile error

	// Derivation errors
	ErrCodeTopology        = "E301" // Network outside the solver's topology
	ErrCodeScale           = "E302" // Network exceeds a size bound
	ErrCodeDegenerate      = "E303" // No unique steady state
	ErrCodeZeroDenominator = "E304" // Flux denominator vanishes
	ErrCodeMismatch        = "E305" // Numeric cross-check failed
)

// Classify maps err to an error code and exit code.
func Classify(err error) (string, int) {
	var ife *compiler.InputFormatError
	var ce *compiler.CompileError
	switch {
	case errors.As(err, &ife):
		return ife.Code, ExitCommandError
	case errors.As(err, &ce):
		return ErrCodeCompile, ExitCommandError
	case steady.IsUnsupportedTopologyError(err):
		return ErrCodeTopology, ExitFailure
	case steady.IsUnsupportedScaleError(err):
		return ErrCodeScale, ExitFailure
	case steady.IsDegenerateNetworkError(err):
		return ErrCodeDegenerate, ExitFailure
	case errors.Is(err, expr.ErrZeroDenominator):
		return ErrCodeZeroDenominator, ExitFailure
	case errors.Is(err, context.Canceled):
		return ErrCodeGeneric, ExitFailure
	}
	return ErrCodeGeneric, ExitCommandError
}

// networkFlags selects the network a command reads.
type networkFlags struct {
	reverse string
	name    string
}

func (n *networkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&n.reverse, "reverse", "", "reverse matrix CSV (default: derived from the forward path)")
	cmd.Flags().StringVar(&n.name, "network", "", "network to select from CUE input (default: first declared)")
}

func (n *networkFlags) load(path string) (*ir.Network, error) {
	return compiler.Load(path, n.reverse, n.name)
}

// deriveFlags selects the derivation a command runs.
type deriveFlags struct {
	method   string
	reaction string
}

func (d *deriveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.method, "method", "", "steady-state method (linear|diagram|auto; default from config)")
	cmd.Flags().StringVar(&d.reaction, "reaction", "", "reaction whose flux is derived (default: first)")
}

// session is the state a derivation command shares: configuration,
// formatter, and the loaded network.
type session struct {
	opts *RootOptions
	out  *OutputFormatter
	cfg  *config.Config
	net  *ir.Network
}

// openSession loads configuration and the network at path. The returned
// error has already been reported through the formatter.
func openSession(cmd *cobra.Command, opts *RootOptions, nf *networkFlags, path string) (*session, error) {
	out := newFormatter(opts, cmd.OutOrStdout())
	cfg, err := opts.config()
	if err != nil {
		_ = out.Error(ErrCodeConfig, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	net, err := nf.load(path)
	if err != nil {
		return nil, out.Fail("failed to load network", err)
	}
	return &session{opts: opts, out: out, cfg: cfg, net: net}, nil
}

// run derives with the cache attached when configured.
func (s *session) run(ctx context.Context, command string, df *deriveFlags) (*derive.Result, error) {
	st, err := openStore(s.cfg)
	if err != nil {
		_ = s.out.Error(ErrCodeCache, err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open cache", err)
	}
	options := []derive.Option{
		derive.WithLogger(s.opts.logger()),
		derive.WithReaction(df.reaction),
		derive.WithCommand(command),
	}
	if st != nil {
		defer st.Close()
		options = append(options, derive.WithStore(st))
	}
	if df.method != "" {
		options = append(options, derive.WithMethod(df.method))
	}
	res, err := derive.Run(ctx, s.net, s.cfg, options...)
	if err != nil {
		return nil, s.out.Fail("derivation failed", err)
	}
	return res, nil
}
