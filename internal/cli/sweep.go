package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/sweep"
)

// SweepResult is a flux sampled across one parameter.
type SweepResult struct {
	Network  string        `json:"network"`
	Reaction string        `json:"reaction"`
	Series   *sweep.Series `json:"series"`
	Fixed    expr.Env      `json:"fixed"`
	Plot     string        `json:"plot,omitempty"`
}

// WriteText prints the series as two columns.
func (r *SweepResult) WriteText(w io.Writer) error {
	lo, hi := r.Series.Range()
	fmt.Fprintf(w, "%s %s: v over %s in [%g, %g]\n", r.Network, r.Reaction, r.Series.Param, lo, hi)
	for _, p := range r.Series.Points {
		fmt.Fprintf(w, "  %-14.6g %.9g\n", p.X, p.Y)
	}
	if r.Plot != "" {
		fmt.Fprintf(w, "plot: %s\n", r.Plot)
	}
	return nil
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	var nf networkFlags
	var df deriveFlags
	var param, plotPath string
	var from, to float64
	var steps int
	var set map[string]string
	cmd := &cobra.Command{
		Use:   "sweep <network>",
		Short: "Evaluate the steady-state flux across one parameter",
		Long: `Derive the steady-state flux and evaluate it at evenly spaced values of
one symbol, optionally plotting the result.

Symbols not given with --set take the configured physical constants, 0 for
the membrane voltage, and 1 otherwise.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if param == "" {
				return NewExitError(ExitCommandError, "--param is required")
			}
			s, err := openSession(cmd, rootOpts, &nf, args[0])
			if err != nil {
				return err
			}
			res, err := s.run(cmd.Context(), "sweep", &df)
			if err != nil {
				return err
			}

			env, err := sweepEnv(res.Flux.Ratio, s.cfg.Env(), set)
			if err != nil {
				_ = s.out.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitCommandError, "invalid --set", err)
			}
			series, err := sweep.Run(res.Flux.Ratio, param, from, to, steps, env)
			if err != nil {
				return s.out.Fail("sweep failed", err)
			}

			out := &SweepResult{Network: s.net.Name, Reaction: res.Flux.Reaction, Series: series, Fixed: env}
			delete(out.Fixed, param)
			if plotPath != "" {
				title := fmt.Sprintf("%s %s", s.net.Name, res.Flux.Reaction)
				if err := sweep.Plot(series, title, plotPath); err != nil {
					_ = s.out.Error(ErrCodeWriteFailed, err.Error(), nil)
					return WrapExitError(ExitCommandError, "failed to write plot", err)
				}
				s.opts.logger().Debug("plot written", zap.String("path", plotPath))
				out.Plot = plotPath
			}
			return s.out.Success(out)
		},
	}
	nf.register(cmd)
	df.register(cmd)
	cmd.Flags().StringVar(&param, "param", "", "symbol to vary")
	cmd.Flags().Float64Var(&from, "from", 0, "first value")
	cmd.Flags().Float64Var(&to, "to", 10, "last value")
	cmd.Flags().IntVar(&steps, "steps", 21, "number of points")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a plot (.png, .svg, .pdf, .eps)")
	cmd.Flags().StringToStringVar(&set, "set", nil, "fix a symbol (name=value, repeatable)")
	return cmd
}

// sweepEnv binds every symbol of r: constants from the configuration, then
// defaults, then explicit settings.
func sweepEnv(r expr.Ratio, constants expr.Env, set map[string]string) (expr.Env, error) {
	env := expr.Env{}
	for _, name := range sweep.Symbols(r) {
		switch v, ok := constants[name]; {
		case ok:
			env[name] = v
		case name == bg.Voltage:
			env[name] = 0
		default:
			env[name] = 1
		}
	}
	for name, text := range set {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		env[name] = v
	}
	return env, nil
}
