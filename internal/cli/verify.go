package cli

import (
	"fmt"
	"io"
	"maps"

	"github.com/spf13/cobra"

	"github.com/roach88/bondgraph/internal/numeric"
)

// VerifyResult compares the symbolic flux with the numeric steady state.
type VerifyResult struct {
	Network   string          `json:"network"`
	Reaction  string          `json:"reaction"`
	Method    string          `json:"method"`
	Tolerance float64         `json:"tolerance"`
	MaxRelErr float64         `json:"max_rel_err"`
	Checks    []numeric.Check `json:"checks"`
}

// Pass reports whether every point agrees within the tolerance.
func (r *VerifyResult) Pass() bool { return r.MaxRelErr <= r.Tolerance }

// WriteText prints one line per sample point.
func (r *VerifyResult) WriteText(w io.Writer) error {
	mark := "✓"
	if !r.Pass() {
		mark = "✗"
	}
	fmt.Fprintf(w, "%s %s %s (%s): max relative error %.3g (tolerance %g)\n",
		mark, r.Network, r.Reaction, r.Method, r.MaxRelErr, r.Tolerance)
	for i, c := range r.Checks {
		fmt.Fprintf(w, "  [%d] symbolic %.9g numeric %.9g rel %.3g\n", i, c.Symbolic, c.Numeric, c.RelErr)
	}
	return nil
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	var nf networkFlags
	var df deriveFlags
	var samples int
	var seed uint64
	var tolerance float64
	cmd := &cobra.Command{
		Use:   "verify <network>",
		Short: "Check the symbolic flux against a numeric steady state",
		Long: `Derive the steady-state flux, then evaluate it at random parameter
points and compare with the flux of a numerically solved steady state.

Exits 1 when any point disagrees beyond the tolerance.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples < 1 {
				return NewExitError(ExitCommandError, "--samples must be at least 1")
			}
			s, err := openSession(cmd, rootOpts, &nf, args[0])
			if err != nil {
				return err
			}
			res, err := s.run(cmd.Context(), "verify", &df)
			if err != nil {
				return err
			}

			points := numeric.SamplePoints(numeric.Symbols(res.Model), samples, seed)
			for _, p := range points {
				maps.Copy(p, s.cfg.Env())
			}
			checks, err := numeric.CrossCheck(res.Model, res.Flux, points)
			if err != nil {
				return s.out.Fail("numeric check failed", err)
			}

			out := &VerifyResult{
				Network:   s.net.Name,
				Reaction:  res.Flux.Reaction,
				Method:    string(res.Method),
				Tolerance: tolerance,
				MaxRelErr: numeric.MaxRelErr(checks),
				Checks:    checks,
			}
			if !out.Pass() {
				if s.out.Format == "json" {
					_ = s.out.Error(ErrCodeMismatch, "symbolic and numeric flux disagree", out)
				} else {
					_ = out.WriteText(s.out.Writer)
				}
				return NewExitError(ExitFailure, fmt.Sprintf("max relative error %.3g exceeds %g", out.MaxRelErr, tolerance))
			}
			return s.out.Success(out)
		},
	}
	nf.register(cmd)
	df.register(cmd)
	cmd.Flags().IntVar(&samples, "samples", 5, "number of sample points")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "sampling seed")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 1e-6, "maximum relative error")
	return cmd
}
