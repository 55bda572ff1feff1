package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bondgraph/internal/compiler"
	"github.com/roach88/bondgraph/internal/ir"
)

// ValidationResult summarizes a network that loaded cleanly.
type ValidationResult struct {
	Valid     bool                    `json:"valid"`
	Network   string                  `json:"network"`
	Hash      string                  `json:"hash"`
	Species   map[ir.Kind]int         `json:"species"`
	Reactions map[ir.Kind]int         `json:"reactions"`
	Cycles    []compiler.CycleWarning `json:"cycles"`
}

// WriteText prints the summary.
func (r *ValidationResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "✓ %s is valid (%s)\n", r.Network, r.Hash[:12])
	for _, k := range ir.SpeciesKinds {
		if n := r.Species[k]; n > 0 {
			fmt.Fprintf(w, "  %-7s %d species\n", k, n)
		}
	}
	for _, k := range ir.ReactionKinds {
		if n := r.Reactions[k]; n > 0 {
			fmt.Fprintf(w, "  %-7s %d reactions\n", k, n)
		}
	}
	for _, c := range r.Cycles {
		fmt.Fprintf(w, "  cycle: %s\n", c.Message)
	}
	return nil
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var nf networkFlags
	cmd := &cobra.Command{
		Use:   "validate <network>",
		Short: "Check a network without deriving anything",
		Long: `Load a network from stoichiometry CSVs or CUE and check its structure.

Reports component counts, the canonical network hash, and directed cycles
among chemodynamic species. Cycles are informational.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, &nf, args[0], cmd)
		},
	}
	nf.register(cmd)
	return cmd
}

func runValidate(opts *RootOptions, nf *networkFlags, path string, cmd *cobra.Command) error {
	out := newFormatter(opts, cmd.OutOrStdout())
	net, err := nf.load(path)
	if err != nil {
		return out.Fail("validation failed", err)
	}
	hash, err := ir.NetworkHash(net)
	if err != nil {
		return out.Fail("validation failed", err)
	}

	res := &ValidationResult{
		Valid:     true,
		Network:   net.Name,
		Hash:      hash,
		Species:   countKinds(net.Species),
		Reactions: countKinds(net.Reactions),
		Cycles:    compiler.AnalyzeCycles(net),
	}
	opts.logger().Debug("network validated",
		zap.String("network", net.Name),
		zap.Int("cycles", len(res.Cycles)))
	return out.Success(res)
}

func countKinds(comps []ir.Component) map[ir.Kind]int {
	counts := map[ir.Kind]int{}
	for _, c := range comps {
		counts[c.Kind]++
	}
	return counts
}
