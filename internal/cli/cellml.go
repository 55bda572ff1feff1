package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bondgraph/internal/cellml"
	"github.com/roach88/bondgraph/internal/lump"
)

// CellMLResult lists the files written.
type CellMLResult struct {
	Network string   `json:"network"`
	Dir     string   `json:"dir"`
	Files   []string `json:"files"`
}

// WriteText prints one written path per line.
func (r *CellMLResult) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "✓ wrote %d CellML models for %s\n", len(r.Files), r.Network)
	for _, f := range r.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	return nil
}

// NewCellMLCommand creates the cellml command.
func NewCellMLCommand(rootOpts *RootOptions) *cobra.Command {
	var nf networkFlags
	var df deriveFlags
	var outDir, voi string
	var bgOnly bool
	cmd := &cobra.Command{
		Use:   "cellml <network>",
		Short: "Write the CellML model family of a network",
		Long: `Write the bond-graph, steady-state, parameter, units, and test CellML
models of a network.

With --bg-only the steady-state flux is not derived and only the
bond-graph models are written.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, rootOpts, &nf, args[0])
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = s.cfg.Output.Dir
			}
			if voi == "" {
				voi = s.cfg.Output.VOI
			}

			var lumped *lump.Result
			if !bgOnly {
				res, err := s.run(cmd.Context(), "cellml", &df)
				if err != nil {
					return err
				}
				lumped = res.Lumped
			}
			return writeFamily(s, lumped, outDir, voi)
		},
	}
	nf.register(cmd)
	df.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&voi, "voi", "", "variable of integration (default from config)")
	cmd.Flags().BoolVar(&bgOnly, "bg-only", false, "write only the bond-graph models")
	return cmd
}

func writeFamily(s *session, lumped *lump.Result, dir, voi string) error {
	models, err := cellml.Build(s.net, lumped, voi)
	if err != nil {
		return s.out.Fail("failed to build CellML", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		_ = s.out.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to create output directory", err)
	}

	res := &CellMLResult{Network: s.net.Name, Dir: dir}
	for _, m := range models {
		path, err := cellml.WriteFile(dir, m)
		if err != nil {
			_ = s.out.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write CellML", err)
		}
		s.opts.logger().Debug("model written", zap.String("model", m.Name), zap.String("path", path))
		res.Files = append(res.Files, path)
	}
	return s.out.Success(res)
}
