package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	CachePath  string

	// Logger is set by the root command. Subcommands built on their own
	// log nowhere.
	Logger *zap.Logger

	cfg *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the bg2cellml CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "bg2cellml",
		Short: "bg2cellml - bond-graph steady states to CellML",
		Long: `Derive symbolic steady-state fluxes of bond-graph reaction networks,
lump them into a few parameters, and emit the corresponding CellML models.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.Logger = newLogger(opts.Verbose, cmd.ErrOrStderr())
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = opts.logger().Sync()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "configuration file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.CachePath, "cache", "", "derivation cache (SQLite path)")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDeriveCommand(opts))
	cmd.AddCommand(NewCellMLCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// newLogger logs to w: human-readable at debug level when verbose,
// JSON at info level otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encoder := zapcore.NewJSONEncoder(encCfg)
	level := zapcore.InfoLevel
	if verbose {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
		level = zapcore.DebugLevel
	}
	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
}

func (o *RootOptions) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// config loads the configuration once. The --cache flag overrides the
// file and the environment.
func (o *RootOptions) config() (*config.Config, error) {
	if o.cfg != nil {
		return o.cfg, nil
	}
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if o.CachePath != "" {
		cfg.Cache.Path = o.CachePath
	}
	o.cfg = cfg
	return cfg, nil
}

// openStore opens the configured cache, or returns nil when none is set.
func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.Cache.Path == "" {
		return nil, nil
	}
	return store.Open(cfg.Cache.Path)
}
