package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/harness"
)

// CodeTestFailed marks a test run with failing scenarios.
const CodeTestFailed = "E_TEST_FAILED"

// ScenarioResult is the outcome of one scenario file.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult summarizes a test run.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

func (r *TestResult) add(sr ScenarioResult) {
	r.Scenarios = append(r.Scenarios, sr)
	if sr.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// WriteText prints the summary. Per-scenario lines are streamed while the
// run progresses.
func (r TestResult) WriteText(w io.Writer) error {
	if r.Total == 0 {
		_, err := fmt.Fprintln(w, "No scenarios found.")
		return err
	}
	fmt.Fprintf(w, "\nTest Summary: %d passed, %d failed, %d total\n", r.Passed, r.Failed, r.Total)
	if r.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
	return nil
}

func (sr ScenarioResult) writeLine(w io.Writer) {
	if sr.Pass {
		fmt.Fprintf(w, "✓ %s\n", sr.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", sr.Name)
	for _, e := range sr.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// NewTestCommand creates the test command.
func NewTestCommand(opts *RootOptions) *cobra.Command {
	var (
		update bool
		filter string
	)
	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run derivation scenarios",
		Long: `Run YAML derivation scenarios and compare their snapshots with golden
files kept in <scenarios-dir>/golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  bg2cellml test ./testdata/scenarios
  bg2cellml test ./testdata/scenarios --filter "enzyme*"
  bg2cellml test ./testdata/scenarios --update`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if _, err := os.Stat(dir); err != nil {
				return WrapExitError(ExitCommandError, "scenarios directory not found: "+dir, err)
			}
			cfg, err := opts.config()
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			files, err := harness.FindScenarios(dir, filter)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to find scenarios", err)
			}

			out := newFormatter(opts, cmd.OutOrStdout())
			suite := scenarioSuite{cfg: cfg, log: opts.logger(), update: update}
			res := TestResult{Scenarios: make([]ScenarioResult, 0, len(files)), Total: len(files)}
			for _, file := range files {
				sr := suite.run(file)
				if opts.Format != "json" {
					sr.writeLine(out.Writer)
				}
				res.add(sr)
			}
			if res.Failed == 0 {
				return out.Success(res)
			}

			msg := fmt.Sprintf("%d scenario(s) failed", res.Failed)
			if opts.Format == "json" {
				if err := out.encode(CLIResponse{
					Status: "error",
					Data:   res,
					Error:  &CLIError{Code: CodeTestFailed, Message: msg},
				}); err != nil {
					return err
				}
			} else if err := res.WriteText(out.Writer); err != nil {
				return err
			}
			return NewExitError(ExitFailure, msg)
		},
	}
	cmd.Flags().BoolVar(&update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&filter, "filter", "", "filter scenarios by glob pattern")
	return cmd
}

// scenarioSuite runs scenario files against one configuration.
type scenarioSuite struct {
	cfg    *config.Config
	log    *zap.Logger
	update bool
}

// run executes one scenario, then regenerates or checks its golden file.
func (s scenarioSuite) run(file string) ScenarioResult {
	scenario, err := harness.LoadScenario(file)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(file),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}
	result, err := harness.Run(scenario, harness.WithConfig(s.cfg), harness.WithLogger(s.log))
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}
	sr := ScenarioResult{Name: scenario.Name, Pass: result.Pass, Errors: result.Errors}

	golden := goldenFile(goldenFilePath(file))
	if s.update {
		if err := golden.write(&result.Snapshot); err != nil {
			sr.Pass = false
			sr.Errors = append(sr.Errors, fmt.Sprintf("failed to update golden file: %v", err))
		}
		return sr
	}
	match, err := golden.matches(&result.Snapshot)
	switch {
	case err != nil:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
	case !match:
		sr.Pass = false
		sr.Errors = append(sr.Errors, "snapshot does not match golden file (run with --update to regenerate)")
	}
	return sr
}

// goldenFilePath maps dir/name.yaml to dir/golden/name.golden.
func goldenFilePath(scenarioFile string) string {
	base := filepath.Base(scenarioFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(scenarioFile), "golden", name+".golden")
}

// goldenFile is a snapshot on disk.
type goldenFile string

func (g goldenFile) write(snap *harness.Snapshot) error {
	data, err := snap.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(string(g)), 0o755); err != nil {
		return err
	}
	return os.WriteFile(string(g), data, 0o644)
}

// matches compares snap with the file, ignoring surrounding whitespace. A
// missing file matches anything.
func (g goldenFile) matches(snap *harness.Snapshot) (bool, error) {
	want, err := os.ReadFile(string(g))
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	got, err := snap.Marshal()
	if err != nil {
		return false, err
	}
	return bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(got)), nil
}
