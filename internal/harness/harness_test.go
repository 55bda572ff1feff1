package harness

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/bondgraph/internal/compiler"
	"github.com/roach88/bondgraph/internal/config"
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/steady"
	"github.com/roach88/bondgraph/internal/testutil"
)

// scenariosDir holds the repository scenarios.
const scenariosDir = "../../testdata/scenarios"

func chemostatScenario(t *testing.T) *Scenario {
	t.Helper()
	return &Scenario{
		Name:        "chemostat",
		Description: "chemostat",
		Network:     testutil.WriteCSV(t, t.TempDir(), testutil.Chemostat()),
		Expect: Expect{
			Method:     "linear",
			Num:        "-E*P_0 + P_1*q_A",
			Den:        "1",
			Quantities: []string{"E", "q_A"},
		},
	}
}

func TestRun_Pass(t *testing.T) {
	result, err := Run(chemostatScenario(t))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	require.NotNil(t, result.Derivation)
	assert.Equal(t, "chemostat", result.Snapshot.Network)
	assert.Equal(t, "linear", result.Snapshot.Method)
	assert.Equal(t, "-E*P_0 + P_1*q_A", result.Snapshot.Num)
	require.Len(t, result.Snapshot.Params, 2)
	assert.Equal(t, SnapshotParam{Name: "P_0", Expr: "K_B*kappa_R1", Units: "per_sec"}, result.Snapshot.Params[0])
}

func TestRun_ExpectMismatch(t *testing.T) {
	s := chemostatScenario(t)
	s.Expect.Method = "diagram"
	s.Expect.Num = "P_1*q_A"
	s.Expect.Quantities = []string{"q_A"}
	s.Expect.Params = []ExpectParam{{Name: "P_0", Expr: "K_A*kappa_R1", Units: "per_fmol"}, {Name: "P_7", Expr: "1"}}
	fallback := true
	s.Expect.Fallback = &fallback

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	joined := joinErrors(result.Errors)
	for _, want := range []string{
		"method: expected diagram, got linear",
		"fallback: expected true, got false",
		"num: expected P_1*q_A",
		"P_0: expected K_A*kappa_R1, got K_B*kappa_R1",
		"P_0 units: expected per_fmol, got per_sec",
		"params: P_7 not found",
		"quantities: expected [q_A], got [E q_A]",
	} {
		assert.Contains(t, joined, want)
	}
}

func TestRun_ExpectedError(t *testing.T) {
	s := chemostatScenario(t)
	s.Method = "diagram"
	s.Expect = Expect{Error: KindUnsupportedTopology}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, KindUnsupportedTopology, result.Snapshot.Error)
	assert.Nil(t, result.Derivation)

	s.Expect.Error = KindDegenerateNetwork
	result, err = Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected degenerate_network error, got unsupported_topology")
}

func TestRun_UnexpectedSuccess(t *testing.T) {
	s := chemostatScenario(t)
	s.Expect = Expect{Error: KindUnsupportedScale}

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "expected unsupported_scale error, derivation succeeded")
}

func TestRun_UnexpectedError(t *testing.T) {
	s := chemostatScenario(t)
	s.Method = "diagram"

	result, err := Run(s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "derivation failed")
}

func TestRun_InputFormat(t *testing.T) {
	s := chemostatScenario(t)
	s.Network = filepath.Join(t.TempDir(), "nothing_f.csv")
	s.Expect = Expect{Error: KindInputFormat}

	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_WithConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Solver.AutoThreshold = 0 // diagram first, then fall back
	s := chemostatScenario(t)
	fallback := true
	s.Expect.Fallback = &fallback

	result, err := Run(s, WithConfig(cfg))
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.True(t, result.Snapshot.Fallback)
}

func TestRun_WithLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := Run(chemostatScenario(t), WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("scenario complete").Len())
	assert.Equal(t, 1, logs.FilterMessage("derivation complete").Len())
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&compiler.InputFormatError{Code: compiler.ErrReadFile}, KindInputFormat},
		{&compiler.CompileError{Field: "cue"}, KindInputFormat},
		{&steady.UnsupportedTopologyError{Reason: "x"}, KindUnsupportedTopology},
		{&steady.UnsupportedScaleError{Metric: "terms"}, KindUnsupportedScale},
		{&steady.DegenerateNetworkError{}, KindDegenerateNetwork},
		{expr.ErrZeroDenominator, KindZeroDenominator},
		{errors.New("boom"), KindOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorKind(tt.err), "%v", tt.err)
	}
}

// TestRepositoryScenarios runs every scenario under testdata/scenarios.
func TestRepositoryScenarios(t *testing.T) {
	files, err := FindScenarios(scenariosDir, "")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		scenario, err := LoadScenario(file)
		require.NoError(t, err, file)
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestGoldenScenarios(t *testing.T) {
	for _, name := range []string{"chemostat", "enzyme", "dimer"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join(scenariosDir, name+".yaml"))
			require.NoError(t, err)
			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshotMarshal(t *testing.T) {
	s := Snapshot{
		Scenario: "x",
		Hash:     "abc",
		Method:   "linear",
		Fallback: true,
		Params:   []SnapshotParam{{Name: "P_0", Expr: "K_A", Units: "per_fmol"}},
	}
	data, err := s.Marshal()
	require.NoError(t, err)
	assert.Equal(t,
		`{"fallback":true,"method":"linear","params":[{"expr":"K_A","name":"P_0","units":"per_fmol"}],"scenario":"x"}`,
		string(data))
}

func joinErrors(errs []string) string {
	out := ""
	for _, e := range errs {
		out += e + "\n"
	}
	return out
}
