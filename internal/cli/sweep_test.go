package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/bg"
	"github.com/roach88/bondgraph/internal/expr"
)

func TestSweepJSON(t *testing.T) {
	var res SweepResult
	out, err := execute(t, "--format", "json", "sweep", "--param", "q_A", "--from", "0", "--to", "2", "--steps", "3",
		"--set", "q_B=0", filepath.Join(networksDir, "chemostat_f.csv"))
	require.NoError(t, err)
	decode(t, out, &res)

	require.Len(t, res.Series.Points, 3)
	assert.Equal(t, "q_A", res.Series.Param)
	assert.InDelta(t, 0.0, res.Series.Points[0].X, 1e-12)
	assert.InDelta(t, 2.0, res.Series.Points[2].X, 1e-12)
	assert.Less(t, res.Series.Points[0].Y, res.Series.Points[2].Y)
	assert.NotContains(t, res.Fixed, "q_A")
}

func TestSweepPlot(t *testing.T) {
	plotPath := filepath.Join(t.TempDir(), "flux.png")
	out, err := execute(t, "sweep", "--param", "q_S", "--steps", "5", "--plot", plotPath, filepath.Join(networksDir, "enzyme_f.csv"))
	require.NoError(t, err)
	assert.Contains(t, out, "plot: "+plotPath)

	info, err := os.Stat(plotPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestSweepErrors(t *testing.T) {
	path := filepath.Join(networksDir, "enzyme_f.csv")
	tests := []struct {
		name string
		args []string
	}{
		{"missing param", []string{"sweep", path}},
		{"unknown param", []string{"sweep", "--param", "Z", path}},
		{"one step", []string{"sweep", "--param", "q_S", "--steps", "1", path}},
		{"bad set", []string{"sweep", "--param", "q_S", "--set", "E=lots", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))
		})
	}
}

func TestSweepEnv(t *testing.T) {
	r := expr.Ratio{
		Num: expr.Var("K_A").Mul(expr.Var(expr.VoltageFactor)),
		Den: expr.Var("q_A"),
	}
	env, err := sweepEnv(r, expr.Env{bg.Faraday: 2}, map[string]string{"q_A": "3"})
	require.NoError(t, err)

	assert.Equal(t, 1.0, env["K_A"])
	assert.Equal(t, 3.0, env["q_A"])
	assert.Equal(t, 2.0, env[bg.Faraday])
	assert.Equal(t, 0.0, env[bg.Voltage])
	assert.Equal(t, 1.0, env[bg.Temperature])
}
