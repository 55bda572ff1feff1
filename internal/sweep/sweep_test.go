package sweep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/expr"
)

// michaelis is q_S/(K + q_S).
func michaelis() expr.Ratio {
	return expr.Ratio{Num: expr.Var("q_S"), Den: expr.Var("K").Add(expr.Var("q_S"))}
}

func TestRun(t *testing.T) {
	env := expr.Env{"K": 1}
	s, err := Run(michaelis(), "q_S", 0, 3, 4, env)
	require.NoError(t, err)

	assert.Equal(t, "q_S", s.Param)
	require.Len(t, s.Points, 4)
	want := []Point{{0, 0}, {1, 0.5}, {2, 2.0 / 3}, {3, 0.75}}
	for i, p := range s.Points {
		assert.InDelta(t, want[i].X, p.X, 1e-12)
		assert.InDelta(t, want[i].Y, p.Y, 1e-12)
	}
	assert.NotContains(t, env, "q_S")

	lo, hi := s.Range()
	assert.InDelta(t, 0, lo, 1e-12)
	assert.InDelta(t, 0.75, hi, 1e-12)
}

func TestRunVoltage(t *testing.T) {
	r := expr.Ratio{Num: expr.Var(expr.VoltageFactor), Den: expr.One()}
	assert.Equal(t, []string{"F", "R", "T", "V_m"}, Symbols(r))

	s, err := Run(r, "V_m", -0.1, 0.1, 3, expr.Env{"F": 96485, "R": 8.31, "T": 293})
	require.NoError(t, err)
	assert.InDelta(t, 1, s.Points[1].Y, 1e-12)
	assert.Greater(t, s.Points[2].Y, s.Points[0].Y)
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		param string
		from  float64
		to    float64
		steps int
		env   expr.Env
		want  string
	}{
		{"too few steps", "q_S", 0, 1, 1, expr.Env{"K": 1}, "at least 2 steps"},
		{"empty range", "q_S", 1, 1, 5, expr.Env{"K": 1}, "empty range"},
		{"unknown param", "q_P", 0, 1, 5, expr.Env{"K": 1}, "q_P does not appear"},
		{"unbound symbol", "q_S", 0, 1, 5, expr.Env{}, "no value for symbol K"},
		{"zero denominator", "q_S", 0, 1, 2, expr.Env{"K": 0}, "zero denominator"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(michaelis(), tt.param, tt.from, tt.to, tt.steps, tt.env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPlot(t *testing.T) {
	s, err := Run(michaelis(), "q_S", 0, 10, 50, expr.Env{"K": 2})
	require.NoError(t, err)

	for _, name := range []string{"flux.png", "flux.svg"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, Plot(s, "enzyme R1", path))
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestPlotErrors(t *testing.T) {
	assert.Error(t, Plot(&Series{Param: "x"}, "", filepath.Join(t.TempDir(), "a.png")))

	s := &Series{Param: "x", Points: []Point{{0, 1}, {1, 2}}}
	assert.Error(t, Plot(s, "", filepath.Join(t.TempDir(), "a.bmp")))
}
