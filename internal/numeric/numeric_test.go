package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/steady"
	"github.com/roach88/bondgraph/internal/testutil"
)

func model(t *testing.T, n *ir.Network) *steady.Model {
	t.Helper()
	m, err := steady.NewModel(n)
	require.NoError(t, err)
	return m
}

func TestSymbols(t *testing.T) {
	assert.Equal(t,
		[]string{"E", "K_A", "K_B", "K_P", "K_S", "kappa_R1", "kappa_R2", "q_P", "q_S"},
		Symbols(model(t, testutil.Enzyme())))

	syms := Symbols(model(t, testutil.Transporter()))
	for _, s := range []string{"F", "R", "T", "V_m", "q_Ao", "q_Ai"} {
		assert.Contains(t, syms, s)
	}
	assert.NotContains(t, syms, expr.VoltageFactor)
}

func TestSamplePoints(t *testing.T) {
	syms := []string{"K_A", "V_m", "F"}
	a := SamplePoints(syms, 4, 11)
	b := SamplePoints(syms, 4, 11)
	require.Len(t, a, 4)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[0]["K_A"], a[1]["K_A"])

	for _, env := range a {
		assert.GreaterOrEqual(t, env["K_A"], 0.5)
		assert.Less(t, env["K_A"], 2.0)
		assert.GreaterOrEqual(t, env["V_m"], -0.05)
		assert.Less(t, env["V_m"], 0.05)
		assert.Equal(t, 96485.0, env["F"])
		assert.Equal(t, 293.0, env["T"])
	}
}

func TestSteadyStateChemostat(t *testing.T) {
	m := model(t, testutil.Chemostat())
	env := Physical()
	for k, v := range map[string]float64{"E": 2, "K_A": 3, "K_B": 0.5, "q_A": 1.5, "kappa_R1": 4} {
		env[k] = v
	}
	sol, err := SteadyState(m, env)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sol.Quantities[0], 1e-12)
	assert.InDelta(t, 4*(3*1.5-0.5*2), sol.Fluxes[0], 1e-12)
}

func TestCrossCheckSymbolicSolvers(t *testing.T) {
	tests := []struct {
		net    *ir.Network
		solver func(*steady.Model, steady.Options) (*steady.Flux, error)
	}{
		{testutil.Enzyme(), steady.SolveLinear},
		{testutil.Enzyme(), steady.SolveDiagram},
		{testutil.ThreeState(), steady.SolveDiagram},
		{testutil.Transporter(), steady.SolveDiagram},
		{testutil.Transporter(), steady.SolveLinear},
		{testutil.Branched(), steady.SolveLinear},
		{testutil.Catalyst(), steady.SolveDiagram},
		{testutil.Chemostat(), steady.SolveLinear},
	}
	for _, tt := range tests {
		t.Run(tt.net.Name, func(t *testing.T) {
			m := model(t, tt.net)
			flux, err := tt.solver(m, steady.Options{})
			require.NoError(t, err)

			checks, err := CrossCheck(m, flux, SamplePoints(Symbols(m), 5, 42))
			require.NoError(t, err)
			require.Len(t, checks, 5)
			assert.Less(t, MaxRelErr(checks), 1e-9)
		})
	}
}

func TestSteadyStateSingular(t *testing.T) {
	m := model(t, testutil.Isolated())
	_, err := SteadyState(m, SamplePoints(Symbols(m), 1, 1)[0])
	assert.ErrorIs(t, err, ErrSingular)
}

func TestSteadyStateMissingSymbol(t *testing.T) {
	m := model(t, testutil.Enzyme())
	_, err := SteadyState(m, expr.Env{"E": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no value for symbol")
}

func TestSteadyStateFluxUnknownReaction(t *testing.T) {
	m := model(t, testutil.Enzyme())
	_, err := SteadyStateFlux(m, "R9", Physical())
	assert.Error(t, err)
}

func TestRelErr(t *testing.T) {
	assert.Equal(t, 0.0, relErr(0, 0))
	assert.InDelta(t, 0.5, relErr(1, 2), 1e-15)
	assert.Equal(t, 0.0, MaxRelErr(nil))
}
