package expr

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatioRejectsZeroDenominator(t *testing.T) {
	_, err := NewRatio(x, Zero())
	require.ErrorIs(t, err, ErrZeroDenominator)
}

func TestRatioCancel(t *testing.T) {
	r, err := NewRatio(x.Pow(2).Sub(y.Pow(2)), x.Add(y).Scale(rat(2, 1)))
	require.NoError(t, err)

	got := r.Cancel()
	assert.Equal(t, "1/2*x - 1/2*y", got.Num.String())
	assert.True(t, got.Den.IsOne())
	assert.True(t, got.Equivalent(r))
}

func TestRatioNormalizeSign(t *testing.T) {
	r, err := NewRatio(x, y.Neg().Sub(Int(1)))
	require.NoError(t, err)

	got := r.Cancel()
	assert.Equal(t, "-x", got.Num.String())
	assert.Equal(t, "y + 1", got.Den.String())
	assert.Equal(t, "(-x)/(y + 1)", got.String())
}

func TestRatioZeroNumerator(t *testing.T) {
	r, err := NewRatio(Zero(), x.Add(y))
	require.NoError(t, err)

	got := r.Cancel()
	assert.True(t, got.Num.IsZero())
	assert.True(t, got.Den.IsOne())
}

func TestRatioCancelIsCanonical(t *testing.T) {
	// The same function written two ways cancels to the same representative.
	r1, _ := NewRatio(x.Mul(y).Add(x), y.Add(Int(1)).Mul(Int(3)))
	r2, _ := NewRatio(x.Scale(rat(2, 1)), Int(6))

	assert.True(t, r1.Cancel().Equal(r2.Cancel()))
	assert.Equal(t, []string{"x", "y"}, r1.Symbols())
}

func TestFactorContent(t *testing.T) {
	e := Var("E")
	p := Sum(e.Mul(Var("P_1")).Mul(Var("q_S")), e.Mul(Var("P_0")).Mul(Var("q_P")).Neg())

	f := FactorContent(p)
	assert.Equal(t, "E*(-P_0*q_P + P_1*q_S)", f.String())
	assert.True(t, f.Expand().Equal(p))

	single := FactorContent(x.Mul(y).Scale(rat(-6, 1)))
	assert.Equal(t, "-6*x*y", single.String())
	assert.True(t, single.Expand().Equal(x.Mul(y).Scale(rat(-6, 1))))

	assert.Equal(t, "0", FactorContent(Zero()).String())
	assert.Equal(t, "2*(x + 1)", FactorContent(x.Add(Int(1)).Scale(rat(2, 1))).String())
}

func TestSubstitute(t *testing.T) {
	p := x.Pow(2).Mul(y).Add(x)
	got := p.Substitute("x", a.Add(Int(1)))
	assert.Equal(t, "a^2*y + 2*a*y + a + y + 1", got.String())

	assert.True(t, p.Substitute("z", a).Equal(p))

	all := p.SubstituteAll([]string{"x", "y"}, map[string]Poly{"x": Int(2), "y": Int(3)})
	assert.Equal(t, "14", all.String())
}

func TestEval(t *testing.T) {
	p := x.Pow(2).Scale(rat(1, 2)).Add(y)
	v, err := p.Eval(Env{"x": 2, "y": 1})
	require.NoError(t, err)
	assert.InDelta(t, 3.0, v, 1e-12)

	_, err = p.Eval(Env{"x": 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "y")

	r, _ := NewRatio(x, y)
	_, err = r.Eval(Env{"x": 1, "y": 0})
	assert.ErrorIs(t, err, ErrZeroDenominator)
}

func TestEvalVoltageFactor(t *testing.T) {
	p := VarPow(VoltageFactor, 2)
	env := Env{"F": 96485, "R": 8.31, "T": 293, "V_m": 0.01}

	v, err := p.Eval(env)
	require.NoError(t, err)
	f, _ := env.Lookup(VoltageFactor)
	assert.InDelta(t, f*f, v, 1e-9)
	assert.Greater(t, f, 1.0)

	_, err = Env{"F": 1}.Lookup(VoltageFactor)
	assert.Error(t, err)
}

func TestPolyJSON(t *testing.T) {
	p := Sum(x.Pow(2).Scale(rat(-1, 3)), VarPow(VoltageFactor, 2).Mul(y), Int(4))

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back Poly
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, back.Equal(p), "decoded %s", back)

	assert.Error(t, json.Unmarshal([]byte(`[{"coef":"x"}]`), &back))
	assert.Error(t, json.Unmarshal([]byte(`[{"coef":"1","powers":[{"name":"x","exp":0}]}]`), &back))
}

func TestParseRat(t *testing.T) {
	for in, want := range map[string]string{"2": "2", "0.5": "1/2", " 3/4 ": "3/4", "1e-1": "1/10"} {
		r, err := ParseRat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r.RatString())
	}
	_, err := ParseRat("two")
	assert.Error(t, err)
}
