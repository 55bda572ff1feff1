package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoly(t *testing.T) {
	tests := []struct {
		in   string
		want Poly
	}{
		{"0", Zero()},
		{"1", One()},
		{"x", Var("x")},
		{"-E*P_0 + P_1*q_A", FromMonomial(Mono("P_1", "q_A")).Sub(FromMonomial(Mono("E", "P_0")))},
		{"1/2*x^2 - 3", VarPow("x", 2).Scale(rat(1, 2)).Sub(Int(3))},
		{"2*x*x", VarPow("x", 2).Scale(rat(2, 1))},
		{"1e-3*x", Var("x").Scale(rat(1, 1000))},
		{"K_A*" + VoltageFactor + " + 1", FromMonomial(Mono("K_A", VoltageFactor)).Add(One())},
		{"- - x", Var("x")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePoly(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestParsePolyRoundTrip(t *testing.T) {
	p := Sum(
		FromMonomial(Mono("K_A", "K_P", "kappa_R2", "q_P")),
		VarPow("q_S", 3).Scale(rat(-5, 7)),
		FromMonomial(Mono("E", VoltageFactor)),
		Int(4),
	)
	back, err := ParsePoly(p.String())
	require.NoError(t, err)
	assert.True(t, back.Equal(p), "%s != %s", back, p)
}

func TestParsePolyErrors(t *testing.T) {
	for _, in := range []string{"", "x +", "x + + y", "x^0", "x^y", "3x", "exp(x", "a)"} {
		_, err := ParsePoly(in)
		assert.Error(t, err, in)
	}
}
