package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/testutil"
)

func TestDeriveText(t *testing.T) {
	out, err := execute(t, "derive", filepath.Join(networksDir, "enzyme_f.csv"))
	require.NoError(t, err)

	assert.Contains(t, out, "enzyme R1 (linear)")
	assert.Contains(t, out, "v = (-E*P_0*q_P + E*P_1*q_S) / (P_2*q_P + P_3*q_S + P_4)")
	assert.Contains(t, out, "P_4 = K_B*kappa_R1 + K_B*kappa_R2 [per_sec]")
}

func TestDeriveJSON(t *testing.T) {
	var res DeriveResult
	out, err := execute(t, "--format", "json", "derive", filepath.Join(networksDir, "chemostat_f.csv"))
	require.NoError(t, err)

	resp := decode(t, out, &res)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "chemostat", res.Network)
	assert.Equal(t, "R1", res.Reaction)
	assert.Equal(t, "linear", res.Method)
	assert.False(t, res.Cached)
	assert.Equal(t, "-E*P_0 + P_1*q_A", res.Num)
	require.Len(t, res.Params, 2)
	assert.Equal(t, "P_0", res.Params[0].Name)
}

func TestDeriveReaction(t *testing.T) {
	var res DeriveResult
	out, err := execute(t, "--format", "json", "derive", "--reaction", "R2", enzymeCSV(t))
	require.NoError(t, err)
	decode(t, out, &res)
	assert.Equal(t, "R2", res.Reaction)

	_, err = execute(t, "derive", "--reaction", "R9", enzymeCSV(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDeriveUnsupported(t *testing.T) {
	out, err := execute(t, "--format", "json", "derive", "--method", "diagram", filepath.Join(networksDir, "chemostat_f.csv"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decode(t, out, nil)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTopology, resp.Error.Code)
}

func TestDeriveDegenerate(t *testing.T) {
	out, err := execute(t, "--format", "json", "derive", "--method", "linear", "--network", "isolated", filepath.Join(networksDir, "networks.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeDegenerate, decode(t, out, nil).Error.Code)
}

func TestDeriveUnknownMethod(t *testing.T) {
	_, err := execute(t, "derive", "--method", "magic", enzymeCSV(t))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDeriveCache(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "cache.db")
	fwd := testutil.WriteCSV(t, t.TempDir(), testutil.ThreeState())

	var first, second DeriveResult
	out, err := execute(t, "--cache", cache, "--format", "json", "derive", fwd)
	require.NoError(t, err)
	decode(t, out, &first)
	assert.False(t, first.Cached)

	out, err = execute(t, "--cache", cache, "--format", "json", "derive", fwd)
	require.NoError(t, err)
	decode(t, out, &second)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Num, second.Num)
	assert.Equal(t, first.Den, second.Den)

	text, err := execute(t, "--cache", cache, "derive", fwd)
	require.NoError(t, err)
	assert.Contains(t, text, "(linear, cached)")
}

func TestDeriveFallback(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg.yaml")
	testutil.WriteFile(t, cfgPath, "solver:\n  max_linear_species: 1\n")

	out, err := execute(t, "--config", cfgPath, "derive", enzymeCSV(t))
	require.NoError(t, err)
	assert.Contains(t, out, "(diagram, fallback)")
}
