package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/steady"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, MethodAuto, cfg.Solver.Method)
	assert.Equal(t, 4, cfg.Solver.AutoThreshold)
	assert.Equal(t, map[string]float64{"F": 96485, "R": 8.31, "T": 293}, cfg.Constants)
	assert.Equal(t, "t", cfg.Output.VOI)
	assert.Empty(t, cfg.Cache.Path)

	opts := cfg.Options("R2")
	assert.Equal(t, "R2", opts.Reaction)
	assert.Equal(t, steady.DefaultMaxLinearSpecies, opts.MaxLinearSpecies)
	assert.Equal(t, steady.DefaultMaxTerms, opts.MaxTerms)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
solver:
  method: diagram
  max_terms: 500
constants:
  T: 310
output:
  voi: time
`))
	require.NoError(t, err)
	assert.Equal(t, "diagram", cfg.Solver.Method)
	assert.Equal(t, 500, cfg.Solver.MaxTerms)
	assert.Equal(t, steady.DefaultMaxDiagramEdges, cfg.Solver.MaxDiagramEdges)
	assert.Equal(t, 310.0, cfg.Constants["T"])
	assert.Equal(t, 96485.0, cfg.Constants["F"])
	assert.Equal(t, "time", cfg.Output.VOI)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, 310.0, cfg.Env()["T"])
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "solver:\n  methd: linear\n", "field methd not found"},
		{"bad method", "solver:\n  method: hill\n", "solver.method must be one of: linear diagram auto"},
		{"zero threshold", "solver:\n  auto_threshold: 0\n", "solver.auto_threshold must be at least 1"},
		{"too many species", "solver:\n  max_linear_species: 100\n", "solver.max_linear_species must be at most 64"},
		{"unknown constant", "constants:\n  G: 6.7\n", "must be one of: F R T"},
		{"negative constant", "constants:\n  T: -1\n", "must be greater than 0"},
		{"bad voi", "output:\n  voi: 1t\n", "output.voi must be a variable name"},
		{"empty dir", "output:\n  dir: \"\"\n", "output.dir is required"},
		{"not yaml", "solver: [", "failed to parse YAML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bg2cellml.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  path: from-file.db\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.Cache.Path)

	t.Setenv(EnvCache, "from-env.db")
	t.Setenv(EnvMethod, "linear")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.db", cfg.Cache.Path)
	assert.Equal(t, "linear", cfg.Solver.Method)

	t.Setenv(EnvMethod, "bogus")
	_, err = Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLoadNoFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, MethodAuto, cfg.Solver.Method)
}
