package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/testutil"
)

// writeScenario writes a chemostat network and a scenario referring to it
// by relative path, returning the scenario path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, testutil.Chemostat())
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
network: chemostat_f.csv
reaction: R1
method: linear
expect:
  method: linear
  num: "-E*P_0 + P_1*q_A"
  params:
    - {name: P_0, expr: "K_B*kappa_R1", units: per_sec}
  quantities: [E, q_A]
assertions:
  - type: numeric_agrees
    samples: 3
    tolerance: 1e-9
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "chemostat_f.csv"), scenario.Network)
	assert.Equal(t, "R1", scenario.Reaction)
	assert.Equal(t, "linear", scenario.Method)
	assert.Equal(t, "linear", scenario.Expect.Method)
	require.Len(t, scenario.Expect.Params, 1)
	assert.Equal(t, "per_sec", scenario.Expect.Params[0].Units)
	assert.Equal(t, []string{"E", "q_A"}, scenario.Expect.Quantities)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 3, scenario.Assertions[0].Samples)
	assert.InDelta(t, 1e-9, scenario.Assertions[0].Tolerance, 1e-15)
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	path := writeScenario(t, `
name: based
description: "Network path resolves against the base"
network: chemostat_f.csv
expect:
  method: linear
`)
	_, err := LoadScenarioWithBasePath(path, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network file not found")

	scenario, err := LoadScenarioWithBasePath(path, filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(scenario.Network))
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "missing name",
			body: "description: d\nnetwork: chemostat_f.csv\nexpect: {method: linear}\n",
			want: "name is required",
		},
		{
			name: "missing description",
			body: "name: n\nnetwork: chemostat_f.csv\nexpect: {method: linear}\n",
			want: "description is required",
		},
		{
			name: "missing network",
			body: "name: n\ndescription: d\nexpect: {method: linear}\n",
			want: "network is required",
		},
		{
			name: "unknown field",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpects: {method: linear}\n",
			want: "failed to parse YAML",
		},
		{
			name: "bad method",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nmethod: magic\nexpect: {method: linear}\n",
			want: "method must be one of",
		},
		{
			name: "empty expect",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\n",
			want: "expect is required",
		},
		{
			name: "unknown error kind",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {error: boom}\n",
			want: `unknown error kind "boom"`,
		},
		{
			name: "bad num",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {num: \"x +\"}\n",
			want: "expect.num",
		},
		{
			name: "param without name",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {params: [{expr: x}]}\n",
			want: "expect.params[0]: name is required",
		},
		{
			name: "unknown assertion",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {method: linear}\nassertions: [{type: trace_order}]\n",
			want: `unknown assertion type "trace_order"`,
		},
		{
			name: "cellml without models",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {method: linear}\nassertions: [{type: cellml_family}]\n",
			want: "models list is required",
		},
		{
			name: "symbols without list",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {method: linear}\nassertions: [{type: flux_symbols}]\n",
			want: "symbols list is required",
		},
		{
			name: "negative samples",
			body: "name: n\ndescription: d\nnetwork: chemostat_f.csv\nexpect: {method: linear}\nassertions: [{type: numeric_agrees, samples: -1}]\n",
			want: "samples must be non-negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.yaml", "a.yml", "notes.txt", "sub/c.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.yml"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "sub", "c.yaml"),
	}, files)

	files, err = FindScenarios(dir, "[bc]")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	_, err = FindScenarios(dir, "[")
	assert.Error(t, err)
}
