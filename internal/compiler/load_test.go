package compiler

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/testutil"
)

const twoNetworksCUE = enzymeCUE + `
network: chemostat: {
	species: {A: "Se", B: "Ce"}
	reactions: R1: {type: "Re", forward: {A: 1}, reverse: {B: 1}}
}
`

func TestLoadCSV(t *testing.T) {
	fwd := testutil.WriteCSV(t, t.TempDir(), testutil.Chemostat())

	n, err := Load(fwd, "", "")
	require.NoError(t, err)
	assert.Equal(t, "chemostat", n.Name)

	n, err = Load(fwd, "", "chemostat")
	require.NoError(t, err)
	assert.Equal(t, ir.MustNetworkHash(testutil.Chemostat()), ir.MustNetworkHash(n))

	_, err = Load(fwd, "", "enzyme")
	requireFormatError(t, err, ErrUnknownNetwork)
}

func TestLoadCUEFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nets.cue")
	testutil.WriteFile(t, path, twoNetworksCUE)

	n, err := Load(path, "", "")
	require.NoError(t, err)
	assert.Equal(t, "enzyme", n.Name)

	n, err = Load(path, "", "chemostat")
	require.NoError(t, err)
	assert.Equal(t, ir.MustNetworkHash(testutil.Chemostat()), ir.MustNetworkHash(n))

	_, err = Load(path, "", "dimer")
	ife := requireFormatError(t, err, ErrUnknownNetwork)
	assert.Contains(t, ife.Message, "enzyme, chemostat")
}

func TestLoadCUEDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, filepath.Join(dir, "nets.cue"), twoNetworksCUE)

	n, err := Load(dir, "", "chemostat")
	require.NoError(t, err)
	assert.Equal(t, "chemostat", n.Name)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none_f.csv"), "", "")
	requireFormatError(t, err, ErrReadFile)
}
