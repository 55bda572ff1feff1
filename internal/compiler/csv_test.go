package compiler

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/testutil"
)

func readPair(t *testing.T, fwd, rev string) (*ir.Network, error) {
	t.Helper()
	return ReadStoichiometry("test", strings.NewReader(fwd), "test_f.csv", strings.NewReader(rev), "test_r.csv")
}

func requireFormatError(t *testing.T, err error, code string) *InputFormatError {
	t.Helper()
	require.Error(t, err)
	var ife *InputFormatError
	require.True(t, errors.As(err, &ife), "want *InputFormatError, got %T: %v", err, err)
	assert.Equal(t, code, ife.Code, ife.Error())
	return ife
}

func TestLoadStoichiometry(t *testing.T) {
	dir := t.TempDir()
	want := testutil.Enzyme()
	fwd := testutil.WriteCSV(t, dir, want)

	got, err := LoadStoichiometry(fwd, "")
	require.NoError(t, err)
	assert.Equal(t, "enzyme", got.Name)
	assert.Equal(t, want.Species, got.Species)
	assert.Equal(t, want.Reactions, got.Reactions)
	assert.Equal(t, ir.MustNetworkHash(want), ir.MustNetworkHash(got))
}

func TestLoadStoichiometryExplicitReverse(t *testing.T) {
	dir := t.TempDir()
	n := testutil.Catalyst()
	fwd := filepath.Join(dir, "cat_forward.csv")
	rev := filepath.Join(dir, "cat_backward.csv")
	testutil.WriteFile(t, fwd, testutil.MatrixCSV(n, ir.Forward))
	testutil.WriteFile(t, rev, testutil.MatrixCSV(n, ir.Reverse))

	got, err := LoadStoichiometry(fwd, rev)
	require.NoError(t, err)
	assert.Equal(t, "cat", got.Name)
	assert.Equal(t, ir.MustNetworkHash(n), ir.MustNetworkHash(got))
}

func TestLoadStoichiometryMissingReverse(t *testing.T) {
	dir := t.TempDir()
	fwd := filepath.Join(dir, "lonely_f.csv")
	testutil.WriteFile(t, fwd, testutil.MatrixCSV(testutil.Enzyme(), ir.Forward))

	_, err := LoadStoichiometry(fwd, "")
	ife := requireFormatError(t, err, ErrReadFile)
	assert.Equal(t, filepath.Join(dir, "lonely_r.csv"), ife.File)
}

func TestReversePath(t *testing.T) {
	p, err := ReversePath("data/enzyme_f.csv")
	require.NoError(t, err)
	assert.Equal(t, "data/enzyme_r.csv", p)

	_, err = ReversePath("data/enzyme.csv")
	requireFormatError(t, err, ErrReversePath)
}

func TestNetworkName(t *testing.T) {
	assert.Equal(t, "enzyme", NetworkName("x/enzyme_f.csv"))
	assert.Equal(t, "SLC2", NetworkName("SLC2_GLUT1_f.csv"))
	assert.Equal(t, "plain", NetworkName("plain.csv"))
}

func TestReadStoichiometryRationalAndSpaces(t *testing.T) {
	fwd := "*,*,Re\n*,*,R1\nCe, A , 2\nCe,B,0\n"
	rev := "*,*,Re\n*,*,R1\nCe,A,0\nCe,B, 1/2\n"
	n, err := readPair(t, fwd, rev)
	require.NoError(t, err)
	assert.Equal(t, "A", n.Species[0].Name)
	assert.Equal(t, "2", n.Forward[0][0].RatString())
	assert.Equal(t, "1/2", n.Reverse[1][0].RatString())
}

func TestReadStoichiometryReverseLabelsIgnored(t *testing.T) {
	fwd := "*,*,Re\n*,*,R1\nCe,A,1\nCe,B,0\n"
	rev := "x,y,Re\nx,y,other\n,,0\n,,1\n"
	n, err := readPair(t, fwd, rev)
	require.NoError(t, err)
	assert.Equal(t, "R1", n.Reactions[0].Name)
	assert.Equal(t, "1", n.Reverse[1][0].RatString())
}

func TestReadStoichiometryErrors(t *testing.T) {
	good := "*,*,Re\n*,*,R1\nCe,A,1\nCe,B,0\n"
	goodRev := "*,*,Re\n*,*,R1\nCe,A,0\nCe,B,1\n"

	tests := []struct {
		name     string
		fwd, rev string
		code     string
		row, col int
	}{
		{
			name: "duplicate species",
			fwd:  "*,*,Re\n*,*,R1\nCe,A,1\nCe,A,0\n",
			rev:  goodRev,
			code: ErrDuplicateSpecies, row: 4, col: 2,
		},
		{
			name: "duplicate reaction",
			fwd:  "*,*,Re,Re\n*,*,R1,R1\nCe,A,1,0\nCe,B,0,1\n",
			rev:  "*,*,Re,Re\n*,*,R1,R1\nCe,A,0,1\nCe,B,1,0\n",
			code: ErrDuplicateReaction, row: 2, col: 4,
		},
		{
			name: "empty cell",
			fwd:  "*,*,Re\n*,*,R1\nCe,A,\nCe,B,0\n",
			rev:  goodRev,
			code: ErrEmptyCell, row: 3, col: 3,
		},
		{
			name: "ragged row",
			fwd:  "*,*,Re\n*,*,R1\nCe,A,1,0\nCe,B,0\n",
			rev:  goodRev,
			code: ErrRaggedRow, row: 3,
		},
		{
			name: "negative coefficient",
			fwd:  good,
			rev:  "*,*,Re\n*,*,R1\nCe,A,0\nCe,B,-1\n",
			code: ErrNegativeCoefficient, row: 4, col: 3,
		},
		{
			name: "bad number",
			fwd:  "*,*,Re\n*,*,R1\nCe,A,one\nCe,B,0\n",
			rev:  goodRev,
			code: ErrBadNumber, row: 3, col: 3,
		},
		{
			name: "unknown kind",
			fwd:  "*,*,Re\n*,*,R1\nXe,A,1\nCe,B,0\n",
			rev:  goodRev,
			code: ErrUnknownKind, row: 3, col: 1,
		},
		{
			name: "reaction kind on row",
			fwd:  "*,*,Re\n*,*,R1\nRe,A,1\nCe,B,0\n",
			rev:  goodRev,
			code: ErrSpeciesKind, row: 3, col: 1,
		},
		{
			name: "species kind on column",
			fwd:  "*,*,Ce\n*,*,R1\nCe,A,1\nCe,B,0\n",
			rev:  goodRev,
			code: ErrReactionKind, row: 1, col: 3,
		},
		{
			name: "row count mismatch",
			fwd:  good,
			rev:  "*,*,Re\n*,*,R1\nCe,A,0\n",
			code: ErrShapeMismatch,
		},
		{
			name: "no species",
			fwd:  "*,*,Re\n*,*,R1\n",
			rev:  "*,*,Re\n*,*,R1\n",
			code: ErrEmptyNetwork,
		},
		{
			name: "no reactions",
			fwd:  "*,*\n*,*\nCe,A\n",
			rev:  "*,*\n*,*\nCe,A\n",
			code: ErrEmptyNetwork, row: 1,
		},
		{
			name: "reaction with no participants",
			fwd:  "*,*,Re\n*,*,R1\nCe,A,0\nCe,B,0\n",
			rev:  "*,*,Re\n*,*,R1\nCe,A,0\nCe,B,0\n",
			code: ErrEmptyReaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := readPair(t, tt.fwd, tt.rev)
			assert.Nil(t, n)
			ife := requireFormatError(t, err, tt.code)
			assert.Equal(t, tt.row, ife.Row, "row")
			assert.Equal(t, tt.col, ife.Col, "col")
		})
	}
}

func TestInputFormatErrorMessage(t *testing.T) {
	err := &InputFormatError{File: "e_f.csv", Row: 4, Col: 2, Name: "A", Code: ErrDuplicateSpecies, Message: "duplicate component name"}
	assert.Equal(t, "e_f.csv:4:2: [E202] A: duplicate component name", err.Error())
	assert.True(t, IsInputFormatError(err))
	assert.False(t, IsInputFormatError(errors.New("other")))

	bare := &InputFormatError{Code: ErrEmptyReaction, Message: "empty"}
	assert.Equal(t, "[E208] empty", bare.Error())
}
