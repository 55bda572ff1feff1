package compiler

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/testutil"
)

func TestValidateFixtures(t *testing.T) {
	for _, n := range []*ir.Network{
		testutil.Enzyme(),
		testutil.ThreeState(),
		testutil.Catalyst(),
		testutil.Chemostat(),
		testutil.Transporter(),
		testutil.Branched(),
	} {
		t.Run(n.Name, func(t *testing.T) {
			assert.Empty(t, Validate(n))
		})
	}
}

func TestValidateEmptyNetwork(t *testing.T) {
	errs := Validate(ir.NewNetwork("x", nil, nil))
	require.Len(t, errs, 2)
	assert.Equal(t, ErrEmptyNetwork, errs[0].Code)
	assert.Equal(t, "species", errs[0].Field)
	assert.Equal(t, "reactions", errs[1].Field)
}

func TestValidateDuplicateSpecies(t *testing.T) {
	n := ir.NewNetwork("x",
		[]ir.Component{{Name: "A", Kind: ir.KindCe}, {Name: "A", Kind: ir.KindSe}},
		[]ir.Component{{Name: "R1", Kind: ir.KindRe}},
	)
	n.Forward[0][0].SetInt64(1)
	n.Reverse[1][0].SetInt64(1)

	errs := Validate(n)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrDuplicateSpecies, errs[0].Code)
	assert.Equal(t, "A", errs[0].Name)
}

func TestValidateWrongKinds(t *testing.T) {
	n := ir.NewNetwork("x",
		[]ir.Component{{Name: "A", Kind: ir.KindRe}},
		[]ir.Component{{Name: "R1", Kind: ir.KindCe}},
	)
	n.Forward[0][0].SetInt64(1)

	errs := Validate(n)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrSpeciesKind, errs[0].Code)
	assert.Equal(t, ErrReactionKind, errs[1].Code)
}

func TestValidateEmptyName(t *testing.T) {
	n := ir.NewNetwork("x",
		[]ir.Component{{Name: " ", Kind: ir.KindCe}},
		[]ir.Component{{Name: "R1", Kind: ir.KindRe}},
	)
	n.Forward[0][0].SetInt64(1)

	errs := Validate(n)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyName, errs[0].Code)
	assert.Equal(t, "species[0].name", errs[0].Field)
}

func TestValidateNegativeCoefficient(t *testing.T) {
	n := testutil.Enzyme()
	n.Reverse[1][0].SetInt64(-1)

	errs := Validate(n)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrNegativeCoefficient, errs[0].Code)
	assert.Equal(t, "N_r[1][0]", errs[0].Field)
	assert.Equal(t, "R1", errs[0].Name)
}

func TestValidateEmptyReaction(t *testing.T) {
	n := ir.NewNetwork("x",
		[]ir.Component{{Name: "A", Kind: ir.KindCe}},
		[]ir.Component{{Name: "R1", Kind: ir.KindRe}, {Name: "R2", Kind: ir.KindRe}},
	)
	n.Forward[0][0].SetInt64(1)

	errs := Validate(n)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrEmptyReaction, errs[0].Code)
	assert.Equal(t, "R2", errs[0].Name)
}

func TestValidateShapeMismatch(t *testing.T) {
	n := testutil.Enzyme()
	n.Forward = n.Forward[:2]
	n.Reverse[0][1] = nil

	errs := Validate(n)
	require.Len(t, errs, 2)
	assert.Equal(t, ErrShapeMismatch, errs[0].Code)
	assert.Equal(t, "N_f", errs[0].Field)
	assert.Equal(t, "N_r", errs[1].Field)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	n := ir.NewNetwork("x",
		[]ir.Component{{Name: "A", Kind: ir.KindCe}, {Name: "A", Kind: ir.KindCe}},
		[]ir.Component{{Name: "", Kind: ir.KindRe}},
	)
	n.Forward[0][0] = big.NewRat(-1, 2)

	errs := Validate(n)
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	assert.Equal(t, []string{ErrDuplicateSpecies, ErrEmptyName, ErrNegativeCoefficient}, codes)
}

func TestValidationErrorFormat(t *testing.T) {
	err := ValidationError{Field: "species[1].name", Message: "duplicate species name: \"A\"", Code: ErrDuplicateSpecies}
	assert.Equal(t, `[E202] species[1].name: duplicate species name: "A"`, err.Error())
}
