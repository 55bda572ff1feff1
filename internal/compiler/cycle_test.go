package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bondgraph/internal/ir"
	"github.com/roach88/bondgraph/internal/testutil"
)

// TestAnalyzeCycles_NoChemodynamic tests that a network without Ce species
// produces no warnings.
func TestAnalyzeCycles_NoChemodynamic(t *testing.T) {
	n := testutil.NewNetwork("x").
		Species(ir.KindSe, "S", "P").
		Reaction("R1", "S", "P").
		Build()
	assert.Empty(t, AnalyzeCycles(n))
}

// TestAnalyzeCycles_Chain tests that a linear chain produces no warnings.
func TestAnalyzeCycles_Chain(t *testing.T) {
	n := testutil.NewNetwork("x").
		Species(ir.KindCe, "A", "B", "C").
		Reaction("R1", "A", "B").
		Reaction("R2", "B", "C").
		Build()
	assert.Empty(t, AnalyzeCycles(n))
}

func TestAnalyzeCycles_Enzyme(t *testing.T) {
	warnings := AnalyzeCycles(testutil.Enzyme())
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
	assert.Equal(t, "Reaction cycle: A → B → A", warnings[0].Message)
	assert.Equal(t, "info", warnings[0].Level)
}

func TestAnalyzeCycles_ThreeState(t *testing.T) {
	warnings := AnalyzeCycles(testutil.ThreeState())
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"E1", "E2", "E3", "E1"}, warnings[0].Path)
}

// TestAnalyzeCycles_SelfLoop tests a catalyst that appears on both sides.
func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	warnings := AnalyzeCycles(testutil.Catalyst())
	require.Len(t, warnings, 1)
	assert.Equal(t, []string{"A", "A"}, warnings[0].Path)
	assert.Equal(t, "Species A converts to itself", warnings[0].Message)
}

// TestAnalyzeCycles_WrittenDirection tests that reactions are followed only
// in their written direction.
func TestAnalyzeCycles_WrittenDirection(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(testutil.Reversed()))
}

func TestAnalyzeCycles_IndependentCycles(t *testing.T) {
	n := testutil.NewNetwork("x").
		Species(ir.KindCe, "A", "B", "C", "D").
		Reaction("R1", "A", "B").
		Reaction("R2", "B", "A").
		Reaction("R3", "C", "D").
		Reaction("R4", "D", "C").
		Build()
	warnings := AnalyzeCycles(n)
	require.Len(t, warnings, 2)
	assert.Equal(t, []string{"A", "B", "A"}, warnings[0].Path)
	assert.Equal(t, []string{"C", "D", "C"}, warnings[1].Path)
}

func TestBuildSpeciesGraph_SkipsChemostats(t *testing.T) {
	g := buildSpeciesGraph(testutil.Enzyme())
	assert.Equal(t, []string{"A", "B"}, g.names)
	assert.Equal(t, [][]int{{1}, {0}}, g.next)
}

func TestSpeciesGraphComponents(t *testing.T) {
	g := speciesGraph{
		names: []string{"A", "B", "C"},
		next:  [][]int{{1}, {2}, {1}},
	}
	assert.Equal(t, [][]int{{0}, {1, 2}}, g.components())
}

func TestSpeciesGraphShortestCycle(t *testing.T) {
	// A -> B -> C -> D -> A with a chord C -> A.
	g := speciesGraph{
		names: []string{"A", "B", "C", "D"},
		next:  [][]int{{0, 1}, {2}, {3, 0}, {0}},
	}
	scc := []int{0, 1, 2, 3}
	assert.Equal(t, []string{"A", "B", "C", "A"}, g.label(g.cycle(scc)))

	w := g.warning(scc)
	assert.Equal(t, "Reaction cycle: A → B → C → A", w.Message)
}
