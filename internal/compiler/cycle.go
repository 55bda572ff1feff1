package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/bondgraph/internal/ir"
)

// CycleWarning reports a directed cycle in the chemodynamic reaction graph.
//
// Cycles are informational: enzyme and transporter cycles are the normal
// shape of the networks the diagram method solves.
type CycleWarning struct {
	Path    []string `json:"path"`    // Species path: ["A", "B", "A"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "info"
}

// AnalyzeCycles finds directed cycles among chemodynamic species.
//
// Every reaction contributes an edge from each chemodynamic species it
// consumes to each chemodynamic species it produces, followed in the
// written direction only. Each strongly connected component with more than
// one species, or a species feeding itself, yields one warning carrying the
// shortest cycle through its first species.
func AnalyzeCycles(n *ir.Network) []CycleWarning {
	g := buildSpeciesGraph(n)
	warnings := []CycleWarning{}
	for _, scc := range g.components() {
		if len(scc) == 1 && !g.feeds(scc[0], scc[0]) {
			continue
		}
		warnings = append(warnings, g.warning(scc))
	}
	return warnings
}

// speciesGraph is the chemodynamic species graph. Nodes are positions in
// names, which follows component order.
type speciesGraph struct {
	names []string
	next  [][]int
}

func buildSpeciesGraph(n *ir.Network) speciesGraph {
	var g speciesGraph
	node := map[int]int{}
	for _, i := range n.SpeciesOfKind(ir.KindCe) {
		node[i] = len(g.names)
		g.names = append(g.names, n.Species[i].Name)
	}
	g.next = make([][]int, len(g.names))

	for j := range n.Reactions {
		for _, src := range n.Participants(ir.Forward, j) {
			from, ok := node[src]
			if !ok {
				continue
			}
			for _, dst := range n.Participants(ir.Reverse, j) {
				to, ok := node[dst]
				if ok && !slices.Contains(g.next[from], to) {
					g.next[from] = append(g.next[from], to)
				}
			}
		}
	}
	return g
}

func (g speciesGraph) feeds(from, to int) bool {
	return slices.Contains(g.next[from], to)
}

// components returns the strongly connected components (Tarjan). Members
// and components are both in node order.
func (g speciesGraph) components() [][]int {
	const unvisited = -1
	var (
		counter int
		stack   []int
		sccs    [][]int
		index   = make([]int, len(g.names))
		low     = make([]int, len(g.names))
		held    = make([]bool, len(g.names))
	)
	for i := range index {
		index[i] = unvisited
	}

	var visit func(v int)
	visit = func(v int) {
		index[v], low[v] = counter, counter
		counter++
		stack = append(stack, v)
		held[v] = true

		for _, w := range g.next[v] {
			switch {
			case index[w] == unvisited:
				visit(w)
				low[v] = min(low[v], low[w])
			case held[w]:
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] != index[v] {
			return
		}
		var scc []int
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			held[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		slices.Sort(scc)
		sccs = append(sccs, scc)
	}

	for v := range g.names {
		if index[v] == unvisited {
			visit(v)
		}
	}
	slices.SortFunc(sccs, func(a, b []int) int { return a[0] - b[0] })
	return sccs
}

func (g speciesGraph) warning(scc []int) CycleWarning {
	if len(scc) == 1 {
		name := g.names[scc[0]]
		return CycleWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Species %s converts to itself", name),
			Level:   "info",
		}
	}
	path := g.label(g.cycle(scc))
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Reaction cycle: %s", strings.Join(path, " → ")),
		Level:   "info",
	}
}

// cycle returns the shortest closed walk that leaves scc[0] and returns to
// it, staying inside scc. Self-loops on scc[0] are ignored.
func (g speciesGraph) cycle(scc []int) []int {
	start := scc[0]
	parent := map[int]int{start: start}
	queue := []int{start}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		if u != start && g.feeds(u, start) {
			path := []int{start}
			for v := u; v != start; v = parent[v] {
				path = append(path, v)
			}
			path = append(path, start)
			slices.Reverse(path)
			return path
		}
		for _, w := range g.next[u] {
			if _, seen := parent[w]; seen || !slices.Contains(scc, w) {
				continue
			}
			parent[w] = u
			queue = append(queue, w)
		}
	}
	return []int{start}
}

func (g speciesGraph) label(nodes []int) []string {
	out := make([]string, len(nodes))
	for i, v := range nodes {
		out[i] = g.names[v]
	}
	return out
}
