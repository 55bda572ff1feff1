package steady

import (
	"github.com/roach88/bondgraph/internal/expr"
	"github.com/roach88/bondgraph/internal/ir"
)

// reactionGraph is a directed multigraph over the chemodynamic species.
// Nodes are positions in Model.chemodynamic; edges keep reaction order.
type reactionGraph struct {
	nodes []string
	edges []rateEdge
	adj   [][]int
}

// rateEdge carries the apparent first-order rate constants of one reaction:
// k_f out of src, k_r out of dst.
type rateEdge struct {
	reaction string
	src, dst int
	kf, kr   expr.Poly
}

// other returns the endpoint of e opposite to node.
func (e rateEdge) other(node int) int {
	if e.src == node {
		return e.dst
	}
	return e.src
}

// along reports whether stepping from node across e follows e's direction.
func (e rateEdge) along(node int) bool { return e.src == node }

func buildReactionGraph(m *Model) (*reactionGraph, error) {
	g := &reactionGraph{
		nodes: m.ChemodynamicNames(),
		adj:   make([][]int, len(m.chemodynamic)),
	}
	for _, r := range m.rates {
		src, err := r.Forward.single(r.Name, ir.Forward, m.net)
		if err != nil {
			return nil, err
		}
		dst, err := r.Reverse.single(r.Name, ir.Reverse, m.net)
		if err != nil {
			return nil, err
		}
		if src < 0 || dst < 0 {
			return nil, &UnsupportedTopologyError{
				Reaction: r.Name,
				Reason:   "reaction does not connect two chemodynamic species",
			}
		}
		e := rateEdge{
			reaction: r.Name,
			src:      m.position[src],
			dst:      m.position[dst],
			kf:       r.Kappa.Mul(r.Forward.Boltzmann).Mul(expr.Var(Affinity(m.net.Species[src].Name))),
			kr:       r.Kappa.Mul(r.Reverse.Boltzmann).Mul(expr.Var(Affinity(m.net.Species[dst].Name))),
		}
		idx := len(g.edges)
		g.edges = append(g.edges, e)
		g.adj[e.src] = append(g.adj[e.src], idx)
		if e.dst != e.src {
			g.adj[e.dst] = append(g.adj[e.dst], idx)
		}
	}
	return g, nil
}

// isSpanningTreeWithout reports whether the graph minus edge skip is a
// spanning tree of all nodes.
func (g *reactionGraph) isSpanningTreeWithout(skip int) bool {
	if len(g.edges)-1 != len(g.nodes)-1 {
		return false
	}
	parent := make([]int, len(g.nodes))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for idx, e := range g.edges {
		if idx == skip {
			continue
		}
		a, b := find(e.src), find(e.dst)
		if a == b {
			return false
		}
		parent[a] = b
	}
	return true
}

// treeProduct walks the partial diagram (all edges but skip) from root and
// multiplies the rate constant of every edge in the direction that flows
// toward root.
func (g *reactionGraph) treeProduct(root, skip int, opts Options) (expr.Poly, error) {
	prod := expr.One()
	visited := make([]bool, len(g.nodes))
	stack := []int{root}
	visited[root] = true
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, idx := range g.adj[u] {
			if idx == skip {
				continue
			}
			e := g.edges[idx]
			w := e.other(u)
			if visited[w] {
				continue
			}
			visited[w] = true
			if e.along(u) {
				prod = prod.Mul(e.kr)
			} else {
				prod = prod.Mul(e.kf)
			}
			if err := opts.checkTerms(prod.Len()); err != nil {
				return expr.Poly{}, err
			}
			stack = append(stack, w)
		}
	}
	return prod, nil
}

// orientation walks the cycle starting along edge 0 and returns +1 for each
// edge traversed in its written direction, -1 otherwise. The graph must be
// a single cycle, which every partial diagram being a tree guarantees.
func (g *reactionGraph) orientation() []int {
	orient := make([]int, len(g.edges))
	used := make([]bool, len(g.edges))
	orient[0], used[0] = 1, true
	cur := g.edges[0].dst
	for range len(g.edges) - 1 {
		for _, idx := range g.adj[cur] {
			if used[idx] {
				continue
			}
			e := g.edges[idx]
			used[idx] = true
			if e.along(cur) {
				orient[idx] = 1
			} else {
				orient[idx] = -1
			}
			cur = e.other(cur)
			break
		}
	}
	return orient
}

// Diagram is the intermediate table of the diagram method: Products[i][e]
// is the path product toward node i in the partial diagram without edge e.
type Diagram struct {
	Species   []string
	Reactions []string
	Products  [][]expr.Poly
}

// Surrogates returns q_ss_E: each row of Products summed over its partial
// diagrams.
func (d *Diagram) Surrogates() []expr.Poly {
	out := make([]expr.Poly, len(d.Products))
	for i, row := range d.Products {
		out[i] = expr.Sum(row...)
	}
	return out
}

// SolveDiagram derives the steady-state flux with Hill's diagram method.
//
// Every reaction must join exactly one chemodynamic species on each side
// with coefficient 1, and removing any single reaction must leave a
// spanning tree of the chemodynamic species. Networks outside that shape
// return *UnsupportedTopologyError naming the offending reaction.
//
// A single chemodynamic species is accepted only when every reaction is a
// self-loop on it, as with a catalyst. A reaction with a chemostat-only
// side is refused even then; SolveLinear covers those boundary reactions.
func SolveDiagram(m *Model, opts Options) (*Flux, error) {
	flux, _, err := solveDiagram(m, opts)
	return flux, err
}

// DiagramTable runs the diagram method and also returns the per-species
// path-product table.
func DiagramTable(m *Model, opts Options) (*Flux, *Diagram, error) {
	return solveDiagram(m, opts)
}

func solveDiagram(m *Model, opts Options) (*Flux, *Diagram, error) {
	opts = opts.withDefaults()
	sel, err := m.SelectReaction(opts.Reaction)
	if err != nil {
		return nil, nil, err
	}
	if len(m.chemodynamic) == 0 {
		return nil, nil, &UnsupportedTopologyError{Reason: "network has no chemodynamic species"}
	}
	if len(m.rates) > opts.MaxDiagramEdges {
		return nil, nil, &UnsupportedScaleError{Metric: "diagram edges", Value: len(m.rates), Limit: opts.MaxDiagramEdges}
	}

	g, err := buildReactionGraph(m)
	if err != nil {
		return nil, nil, err
	}
	for idx, e := range g.edges {
		if !g.isSpanningTreeWithout(idx) {
			return nil, nil, &UnsupportedTopologyError{
				Reaction: e.reaction,
				Reason:   "partial diagram without this reaction is not a spanning tree of the chemodynamic species",
			}
		}
	}

	table := &Diagram{Species: g.nodes, Reactions: m.reactionNames(), Products: make([][]expr.Poly, len(g.nodes))}
	var den expr.Poly
	for i := range g.nodes {
		table.Products[i] = make([]expr.Poly, len(g.edges))
		for idx := range g.edges {
			p, err := g.treeProduct(i, idx, opts)
			if err != nil {
				return nil, nil, err
			}
			table.Products[i][idx] = p
			den = den.Add(p)
		}
		if err := opts.checkTerms(den.Len()); err != nil {
			return nil, nil, err
		}
	}

	orient := g.orientation()
	plus, minus := expr.One(), expr.One()
	for idx, e := range g.edges {
		f, r := e.kf, e.kr
		if orient[idx] < 0 {
			f, r = r, f
		}
		plus = plus.Mul(f)
		minus = minus.Mul(r)
		if err := opts.checkTerms(plus.Len() + minus.Len()); err != nil {
			return nil, nil, err
		}
	}
	num := total().Mul(plus.Sub(minus))
	if orient[sel] < 0 {
		num = num.Neg()
	}

	flux, err := newFlux(MethodDiagram, m.rates[sel].Name, num, den, opts)
	if err != nil {
		return nil, nil, err
	}
	return flux, table, nil
}
