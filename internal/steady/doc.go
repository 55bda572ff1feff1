// Package steady derives the steady-state flux of a bond-graph reaction
// network as an exact rational function.
//
// Two independent solvers share one Model:
//
//   - SolveLinear assembles the reduced species-balance system (all but one
//     chemodynamic balance row, plus the closure row Σq = E) and solves it
//     with fraction-free elimination.
//   - SolveDiagram applies Hill's diagram method: one partial diagram per
//     reaction, path products of apparent rate constants toward each
//     chemodynamic species.
//
// Both return a Flux in lowest terms with a primitive denominator, so
// results from the two solvers can be compared structurally.
//
// The package performs no I/O and does not log. Work is bounded by the
// ceilings in Options; exceeding one returns *UnsupportedScaleError rather
// than running unbounded.
package steady
