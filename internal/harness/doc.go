// Package harness provides conformance testing for steady-state
// derivations.
//
// The harness loads a network, derives its steady-state flux, and checks
// the lumped result and further assertions against a YAML scenario.
//
// # Scenario Format
//
//	name: chemostat
//	description: "What this scenario validates"
//	network: ../networks/chemostat_f.csv  # CSV, .cue file, or CUE directory
//	select: chemostat                     # network name within CUE input
//	reaction: R1
//	method: auto                          # linear | diagram | auto
//	expect:
//	  method: linear
//	  num: "-E*P_0 + P_1*q_A"
//	  den: "1"
//	  params:
//	    - {name: P_0, expr: "K_B*kappa_R1", units: per_sec}
//	  quantities: [E, q_A]
//	assertions:
//	  - type: numeric_agrees
//	    samples: 8
//
// A scenario expecting failure sets expect.error to one of input_format,
// unsupported_topology, unsupported_scale, degenerate_network,
// zero_denominator or error; nothing else is then checked.
//
// # Assertion Types
//
//   - numeric_agrees: the symbolic flux matches a numeric solve at sampled points
//   - methods_agree: the other solver produces an equivalent flux
//   - cellml_family: the emitted CellML model names, in order
//   - cache_hit: repeating the derivation is served from the cache
//   - flux_symbols: the exact symbol set of the unlumped flux
//
// Each scenario runs against its own in-memory cache. Snapshots of the
// outcome can be compared with golden files via RunWithGolden.
package harness
