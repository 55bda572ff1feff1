// Package bg is the static bond-graph registry: physical domains with their
// effort, flow and quantity variables, component kinds with their parameter
// and domain, physical constants, and the unit definitions every generated
// model refers to.
//
// The registry is immutable. Lookups for an unregistered kind fail instead
// of falling back to a default.
package bg
