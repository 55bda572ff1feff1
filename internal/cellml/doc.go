// Package cellml builds CellML 2.0 documents for a bond-graph network and
// its steady-state reduction.
//
// A network produces a family of models that import each other:
//
//	units_<name>          unit definitions referenced by every other model
//	BG_<name>             constitutive and junction equations
//	BG_<name>_param       parameter values, initial quantities, constants
//	ss_<name>             the simplified steady-state flux v_ss
//	ss_<name>_param       values for the lumped parameters and quantities
//	BG_ss_<name>_param    lumped parameters defined over BG parameters
//	*_test                models that import and connect the above
//
// Documents are written without schema validation.
package cellml
