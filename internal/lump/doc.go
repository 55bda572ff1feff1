// Package lump re-parameterizes a steady-state flux into lumped parameters.
//
// Terms are grouped by their key: the product of the species quantities
// (q_*), the total amount E and powers of the voltage factor. Each group's
// coefficient becomes one parameter P_i whose unit is read off the symbol
// names of the coefficient's first term. The simplified expression is a
// polynomial in P and the key symbols only.
package lump
