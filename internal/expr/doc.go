// Package expr is a small exact symbolic engine sized for steady-state flux
// expressions: sparse multivariate polynomials with rational coefficients
// and non-negative integer exponents, and rational functions built from
// them.
//
// Every value is immutable; operations return new values. Polynomials are
// kept in a canonical form (terms sorted in descending lexicographic order
// of their monomials, no zero coefficients), so structural equality is
// mathematical equality.
//
// The voltage factor exp(F*V_m/(R*T)) is an ordinary atom that may be
// raised to integer powers. It is never expanded.
package expr
