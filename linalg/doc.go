// Package linalg gives the "Linear-algebra primitives (consumed)" of spec
// §6 a concrete, swappable home: Cholesky factorization, rank-one
// update/downdate, and triangular solves, the operations
// coupled.Representation builds its incremental (L, c) posterior on.
//
// The default implementation wraps gonum.org/v1/gonum/mat: its
// mat.Cholesky already exposes SymRankOne for exactly the rank-one
// update/downdate spec §4.3's update_single needs, so the core never
// reimplements Cholesky arithmetic by hand.
package linalg
