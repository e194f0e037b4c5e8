// Package factor implements the CouplingFactor abstraction: a polymorphic,
// read-only-after-construction m×n matrix B used to project a latent vector
// x ∈ ℝⁿ onto s = Bx for Expectation Propagation inference.
//
// Variants (Dense, Sparse, Diagonal, Identity, RowSubset, VStack) share one
// interface, Factor, built around four operations:
//
//	MVM(v, out)      — B v, or Bᵀ v when the factor is a transposed view
//	Col(i, out)      — the i-th column of the logical (possibly transposed) B
//	BTDB(v, out)     — Bᵀ diag(v) B, written into an n×n buffer
//	DiagBSBt(s, out) — diag(B S Bᵀ), written into an m-vector
//
// Transposition is virtual: Transpose() returns a lightweight view sharing
// the same backing storage with a flipped orientation flag, never copying
// numeric data. Every kernel dispatches on that flag rather than on a
// concrete type, so callers never need to special-case "transposed or not".
//
// New variants need only implement MVM and Col; FallbackBTDB and
// FallbackDiagBSBt derive the two quadratic kernels from those two
// primitives alone (spec §4.1), at the cost of doing the extra work densely.
package factor
