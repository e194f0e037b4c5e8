// Package coupled implements the Coupled posterior representation of spec
// §4.3: a dense Gaussian posterior over x maintained indirectly as a
// Cholesky factor L of the precision A = Bᵀ diag(π) B and an auxiliary
// vector c = L⁻¹ Bᵀβ, refreshed in full or updated incrementally one site
// at a time via linalg.Cholesky's rank-one update/downdate.
package coupled
