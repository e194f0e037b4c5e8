// Package ep is the root of an Expectation Propagation inference engine
// for generalized linear models of the form p(x) ∝ ∏_j t_j(s_j), where
// s = B x projects a latent vector x ∈ ℝⁿ through an m×n coupling matrix
// B and each t_j is a univariate (or bivariate-precision) potential.
//
// The engine replaces each non-Gaussian t_j with a Gaussian "site" of
// natural parameters (π_j, β_j) and iteratively refines the product
// Gaussian posterior over x, maintained in one of two representations:
//
//	coupled/    — a dense joint Gaussian over x, held as an incrementally
//	              Cholesky-factored precision (package coupled)
//	factorized/ — a product of per-variable Gaussians linked by per-edge
//	              EP messages on the bipartite factor graph (package
//	              factorized)
//
// Subpackages:
//
//	factor/      — the polymorphic coupling-factor abstraction (B) and its
//	               mvm/btdb/diag_bsbt kernels
//	potential/   — the stacked potential-block manager and the Registry
//	               contract EP delegates moment matching to
//	linalg/      — the Cholesky factorization/rank-one-update primitive
//	               the coupled representation is built on
//	coupled/     — the Coupled posterior representation
//	factorized/  — the Factorized posterior representation and its
//	               sequential-update kernel
//	inference/   — the three EP sweep drivers (coupled parallel, coupled
//	               sequential, factorized sequential)
//	predict/     — predictive Gaussian and tilted moments on a held-out
//	               coupling factor
//
// This root package holds MaxRelDiff, the convergence statistic the sweep
// drivers share, and a small set of sentinel errors (spec §7). Subpackages
// return their own sentinels (coupled.ErrNumericFailure, ...), which do not
// wrap the root ones; only factorized.UpdateSite returns ep.ErrInvalidArgument.
package ep
