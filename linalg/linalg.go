package linalg

// Cholesky is the consumed linear-algebra primitive of spec §6: lower
// Cholesky factorization of a symmetric positive-definite matrix, rank-one
// update/downdate of an existing factorization, and the triangular solves
// needed to recover c = L⁻¹h and the posterior mean/covariance.
//
// Implementations own their internal factor and are not safe for
// concurrent use (spec §5: the engine is single-threaded throughout).
type Cholesky interface {
	// Factorize computes L such that a = L Lᵀ, a a row-major symmetric n×n
	// buffer (GonumCholesky reads only its upper triangle, as gonum's
	// SymDense does). Returns ErrNotPositiveDefinite
	// if a is not positive definite.
	Factorize(a []float64, n int) error

	// Rank1Update replaces the factorized A with A + alpha·x·xᵀ in place,
	// refactorizing incrementally rather than recomputing from scratch.
	// alpha > 0 is spec §4.3's UPDATE, alpha < 0 its DOWNDATE; both route
	// through this single call since gonum's SymRankOne takes a signed
	// alpha directly. Returns ErrNotPositiveDefinite (and leaves the
	// factorization in its prior, unmodified state) if the result would not
	// be positive definite.
	Rank1Update(alpha float64, x []float64) error

	// SolveL writes out = L⁻¹ b.
	SolveL(b, out []float64) error

	// SolveLT writes out = L⁻ᵀ b.
	SolveLT(b, out []float64) error

	// Inverse writes A⁻¹ = L⁻ᵀL⁻¹ into out, a row-major symmetric n×n
	// buffer.
	Inverse(out []float64) error

	// L writes the current lower-triangular factor into out, a row-major
	// n×n buffer (entries above the diagonal are zeroed).
	L(out []float64) error

	// Size returns n, the factorization's dimension, or 0 before the first
	// Factorize call.
	Size() int
}
