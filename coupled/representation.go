// SPDX-License-Identifier: MIT
package coupled

import (
	"fmt"

	"github.com/katalvlaran/epglm/factor"
	"github.com/katalvlaran/epglm/linalg"
)

// Representation is the Coupled posterior of spec §4.3: a dense Gaussian
// over x ∈ ℝⁿ maintained as a Cholesky factor L of A = Bᵀ diag(π) B and an
// auxiliary vector c = L⁻¹ Bᵀβ, plus (when KeepMargs) cached marginal
// means/variances and A⁻¹ over the m sites of B.
//
// A Representation owns its Cholesky and every scratch buffer it touches
// (spec §9 "shared mutable scratch"); it is not safe for concurrent use.
type Representation struct {
	f    factor.Factor
	ft   factor.Factor // f.Transpose(), cached
	chol linalg.Cholesky

	m, n       int
	keepMargs  bool
	epPi       []float64 // len m
	epBeta     []float64 // len m
	h          []float64 // len n, Bᵀβ
	c          []float64 // len n
	margMeans  []float64 // len m, cached iff keepMargs
	margVars   []float64 // len m, cached iff keepMargs
	postCov    []float64 // len n*n, cached iff keepMargs

	// scratch, reused across calls.
	scratchA []float64 // n*n
	scratchB []float64 // n
	scratchV []float64 // n
	scratchU []float64 // n
	scratchW []float64 // m
}

// NewRepresentation constructs an (initially all-zero-site) Coupled
// representation over f (m×n). keepMargs enables the marginal mean/
// variance/A⁻¹ caches maintained by Refresh, UpdateSingle and GetMarg.
func NewRepresentation(f factor.Factor, chol linalg.Cholesky, keepMargs bool) (*Representation, error) {
	if f == nil || chol == nil {
		return nil, ErrInvalidArgument
	}
	m, n := f.Dims()
	if m <= 0 || n <= 0 {
		return nil, ErrInvalidArgument
	}
	r := &Representation{
		f: f, ft: f.Transpose(), chol: chol,
		m: m, n: n, keepMargs: keepMargs,
		epPi: make([]float64, m), epBeta: make([]float64, m),
		h: make([]float64, n), c: make([]float64, n),
		scratchA: make([]float64, n*n),
		scratchB: make([]float64, n),
		scratchV: make([]float64, n),
		scratchU: make([]float64, n),
		scratchW: make([]float64, m),
	}
	if keepMargs {
		r.margMeans = make([]float64, m)
		r.margVars = make([]float64, m)
		r.postCov = make([]float64, n*n)
	}
	return r, nil
}

// SizePars returns m, the number of EP sites (spec §4.3 size_pars).
func (r *Representation) SizePars() int { return r.m }

// EPPi, EPBeta expose the current site natural parameters (read-only
// views: callers must not mutate the returned slices).
func (r *Representation) EPPi() []float64   { return r.epPi }
func (r *Representation) EPBeta() []float64 { return r.epBeta }

// C returns the current auxiliary vector c = L⁻¹ Bᵀβ (read-only view).
func (r *Representation) C() []float64 { return r.c }

// MargMeans, MargVars expose the cached marginal caches; both are nil
// unless the representation was constructed with keepMargs.
func (r *Representation) MargMeans() []float64 { return r.margMeans }
func (r *Representation) MargVars() []float64  { return r.margVars }

// SetEPSites installs full site vectors directly (used by ADF init and by
// the coupled-parallel driver's batched install step), then calls Refresh.
func (r *Representation) SetEPSites(pi, beta []float64) error {
	if len(pi) != r.m || len(beta) != r.m {
		return ErrInvalidArgument
	}
	copy(r.epPi, pi)
	copy(r.epBeta, beta)
	return r.Refresh()
}

// Refresh implements spec §4.3 refresh(): rebuilds A = Bᵀ diag(π) B from
// scratch, refactorizes, recomputes c, and (if keepMargs) the marginal
// caches and A⁻¹. Returns ErrNumericFailure if A is not positive definite.
func (r *Representation) Refresh() error {
	if err := r.f.BTDB(r.epPi, r.scratchA); err != nil {
		return fmt.Errorf("coupled: refresh: %w", err)
	}
	if err := r.chol.Factorize(r.scratchA, r.n); err != nil {
		return fmt.Errorf("coupled: refresh: %w", ErrNumericFailure)
	}
	if err := r.ft.MVM(r.epBeta, r.h); err != nil {
		return fmt.Errorf("coupled: refresh: %w", err)
	}
	if err := r.chol.SolveL(r.h, r.c); err != nil {
		return fmt.Errorf("coupled: refresh: %w", ErrNumericFailure)
	}
	if r.keepMargs {
		if err := r.chol.Inverse(r.postCov); err != nil {
			return fmt.Errorf("coupled: refresh: %w", ErrNumericFailure)
		}
		if err := r.chol.SolveLT(r.c, r.scratchU); err != nil {
			return fmt.Errorf("coupled: refresh: %w", ErrNumericFailure)
		}
		if err := r.f.MVM(r.scratchU, r.margMeans); err != nil {
			return fmt.Errorf("coupled: refresh: %w", err)
		}
		if err := r.f.DiagBSBt(r.postCov, r.margVars); err != nil {
			return fmt.Errorf("coupled: refresh: %w", err)
		}
	}
	return nil
}

// UpdateSingle implements spec §4.3 update_single: an incremental rank-one
// Cholesky update (Δπ>0) or downdate (Δπ<0) of L, installing the site
// delta (Δπ, Δβ) for factor row j, and (if keepMargs) propagating the
// resulting marginal-mean/variance deltas to every site via the dense
// projection w = B(L⁻ᵀv).
//
// v, if non-nil, must already equal L⁻¹b for b = Bᵀeⱼ (typically obtained
// from a prior GetMarg call on the same j); if nil it is computed here.
// Returns ErrNumericFailure (propagated from the Cholesky downdate) if the
// resulting precision would not be positive definite; callers treat this
// as a skip, not a fatal condition (spec §7).
func (r *Representation) UpdateSingle(j int, dpi, dbeta float64, v []float64) error {
	if j < 0 || j >= r.m {
		return ErrInvalidArgument
	}
	if v != nil && len(v) != r.n {
		return ErrInvalidArgument
	}
	b := r.scratchB
	if err := r.ft.Col(j, b); err != nil {
		return fmt.Errorf("coupled: update_single: %w", err)
	}
	if v == nil {
		v = r.scratchV
		if err := r.chol.SolveL(b, v); err != nil {
			return fmt.Errorf("coupled: update_single: %w", ErrNumericFailure)
		}
	}

	var mu, rho float64
	if r.keepMargs {
		mu = dot(v, r.c)
		rho = dot(v, v)
		if err := r.chol.SolveLT(v, r.scratchU); err != nil {
			return fmt.Errorf("coupled: update_single: %w", ErrNumericFailure)
		}
		if err := r.f.MVM(r.scratchU, r.scratchW); err != nil {
			return fmt.Errorf("coupled: update_single: %w", err)
		}
	}

	if dpi != 0 {
		if err := r.chol.Rank1Update(dpi, b); err != nil {
			return fmt.Errorf("coupled: update_single: %w", ErrNumericFailure)
		}
	}
	for k := 0; k < r.n; k++ {
		r.h[k] += dbeta * b[k]
	}
	if err := r.chol.SolveL(r.h, r.c); err != nil {
		return fmt.Errorf("coupled: update_single: %w", ErrNumericFailure)
	}
	r.epPi[j] += dpi
	r.epBeta[j] += dbeta

	if r.keepMargs {
		denom := dpi*rho + 1
		meanFactor := (dbeta - dpi*mu) / denom
		varFactor := dpi / denom
		for i := 0; i < r.m; i++ {
			w := r.scratchW[i]
			r.margMeans[i] += w * meanFactor
			r.margVars[i] -= w * w * varFactor
		}
	}
	return nil
}

// GetMarg implements spec §4.3 get_marg: the Gaussian marginal (μ, ρ) of
// site j, always recomputed from the current (L, c) rather than served
// from cache. If vOut is non-nil (length n), it is filled with v = L⁻¹b so
// a caller can pass it straight into a following UpdateSingle(j, ...) call
// without recomputing the solve. Refreshes the cached entries at j if
// keepMargs is set.
func (r *Representation) GetMarg(j int, vOut []float64) (mu, rho float64, err error) {
	if j < 0 || j >= r.m {
		return 0, 0, ErrInvalidArgument
	}
	if vOut != nil && len(vOut) != r.n {
		return 0, 0, ErrInvalidArgument
	}
	b := r.scratchB
	if err := r.ft.Col(j, b); err != nil {
		return 0, 0, fmt.Errorf("coupled: get_marg: %w", err)
	}
	v := r.scratchV
	if err := r.chol.SolveL(b, v); err != nil {
		return 0, 0, fmt.Errorf("coupled: get_marg: %w", ErrNumericFailure)
	}
	mu = dot(v, r.c)
	rho = dot(v, v)
	if vOut != nil {
		copy(vOut, v)
	}
	if r.keepMargs {
		r.margMeans[j] = mu
		r.margVars[j] = rho
	}
	return mu, rho, nil
}

// Predict implements spec §4.3 predict: writes h_q = B_test L⁻ᵀc into
// outMeans. If outVars is non-nil, writes ρ_q = diag(B_test A⁻¹ B_testᵀ),
// using the cached A⁻¹ when useCov is true and the cache is populated,
// otherwise recomputing A⁻¹ from the current factorization.
func (r *Representation) Predict(bTest factor.Factor, outMeans, outVars []float64, useCov bool) error {
	if bTest == nil {
		return ErrInvalidArgument
	}
	mt, nt := bTest.Dims()
	if nt != r.n || len(outMeans) != mt {
		return ErrInvalidArgument
	}
	if err := r.chol.SolveLT(r.c, r.scratchU); err != nil {
		return fmt.Errorf("coupled: predict: %w", ErrNumericFailure)
	}
	if err := bTest.MVM(r.scratchU, outMeans); err != nil {
		return fmt.Errorf("coupled: predict: %w", err)
	}
	if outVars == nil {
		return nil
	}
	if len(outVars) != mt {
		return ErrInvalidArgument
	}
	cov := r.postCov
	if !useCov || cov == nil {
		cov = make([]float64, r.n*r.n)
		if err := r.chol.Inverse(cov); err != nil {
			return fmt.Errorf("coupled: predict: %w", ErrNumericFailure)
		}
	}
	if err := bTest.DiagBSBt(cov, outVars); err != nil {
		return fmt.Errorf("coupled: predict: %w", err)
	}
	return nil
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}
