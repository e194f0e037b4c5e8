// SPDX-License-Identifier: MIT
package factorized

import "github.com/katalvlaran/epglm/factor"

// Representation is the Factorized posterior of spec §4.4: one
// (π_{j,i}, β_{j,i}) EP message per nonzero of the coupling factor,
// row-ordered in Storage, plus the per-variable aggregates
// marg_pi/marg_beta and (optionally) a SelDamp tracker.
type Representation struct {
	storage *Storage
	epPi    []float64 // row-ordered, len nnz
	epBeta  []float64 // row-ordered, len nnz
	margPi  []float64 // len N
	margBeta []float64 // len N

	sd *SelDamp
}

// NewRepresentation constructs an (initially all-zero-message)
// Factorized representation over storage.
func NewRepresentation(storage *Storage) (*Representation, error) {
	if storage == nil {
		return nil, ErrInvalidArgument
	}
	nnz := storage.NNZ()
	r := &Representation{
		storage:  storage,
		epPi:     make([]float64, nnz),
		epBeta:   make([]float64, nnz),
		margPi:   make([]float64, storage.N),
		margBeta: make([]float64, storage.N),
	}
	return r, nil
}

// Storage exposes the underlying edge layout (read-only use expected).
func (r *Representation) Storage() *Storage { return r.storage }

// SizePars returns nnz(B), the number of EP messages (spec §4.4 size_pars).
func (r *Representation) SizePars() int { return len(r.epPi) }

// EPPi, EPBeta expose the row-ordered site message arrays (read-only
// views: callers must not mutate the returned slices directly, see
// SetEdges for the one sanctioned mutation path outside the kernel).
func (r *Representation) EPPi() []float64   { return r.epPi }
func (r *Representation) EPBeta() []float64 { return r.epBeta }

// MargPi, MargBeta expose the per-variable aggregate natural parameters.
func (r *Representation) MargPi() []float64   { return r.margPi }
func (r *Representation) MargBeta() []float64 { return r.margBeta }

// SelDampTracker returns the active selective-damping tracker, or nil if
// none has been installed via EnableSelDamp.
func (r *Representation) SelDampTracker() *SelDamp { return r.sd }

// EnableSelDamp installs a top-K selective-damping tracker and performs
// its initial Reset scan (spec §4.4 seldamp_reset).
func (r *Representation) EnableSelDamp(k int, subind []int, exclude bool) error {
	sd, err := NewSelDamp(r.storage.N, k)
	if err != nil {
		return err
	}
	sd.Reset(r.storage, r.epPi, subind, exclude)
	r.sd = sd
	return nil
}

// SeldampReset rescans all edges and rebuilds the exact top-K (spec
// §4.4); it is a no-op error if EnableSelDamp was never called.
func (r *Representation) SeldampReset(k int, subind []int, exclude bool) error {
	if r.sd == nil {
		return ErrInvalidArgument
	}
	if k != r.sd.K() {
		sd, err := NewSelDamp(r.storage.N, k)
		if err != nil {
			return err
		}
		r.sd = sd
	}
	r.sd.Reset(r.storage, r.epPi, subind, exclude)
	return nil
}

// SetEdges installs full message arrays directly (ADF init, or a parallel
// driver's batched write-back), then recomputes the marginals.
func (r *Representation) SetEdges(pi, beta []float64) error {
	if len(pi) != len(r.epPi) || len(beta) != len(r.epBeta) {
		return ErrInvalidArgument
	}
	copy(r.epPi, pi)
	copy(r.epBeta, beta)
	r.Refresh()
	return nil
}

// Refresh implements spec §4.4 refresh(): marg_pi[i] = Σ_{j∈col(i)}
// ep_pi[(j,i)], marg_beta[i] = Σ_{j∈col(i)} ep_beta[(j,i)], for every
// variable i (invariant 4, spec §8).
func (r *Representation) Refresh() {
	for i := 0; i < r.storage.N; i++ {
		lo, hi := r.storage.ColRange(i)
		var pi, beta float64
		for e := lo; e < hi; e++ {
			back := r.storage.ColBack[e]
			pi += r.epPi[back]
			beta += r.epBeta[back]
		}
		r.margPi[i] = pi
		r.margBeta[i] = beta
	}
}

// Predict implements spec §4.4 predict(): τ_i = 1/marg_pi[i],
// out_vars = diag(B_test diag(τ) B_testᵀ) (equal to the spec's "B_test² τ"
// for any symmetric diagonal τ, computed here via the generic DiagBSBt
// kernel rather than a second squared-values storage), out_means =
// B_test (τ ∘ marg_beta).
func (r *Representation) Predict(bTest factor.Factor, outMeans, outVars []float64) error {
	if bTest == nil {
		return ErrInvalidArgument
	}
	mt, nt := bTest.Dims()
	if nt != r.storage.N || len(outMeans) != mt {
		return ErrInvalidArgument
	}
	tau := make([]float64, nt)
	for i := 0; i < nt; i++ {
		tau[i] = 1 / r.margPi[i]
	}
	scaled := make([]float64, nt)
	for i := 0; i < nt; i++ {
		scaled[i] = tau[i] * r.margBeta[i]
	}
	if err := bTest.MVM(scaled, outMeans); err != nil {
		return err
	}
	if outVars == nil {
		return nil
	}
	if len(outVars) != mt {
		return ErrInvalidArgument
	}
	diagTau := make([]float64, nt*nt)
	for i := 0; i < nt; i++ {
		diagTau[i*nt+i] = tau[i]
	}
	return bTest.DiagBSBt(diagTau, outVars)
}
