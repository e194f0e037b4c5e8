// SPDX-License-Identifier: MIT
package refpotential

import (
	"fmt"
	"math"

	"github.com/katalvlaran/epglm/potential"
)

// Registry is the package's sole exported type: a stateless
// potential.Registry over two Gaussian families. Both "gaussian" and
// "noisy" blocks carry exactly two Params in order (mean, var);
// UpdateParallel and UpdateSingle panic on a malformed tuple rather than
// silently misreading it, since that indicates a test fixture bug, not a
// runtime data condition. IsValid reports it as a diagnostic string instead.
type Registry struct{}

// New constructs a Registry. There is no configuration: the family set is
// fixed by design (see package doc).
func New() *Registry { return &Registry{} }

const (
	idGaussian = 0
	idNoisy    = 1
)

// PotID resolves "gaussian" and "noisy" to their fixed ids; anything else
// is unknown.
func (r *Registry) PotID(name string) int {
	switch name {
	case "gaussian":
		return idGaussian
	case "noisy":
		return idNoisy
	default:
		return -1
	}
}

// ArgGroup is always Univariate: this registry has no bivariate-precision
// family.
func (r *Registry) ArgGroup(id int) potential.ArgGroup { return potential.Univariate }

// IsValid walks the flattened (potIDs, numPot, parVec, parShared) layout
// block by block, checking that each block's "var" parameter is strictly
// positive everywhere it appears.
func (r *Registry) IsValid(potIDs []int, numPot []int, parVec []float64, parShared []int, annHandles []int64) string {
	pos := 0
	for bi, id := range potIDs {
		if id != idGaussian && id != idNoisy {
			return fmt.Sprintf("refpotential: block %d: unknown potential id %d", bi, id)
		}
		k := numPot[bi]
		_, varVals, next, err := decodeBlockParams(parVec, parShared, pos, k)
		if err != nil {
			return fmt.Sprintf("refpotential: block %d: %v", bi, err)
		}
		for _, v := range varVals {
			if v <= 0 {
				return fmt.Sprintf("refpotential: block %d: non-positive variance %g", bi, v)
			}
		}
		pos = next
	}
	return ""
}

// UpdateParallel performs the exact Gaussian tilted moment match for every
// site named in req.Subset (or all sites covered by req.PotIDs/NumPot if
// Subset is nil). req.Mu/req.Rho must be sized to the total site count
// implied by summing req.NumPot.
func (r *Registry) UpdateParallel(req potential.ParallelRequest) potential.ParallelResult {
	total := len(req.Mu)
	res := potential.ParallelResult{
		RStat: make([]int, total),
		Alpha: make([]float64, total),
		Nu:    make([]float64, total),
		LogZ:  make([]float64, total),
	}
	var want func(j int) bool
	if req.Subset == nil {
		want = func(int) bool { return true }
	} else {
		set := make(map[int]struct{}, len(req.Subset))
		for _, j := range req.Subset {
			set[j] = struct{}{}
		}
		want = func(j int) bool { _, ok := set[j]; return ok }
	}

	pos, site := 0, 0
	for bi := range req.PotIDs {
		k := req.NumPot[bi]
		meanVals, varVals, next, err := decodeBlockParams(req.ParVec, req.ParShared, pos, k)
		if err != nil {
			panic(err)
		}
		pos = next
		for s := 0; s < k; s++ {
			j := site + s
			if j < total && want(j) {
				mean := pick(meanVals, s)
				v := pick(varVals, s)
				rstat, alpha, nu, logz := gaussianMoment(req.Mu[j], req.Rho[j], mean, v)
				res.RStat[j], res.Alpha[j], res.Nu[j], res.LogZ[j] = rstat, alpha, nu, logz
			}
		}
		site += k
	}
	return res
}

// UpdateSingle performs the exact Gaussian tilted moment match for one
// site, picking its ("mean","var") scalars out of req.ParVec at
// req.LocalIndex wherever the corresponding parameter is non-shared.
func (r *Registry) UpdateSingle(j int, req potential.SingleRequest) potential.SingleResult {
	meanVals, varVals, _, err := decodeBlockParams(req.ParVec, req.ParShared, 0, req.NumPot)
	if err != nil {
		panic(err)
	}
	mean := pick(meanVals, req.LocalIndex)
	v := pick(varVals, req.LocalIndex)
	rstat, alpha, nu, logz := gaussianMoment(req.Mu, req.Rho, mean, v)
	return potential.SingleResult{RStat: rstat, Alpha: alpha, Nu: nu, LogZ: logz}
}

// decodeBlockParams reads the fixed (mean, var) parameter pair starting at
// pos in the flattened parVec/parShared arrays for a block of size k,
// returning each parameter's value slice (length 1 if shared, else k) and
// the position just past the pair.
func decodeBlockParams(parVec []float64, parShared []int, pos, k int) (meanVals, varVals []float64, next int, err error) {
	meanVals, pos, err = decodeOneParam(parVec, parShared, pos, k)
	if err != nil {
		return nil, nil, 0, err
	}
	varVals, pos, err = decodeOneParam(parVec, parShared, pos, k)
	if err != nil {
		return nil, nil, 0, err
	}
	return meanVals, varVals, pos, nil
}

func decodeOneParam(parVec []float64, parShared []int, pos, k int) ([]float64, int, error) {
	if pos >= len(parShared) || pos >= len(parVec) {
		return nil, 0, ErrMalformedParams
	}
	length := k
	if parShared[pos] != 0 {
		length = 1
	}
	if pos+length > len(parVec) {
		return nil, 0, ErrMalformedParams
	}
	return parVec[pos : pos+length], pos + length, nil
}

// pick returns vals[s] if vals holds one entry per site, else its single
// shared scalar.
func pick(vals []float64, s int) float64 {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals[s]
}

// gaussianMoment is the exact EP tilted update for a Gaussian potential
// N(s; mean, variance) against a Gaussian cavity N(mu, rho): the tilted
// distribution is itself Gaussian, so (alpha, nu) are read off directly
// rather than found by quadrature.
func gaussianMoment(mu, rho, mean, variance float64) (rstat int, alpha, nu, logz float64) {
	denom := rho + variance
	if variance <= 0 || denom <= 0 {
		return 0, 0, 0, 0
	}
	diff := mean - mu
	alpha = diff / denom
	nu = 1 / denom
	logz = -0.5*math.Log(2*math.Pi*denom) - 0.5*diff*diff/denom
	return 1, alpha, nu, logz
}
