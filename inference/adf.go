package inference

import (
	"github.com/katalvlaran/epglm/coupled"
	"github.com/katalvlaran/epglm/factorized"
	"github.com/katalvlaran/epglm/potential"
)

// gaussianBlockName mirrors potential.Manager's own convention (spec's
// fixed Gaussian family name): a Gaussian site's EP parameters are set to
// represent it exactly and never change afterwards.
const gaussianBlockName = "gaussian"

func paramAt(p potential.Param, k int) float64 {
	if p.Shared {
		return p.Values[0]
	}
	return p.Values[k]
}

// ADFInitCoupled implements CoupledInfDriver.init('ADF') (original
// inference.py): every non-Gaussian site starts at (π,β)=(0,0); every
// Gaussian site's (π,β) is set to represent it exactly — mean/var ->
// (1/var, mean/var) — and never changes in a subsequent sweep, since
// Gaussian blocks are excluded from every driver's update-index set.
func ADFInitCoupled(rep *coupled.Representation, pman *potential.Manager) error {
	if rep == nil || pman == nil {
		return ErrInvalidArgument
	}
	pi := make([]float64, rep.SizePars())
	beta := make([]float64, rep.SizePars())
	off := 0
	for _, b := range pman.Blocks() {
		if b.Name == gaussianBlockName {
			meanP, varP := b.Params[0], b.Params[1]
			for k := 0; k < b.Size; k++ {
				v := paramAt(varP, k)
				pi[off+k] = 1 / v
				beta[off+k] = paramAt(meanP, k) / v
			}
		}
		off += b.Size
	}
	return rep.SetEPSites(pi, beta)
}

// ADFInitFactorized implements EPFactorizedInfDriver.init('ADF', cav_var)
// (original inference.py): every non-Gaussian edge starts at (π,β)=(0,0);
// for a Gaussian site j with |V_j| neighbors and coupling weights b_ji,
// the heuristic spreads its exact precision across its edges as
// π_ji = b_ji²/((|V_j|-1)·cavVar + var_j), β_ji = b_ji·mean_j/(...),
// so a Gaussian site touching exactly one variable (the common case) is
// still represented exactly, independent of cavVar.
func ADFInitFactorized(rep *factorized.Representation, pman *potential.Manager, cavVar float64) error {
	if rep == nil || pman == nil {
		return ErrInvalidArgument
	}
	storage := rep.Storage()
	pi := make([]float64, storage.NNZ())
	beta := make([]float64, storage.NNZ())
	off := 0
	for _, b := range pman.Blocks() {
		if b.Name == gaussianBlockName {
			meanP, varP := b.Params[0], b.Params[1]
			for k := 0; k < b.Size; k++ {
				j := off + k
				lo, hi := storage.RowRange(j)
				vjsz := float64(hi - lo - 1)
				variance := paramAt(varP, k)
				mean := paramAt(meanP, k)
				denom := cavVar*vjsz + variance
				for e := lo; e < hi; e++ {
					bval := storage.BVals[e]
					pi[e] = bval * bval / denom
					beta[e] = bval * mean / denom
				}
			}
		}
		off += b.Size
	}
	return rep.SetEdges(pi, beta)
}
