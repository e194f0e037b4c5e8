// SPDX-License-Identifier: MIT
package factorized

import (
	"math"

	ep "github.com/katalvlaran/epglm"
	"github.com/katalvlaran/epglm/potential"
)

// Skip status codes returned by UpdateSite (spec §4.5).
const (
	StatusOK                  = 0
	StatusInvalidCavity       = 1
	StatusLocalFailure        = 2
	StatusInvalidNewMarginal  = 3
	StatusSelDampForcedToZero = 4
)

// effNoUpdate is the threshold above which a damping factor is treated as
// "no effective change" for status-4 classification.
const effNoUpdate = 1 - 1e-9

// UpdateSite implements the factorized sequential-update kernel of spec
// §4.5 for a single factor index j: cavity computation, local EP moment
// match delegated to registry, back-projection onto edges, constant plus
// (if r has a SelDamp tracker installed) selective damping, and
// commit. Returns the site's skip status, the damping factor actually
// applied, and a convergence statistic: the relative change in the (μ, σ)
// of the Gaussian marginal of B_j·x from before to after the commit.
//
// piMinThres is the minimum acceptable cavity/marginal precision; UpdateSite
// uses it as given (inference.WithPiMinThres validates it against itself,
// not against a differently-named option; default 1e-8 per DESIGN.md). damp
// is the constant damping factor in [0,1).
func UpdateSite(r *Representation, j int, registry potential.Registry, pman *potential.Manager, piMinThres, damp float64) (status int, dampUsed, convStat float64, err error) {
	if r == nil || registry == nil || pman == nil {
		return 0, 0, 0, ep.ErrInvalidArgument
	}
	if j < 0 || j >= r.storage.M {
		return 0, 0, 0, ep.ErrInvalidArgument
	}
	lo, hi := r.storage.RowRange(j)
	if lo == hi {
		return 0, 0, 0, ep.ErrInvalidArgument
	}
	nEdges := hi - lo

	piCav := make([]float64, nEdges)
	betaCav := make([]float64, nEdges)
	vars := make([]int, nEdges)
	for k, e := 0, lo; e < hi; k, e = k+1, e+1 {
		i := r.storage.RowCol[e]
		vars[k] = i
		piCav[k] = r.margPi[i] - r.epPi[e]
		betaCav[k] = r.margBeta[i] - r.epBeta[e]
		if piCav[k] <= piMinThres/2 {
			return StatusInvalidCavity, 0, 0, nil
		}
	}

	var rhoCav, muCav float64
	for k, e := 0, lo; e < hi; k, e = k+1, e+1 {
		b2 := r.storage.B2Vals[e]
		sig2 := 1 / piCav[k]
		rhoCav += b2 * sig2
		muCav += r.storage.BVals[e] * betaCav[k] * sig2
	}

	potID, blockSize, localIndex, parVec, parShared, annHandle, serr := pman.SiteInfo(j)
	if serr != nil {
		return 0, 0, 0, serr
	}
	res := registry.UpdateSingle(j, potential.SingleRequest{
		PotID: potID, NumPot: blockSize, LocalIndex: localIndex, ParVec: parVec, ParShared: parShared,
		AnnHandle: annHandle, Mu: muCav, Rho: rhoCav,
	})
	if res.RStat == 0 {
		return StatusLocalFailure, 0, 0, nil
	}
	tiltedDenom := 1 - res.Nu*rhoCav
	if tiltedDenom <= 0 {
		return StatusLocalFailure, 0, 0, nil
	}

	dflPi := make([]float64, nEdges)
	dflBeta := make([]float64, nEdges)
	for k, e := 0, lo; e < hi; k, e = k+1, e+1 {
		i := r.storage.RowCol[e]
		b := r.storage.BVals[e]
		b2 := r.storage.B2Vals[e]
		piNew := piCav[k] + b2*res.Nu/tiltedDenom
		betaNew := betaCav[k] + b*(res.Alpha+res.Nu*muCav)/tiltedDenom
		dflPi[k] = piNew - r.margPi[i]
		dflBeta[k] = betaNew - r.margBeta[i]
	}

	dUsed := damp
	if r.sd != nil {
		for k, e := 0, lo; e < hi; k, e = k+1, e+1 {
			if dflPi[k] >= 0 {
				continue
			}
			i := r.storage.RowCol[e]
			otherMax := r.sd.Max(i, j)
			target := otherMax + piMinThres/2
			marginIfFull := r.margPi[i] + dflPi[k]
			if marginIfFull >= target {
				continue
			}
			frac := (target - r.margPi[i]) / dflPi[k] // dflPi[k] < 0
			di := 1 - frac
			if di > dUsed {
				dUsed = di
			}
		}
		if dUsed > effNoUpdate {
			dUsed = 1
		}
		if dUsed < 0 {
			dUsed = 0
		}
	}

	mult := 1 - dUsed
	for k, e := 0, lo; e < hi; k, e = k+1, e+1 {
		newPi := r.epPi[e] + mult*dflPi[k]
		if newPi <= piMinThres {
			return StatusInvalidNewMarginal, dUsed, 0, nil
		}
	}
	if r.sd != nil && dUsed >= effNoUpdate {
		return StatusSelDampForcedToZero, dUsed, 0, nil
	}

	siteMarg := func() (mu, rho float64) {
		for e := lo; e < hi; e++ {
			i := r.storage.RowCol[e]
			mu += r.storage.BVals[e] * r.margBeta[i] / r.margPi[i]
			rho += r.storage.B2Vals[e] / r.margPi[i]
		}
		return mu, rho
	}
	muOld, rhoOld := siteMarg()

	for k, e := 0, lo; e < hi; k, e = k+1, e+1 {
		i := r.storage.RowCol[e]
		dPi := mult * dflPi[k]
		dBeta := mult * dflBeta[k]
		r.epPi[e] += dPi
		r.epBeta[e] += dBeta
		r.margPi[i] += dPi
		r.margBeta[i] += dBeta
		if r.sd != nil {
			r.sd.Update(i, j, r.epPi[e])
		}
	}

	muNew, rhoNew := siteMarg()
	convStat = ep.MaxRelDiff(
		[]float64{muNew, math.Sqrt(rhoNew)},
		[]float64{muOld, math.Sqrt(rhoOld)},
	)
	return StatusOK, dUsed, convStat, nil
}
