// SPDX-License-Identifier: MIT
package inference

import (
	"math"

	ep "github.com/katalvlaran/epglm"
	"github.com/katalvlaran/epglm/coupled"
	"github.com/katalvlaran/epglm/potential"
)

// CoupledParallel runs parallel-updating EP on rep (spec §4.6, original
// EPCoupParallelInfDriver.inference): each sweep computes cavity moments
// for every non-Gaussian site from the cached marginals, performs one
// batched local-EP pass via registry, installs the damped full update for
// every site simultaneously, then refreshes the representation (which
// recomputes the posterior covariance predict.Predictor relies on). rep
// must have been constructed with keepMargs==true.
func CoupledParallel(rep *coupled.Representation, pman *potential.Manager, registry potential.Registry, cfg *Config) (*Result, error) {
	if rep == nil || pman == nil || registry == nil || cfg == nil {
		return nil, ErrInvalidArgument
	}
	if rep.MargMeans() == nil {
		return nil, ErrKeepMargsRequired
	}
	updind := pman.UpdInd()
	mm := len(updind)
	if mm == 0 {
		return nil, ErrEmptyUpdateSet
	}
	m := pman.Size()

	res := &Result{RStat: 1, NSkip: []int{0}, NSDamp: -1}
	if cfg.ResultDetail {
		res.Detail = &ResultDetail{}
	}

	for sweep := 1; sweep <= cfg.MaxIter; sweep++ {
		res.NIt = sweep
		margMeans, margVars := rep.MargMeans(), rep.MargVars()
		epPi, epBeta := rep.EPPi(), rep.EPBeta()

		oldMargs := make([]float64, 2*mm)
		for i, j := range updind {
			oldMargs[i] = margMeans[j]
			oldMargs[mm+i] = math.Sqrt(margVars[j])
		}

		mu := make([]float64, m)
		rho := make([]float64, m)
		valid := make([]int, 0, mm)
		for _, j := range updind {
			mvar := margVars[j]
			tval := 1 - epPi[j]*mvar
			if tval < cfg.CavEps {
				continue
			}
			mu[j] = (margMeans[j] - epBeta[j]*mvar) / tval
			rho[j] = mvar / tval
			valid = append(valid, j)
		}

		pres := registry.UpdateParallel(potential.ParallelRequest{
			PotIDs: pman.PotIDs(), NumPot: pman.NumPot(),
			ParVec: pman.ParVec(), ParShared: pman.ParShared(), AnnHandles: pman.AnnHandles(),
			Mu: mu, Rho: rho, Subset: valid,
		})

		newPi := append([]float64(nil), epPi...)
		newBeta := append([]float64(nil), epBeta...)
		nskip := mm - len(valid)
		for _, j := range valid {
			if pres.RStat[j] == 0 {
				nskip++
				continue
			}
			tscal := 1 - pres.Nu[j]*rho[j]
			if tscal < 1e-7 {
				nskip++
				continue
			}
			piFull := pres.Nu[j] / tscal
			betaFull := (mu[j]*pres.Nu[j] + pres.Alpha[j]) / tscal
			if cfg.Damp > 0 {
				piFull = (1-cfg.Damp)*piFull + cfg.Damp*epPi[j]
				betaFull = (1-cfg.Damp)*betaFull + cfg.Damp*epBeta[j]
			}
			newPi[j] = piFull
			newBeta[j] = betaFull
		}

		if err := rep.SetEPSites(newPi, newBeta); err != nil {
			return res, err
		}

		newMargMeans, newMargVars := rep.MargMeans(), rep.MargVars()
		newMargs := make([]float64, 2*mm)
		for i, j := range updind {
			newMargs[i] = newMargMeans[j]
			newMargs[mm+i] = math.Sqrt(newMargVars[j])
		}
		res.Delta = ep.MaxRelDiff(oldMargs, newMargs)
		res.NSkip[0] += nskip

		if res.Detail != nil {
			res.Detail.Delta = append(res.Detail.Delta, res.Delta)
			res.Detail.NSkip = append(res.Detail.NSkip, []int{nskip})
		}
		if cfg.Verbose > 0 {
			cfg.Logger.Printf("It. %d: delta=%f, nskip=%d", sweep, res.Delta, nskip)
		}
		if cfg.TestModel != nil {
			acc, loglh, err := cfg.TestModel(sweep)
			if err == nil && cfg.Verbose > 0 {
				cfg.Logger.Printf("Test set predictions: Accuracy: %.2f%%, log likelihood: %.6f", acc, loglh)
			}
		}
		if res.Delta < cfg.DeltaEps {
			res.RStat = 0
			break
		}
	}
	return res, nil
}
