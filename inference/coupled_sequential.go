// SPDX-License-Identifier: MIT
package inference

import (
	"math"

	ep "github.com/katalvlaran/epglm"
	"github.com/katalvlaran/epglm/coupled"
	"github.com/katalvlaran/epglm/potential"
)

// Coupled-sequential skip-reason codes (spec §4.6/§9, original
// EPCoupSequentialInfDriver skip histogram, 4 entries).
const (
	CSSkipNone            = 0 // not skipped
	CSSkipInvalidCavity   = 1 // cavity marginal invalid, or local EP failure
	CSSkipSmallChange     = 2 // |Δπ| below SkipEps
	CSSkipCholeskyFailure = 3 // Cholesky up/downdate numerical error
	// Index 4 in the original (selective damping shrank |Δπ| below SkipEps
	// although the delta before that shrink was not below it) is folded
	// back into index 0 by the original's own "do_skip if do_skip<4 else
	// 0" remapping (spec §9 open question; see DESIGN.md) — there is no
	// separate Go constant for it.
)

// CoupledSequential runs sequential-updating EP on rep (spec §4.6,
// original EPCoupSequentialInfDriver.inference): each sweep visits every
// non-Gaussian site once (in Config.Shuffle order, default ascending),
// performing a single-site local EP update and an immediate incremental
// Cholesky update/downdate, with built-in selective damping against the
// site's own cavity (spec's "1 + (Δπ)·margvar >= CavEps" guard).
func CoupledSequential(rep *coupled.Representation, pman *potential.Manager, registry potential.Registry, cfg *Config) (*Result, error) {
	if rep == nil || pman == nil || registry == nil || cfg == nil {
		return nil, ErrInvalidArgument
	}
	base := pman.UpdInd()
	if len(base) == 0 {
		return nil, ErrEmptyUpdateSet
	}

	res := &Result{RStat: 1, NSkip: make([]int, 4), NSDamp: -1}
	if cfg.ResultDetail {
		res.Detail = &ResultDetail{}
	}

	for sweep := 1; sweep <= cfg.MaxIter; sweep++ {
		res.NIt = sweep
		updind := append([]int(nil), base...)
		if sweep == 1 && cfg.Upd1stSweep != nil {
			filtered := updind[:0]
			for _, j := range updind {
				name, err := pman.BlockNameAt(j)
				if err != nil {
					return res, err
				}
				if _, ok := cfg.Upd1stSweep[name]; ok {
					filtered = append(filtered, j)
				}
			}
			updind = filtered
			if len(updind) == 0 {
				return nil, ErrEmptyUpdateSet
			}
		}
		if cfg.Shuffle != nil {
			cfg.Shuffle(updind)
		}

		nskip := make([]int, 4)
		var delta float64
		v := make([]float64, vCols(rep))
		for _, j := range updind {
			epPi, epBeta := rep.EPPi()[j], rep.EPBeta()[j]
			mu, rho, err := rep.GetMarg(j, v)
			if err != nil {
				return res, err
			}
			tscal := 1 - epPi*rho
			if tscal < cfg.CavEps {
				nskip[CSSkipInvalidCavity]++
				continue
			}
			crho := rho / tscal
			cmu := (mu - epBeta*rho) / tscal

			sres := registry.UpdateSingle(j, singleRequestFor(pman, j, cmu, crho))
			if sres.RStat == 0 {
				nskip[CSSkipInvalidCavity]++
				continue
			}
			tscal2 := 1 - sres.Nu*crho
			if tscal2 < 1e-7 {
				nskip[CSSkipInvalidCavity]++
				continue
			}
			newPi := sres.Nu / tscal2
			newBeta := (cmu*sres.Nu + sres.Alpha) / tscal2

			dflPi := newPi - epPi
			dflBeta := newBeta - epBeta
			delPi := (1 - cfg.Damp) * dflPi
			delBeta := (1 - cfg.Damp) * dflBeta
			delPiUnclamped := delPi

			// Selective damping: keep the cavity at j itself valid for a
			// future sweep.
			if delPi*rho+1 < cfg.CavEps {
				delPi = (cfg.CavEps - 1) / rho
				delBeta = (delPi / dflPi) * delBeta
			}

			if math.Abs(delPi) < cfg.SkipEps {
				if math.Abs(delPiUnclamped) < cfg.SkipEps {
					nskip[CSSkipSmallChange]++
				} else {
					nskip[CSSkipNone]++
				}
				continue
			}
			if err := rep.UpdateSingle(j, delPi, delBeta, v); err != nil {
				nskip[CSSkipCholeskyFailure]++
				continue
			}
			nskip[CSSkipNone]++

			hrho := crho * (1 - sres.Nu*crho)
			hmu := cmu + sres.Alpha*crho
			d := ep.MaxRelDiff([]float64{hmu, math.Sqrt(hrho)}, []float64{mu, math.Sqrt(rho)})
			if d > delta {
				delta = d
			}
		}

		for k := range nskip {
			res.NSkip[k] += nskip[k]
		}
		res.Delta = delta
		if res.Detail != nil {
			res.Detail.Delta = append(res.Detail.Delta, delta)
			res.Detail.NSkip = append(res.Detail.NSkip, append([]int(nil), nskip...))
		}
		if cfg.Refresh {
			if err := rep.Refresh(); err != nil {
				return res, err
			}
		}
		if cfg.Verbose > 0 {
			sum := nskip[1] + nskip[2] + nskip[3]
			cfg.Logger.Printf("It. %d: delta=%f, nnskip=%d", sweep, delta, sum)
		}
		if cfg.TestModel != nil {
			acc, loglh, err := cfg.TestModel(sweep)
			if err == nil && cfg.Verbose > 0 {
				cfg.Logger.Printf("Test set predictions: Accuracy: %.2f%%, log likelihood: %.6f", acc, loglh)
			}
		}
		if delta < cfg.DeltaEps {
			res.RStat = 0
			break
		}
	}
	return res, nil
}

// vCols returns n, the length GetMarg/UpdateSingle require for their v
// scratch vector (distinct from SizePars, which is m). Representation
// doesn't expose n directly; C() is always length n, so it's used as the
// probe.
func vCols(rep *coupled.Representation) int {
	return len(rep.C())
}

func singleRequestFor(pman *potential.Manager, j int, mu, rho float64) potential.SingleRequest {
	potID, blockSize, localIndex, parVec, parShared, annHandle, err := pman.SiteInfo(j)
	if err != nil {
		return potential.SingleRequest{}
	}
	return potential.SingleRequest{
		PotID: potID, NumPot: blockSize, LocalIndex: localIndex,
		ParVec: parVec, ParShared: parShared, AnnHandle: annHandle,
		Mu: mu, Rho: rho,
	}
}
