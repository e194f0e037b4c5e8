// SPDX-License-Identifier: MIT
package inference

import (
	"github.com/katalvlaran/epglm/factorized"
	"github.com/katalvlaran/epglm/potential"
)

// Factorized runs sequential-updating EP on rep (spec §4.5/§4.6, original
// EPFactorizedInfDriver.inference): each sweep visits a permutation of
// factor indices (Config.Shuffle order, default ascending), delegating
// each site to factorized.UpdateSite, which applies selective damping
// inline when rep has a SelDamp tracker installed. By default every site
// (including Gaussian ones) is revisited each sweep; Config.SkipGauss
// restricts the sweep to pman.UpdInd() (non-Gaussian sites only).
// ADFInitFactorized represents a Gaussian site exactly only when it touches
// a single variable; the messages of a Gaussian site with several
// neighbors still change when a sweep visits it.
func Factorized(rep *factorized.Representation, pman *potential.Manager, registry potential.Registry, cfg *Config) (*Result, error) {
	if rep == nil || pman == nil || registry == nil || cfg == nil {
		return nil, ErrInvalidArgument
	}
	m := rep.Storage().M
	var base []int
	if cfg.SkipGauss {
		base = pman.UpdInd()
	} else {
		base = make([]int, m)
		for i := range base {
			base[i] = i
		}
	}
	if len(base) == 0 {
		return nil, ErrEmptyUpdateSet
	}

	doSelDamp := rep.SelDampTracker() != nil
	res := &Result{RStat: 1, NSkip: make([]int, 5), NSDamp: -1}
	if doSelDamp {
		res.NSDamp = 0
	}
	if cfg.ResultDetail {
		res.Detail = &ResultDetail{}
		if doSelDamp {
			res.Detail.NSDamp = []int{}
		}
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

		nskip := make([]int, 5)
		nsdamp := 0
		var delta float64
		for _, j := range updind {
			status, dampUsed, conv, err := factorized.UpdateSite(rep, j, registry, pman, cfg.PiMinThres, cfg.Damp)
			if err != nil {
				return res, err
			}
			nskip[status]++
			if status == factorized.StatusOK {
				if conv > delta {
					delta = conv
				}
				if doSelDamp && dampUsed > cfg.Damp {
					nsdamp++
				}
			}
		}

		for k := range nskip {
			res.NSkip[k] += nskip[k]
		}
		res.Delta = delta
		if doSelDamp {
			res.NSDamp += nsdamp
		}
		if res.Detail != nil {
			res.Detail.Delta = append(res.Detail.Delta, delta)
			res.Detail.NSkip = append(res.Detail.NSkip, append([]int(nil), nskip...))
			if doSelDamp {
				res.Detail.NSDamp = append(res.Detail.NSDamp, nsdamp)
			}
		}
		if cfg.Refresh {
			rep.Refresh()
		}
		if cfg.Verbose > 0 {
			sum := nskip[1] + nskip[2] + nskip[3] + nskip[4]
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
