// SPDX-License-Identifier: MIT
package predict

import (
	"github.com/katalvlaran/epglm/factor"
	"github.com/katalvlaran/epglm/factorized"
	"github.com/katalvlaran/epglm/potential"
)

// Type selects which predictive outputs Predict populates (spec §4.6/§4.7
// ptype, restricted here to the 0-3 univariate range; the bivariate-
// precision extension 4-7 is out of scope, see internal/refpotential's
// Gaussian-only registry).
type Type int

const (
	// MeansOnly returns only Gaussian means (HQ).
	MeansOnly Type = 0
	// GaussianMoments returns Gaussian means and variances (HQ, RhoQ).
	GaussianMoments Type = 1
	// PredictiveMoments returns only the tilted predictive moments
	// (LogZ, HP, RhoP).
	PredictiveMoments Type = 2
	// All returns every field.
	All Type = 3
)

// Result holds whichever of the Gaussian moments (HQ, RhoQ) and tilted
// predictive moments (LogZ, HP, RhoP) the requested Type populates; unused
// fields are left nil.
type Result struct {
	HQ, RhoQ       []float64
	LogZ, HP, RhoP []float64
}

// Source is the common Predict contract both posterior representations
// satisfy: coupled.Representation directly (its Predict already takes a
// useCov flag), factorized.Representation via the FactorizedSource
// adapter below (its Predict has no notion of a cached covariance).
type Source interface {
	Predict(bTest factor.Factor, outMeans, outVars []float64, useCov bool) error
}

// FactorizedSource adapts *factorized.Representation to Source; useCov is
// accepted and ignored since the factorized posterior never caches a
// dense covariance.
type FactorizedSource struct {
	Rep *factorized.Representation
}

func (f FactorizedSource) Predict(bTest factor.Factor, outMeans, outVars []float64, _ bool) error {
	return f.Rep.Predict(bTest, outMeans, outVars)
}

// Predictor computes predictive moments on a test CouplingFactor (spec
// §4.7). UseCov mirrors the original driver's rule that the cached
// posterior covariance is only trustworthy right after a coupled-parallel
// refresh; every other sweep mode recomputes it from scratch.
type Predictor struct {
	src      Source
	registry potential.Registry
	useCov   bool
}

// New constructs a Predictor over src (the trained posterior
// representation) and registry (the same Registry the training sweep
// used, so potential identities agree).
func New(src Source, registry potential.Registry, useCov bool) (*Predictor, error) {
	if src == nil || registry == nil {
		return nil, ErrInvalidArgument
	}
	return &Predictor{src: src, registry: registry, useCov: useCov}, nil
}

// Predict computes predictive moments for every row of bTest, whose
// potential metadata (for the local-EP pass, when requested) is described
// by pman. pman may be nil when typ==MeansOnly or typ==GaussianMoments,
// since no local-EP pass is needed in that case.
func (p *Predictor) Predict(bTest factor.Factor, pman *potential.Manager, typ Type) (Result, error) {
	if bTest == nil || typ < MeansOnly || typ > All {
		return Result{}, ErrInvalidArgument
	}
	pm, _ := bTest.Dims()
	hq := make([]float64, pm)
	var rhoq []float64
	if typ != MeansOnly {
		rhoq = make([]float64, pm)
	}
	if err := p.src.Predict(bTest, hq, rhoq, p.useCov); err != nil {
		return Result{}, err
	}
	if typ == MeansOnly {
		return Result{HQ: hq}, nil
	}
	if typ == GaussianMoments {
		return Result{HQ: hq, RhoQ: rhoq}, nil
	}
	if pman == nil {
		return Result{}, ErrInvalidArgument
	}

	logz, hp, rhop := p.tiltedMoments(pman, hq, rhoq)
	if typ == PredictiveMoments {
		return Result{LogZ: logz, HP: hp, RhoP: rhop}, nil
	}
	return Result{HQ: hq, RhoQ: rhoq, LogZ: logz, HP: hp, RhoP: rhop}, nil
}

// tiltedMoments runs one parallel local-EP pass over every site of pman
// against the Gaussian moments (hq, rhoq), producing the predictive
// marginal p(s) ∝ t(s) q(s) at each site (spec §4.7/original
// InfDriver._predict_epcomp). A site whose local update fails, or whose
// tilted variance would not shrink (1 - nu*rho < 1e-9), keeps its cavity
// (Gaussian) moments and a log-normalizer of zero, matching the original
// driver's indok/indok2 filtering.
func (p *Predictor) tiltedMoments(pman *potential.Manager, hq, rhoq []float64) (logz, hp, rhop []float64) {
	pm := len(hq)
	logz = make([]float64, pm)
	hp = append([]float64(nil), hq...)
	rhop = append([]float64(nil), rhoq...)

	res := p.registry.UpdateParallel(potential.ParallelRequest{
		PotIDs:     pman.PotIDs(),
		NumPot:     pman.NumPot(),
		ParVec:     pman.ParVec(),
		ParShared:  pman.ParShared(),
		AnnHandles: pman.AnnHandles(),
		Mu:         hq,
		Rho:        rhoq,
	})
	for j := 0; j < pm; j++ {
		if j >= len(res.RStat) || res.RStat[j] == 0 {
			continue
		}
		tscal := 1 - res.Nu[j]*rhoq[j]
		if tscal < 1e-9 {
			continue
		}
		logz[j] = res.LogZ[j]
		hp[j] = hq[j] + res.Alpha[j]*rhoq[j]
		rhop[j] = rhoq[j] * tscal
	}
	return logz, hp, rhop
}
