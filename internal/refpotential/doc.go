// Package refpotential is a minimal Gaussian-only potential.Registry used
// by this module's own test suites (factorized, inference, predict) to
// exercise real EP sweeps end to end without depending on an
// out-of-scope concrete moment-matching library (spec §1 Non-goals).
//
// A Gaussian potential t(s) = N(s; mean, var) convolved with a Gaussian
// cavity has an exact closed-form tilted moment match, so every update
// here is a fixed-point computation, not an approximation — there is no
// quadrature, no Laplace approximation, and this package must never grow
// one. It registers exactly two families, "gaussian" (the manager's
// conventional name for a site already excluded from sweep updates, see
// potential.Manager's gaussianBlockName) and "noisy", a Gaussian
// observation likelihood that the sweep drivers do update, both sharing
// the identical moment-matching math. Grounded on the natural/mean-variance
// Gaussian bookkeeping pattern of timwee-hector's EPLogisticRegression
// (util.Gaussian, MultGaussian) from the retrieval pack.
package refpotential
