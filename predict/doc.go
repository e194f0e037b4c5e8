// Package predict implements the Predictor of spec §4.7: Gaussian
// predictive moments on a held-out CouplingFactor via the active
// posterior representation's Predict, followed by a single parallel
// local-EP pass through a potential.Registry to turn those moments into
// predictive (tilted) moments p(s) ∝ t(s) q(s).
package predict
