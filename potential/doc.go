// Package potential implements the PotentialManager (spec §4.2): an
// ordered, flat-indexed collection of potential blocks t_j, each either a
// univariate prior/likelihood or a bivariate-precision potential whose
// second argument is a Gamma-approximated variance hyperparameter.
//
// The concrete per-potential moment-matching math (Gaussian, Laplace,
// Probit, Poisson, spike-and-slab, Gaussian mixture, adaptive quadrature)
// is out of scope here (spec §1) and lives behind the Registry interface
// (spec §6), which this package only calls — it never interprets a
// potential's parameters itself beyond validating their shape.
package potential
