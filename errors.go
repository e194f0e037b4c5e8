// SPDX-License-Identifier: MIT
package ep

import "errors"

// Shared sentinel errors (spec §7). Each subpackage defines and returns its
// own locally-scoped sentinels (factor.ErrShapeMismatch, coupled.ErrNumericFailure,
// ...), and those do not wrap the values below, so errors.Is against this
// set does not match them. Of this set, only ErrInvalidArgument is returned
// anywhere, by factorized.UpdateSite.
var (
	// ErrInvalidArgument marks a malformed argument at any public API
	// boundary: shape/size mismatches, nil required inputs, out-of-range
	// indices.
	ErrInvalidArgument = errors.New("ep: invalid argument")

	// ErrInvalidPotentialParameters wraps a potential.Registry validation
	// diagnostic: parameter values outside a potential's valid domain.
	ErrInvalidPotentialParameters = errors.New("ep: invalid potential parameters")

	// ErrNumericFailure marks a non-positive-definite precision matrix or a
	// failed Cholesky up/downdate. Fatal when raised from a full refresh;
	// a non-fatal per-site skip signal when raised from an incremental
	// single-site update (spec §7).
	ErrNumericFailure = errors.New("ep: numeric failure")
)
