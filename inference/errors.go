// SPDX-License-Identifier: MIT
package inference

import "errors"

var (
	// ErrInvalidArgument marks a malformed Config or driver call argument.
	ErrInvalidArgument = errors.New("inference: invalid argument")

	// ErrKeepMargsRequired is returned by CoupledParallel when the supplied
	// coupled.Representation was not constructed with keepMargs==true: the
	// parallel sweep reads cached marginal means/variances every
	// iteration and has no fallback recomputation path (matches the
	// original driver's explicit "REP.KEEP_MARGS must be True" check).
	ErrKeepMargsRequired = errors.New("inference: representation must keep marginals")

	// ErrEmptyUpdateSet is returned when a sweep's update-index set (after
	// any upd_1stsweep restriction) is empty: there is nothing to update
	// on.
	ErrEmptyUpdateSet = errors.New("inference: no potentials to update on")
)
