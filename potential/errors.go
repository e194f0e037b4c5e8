// SPDX-License-Identifier: MIT
package potential

import "errors"

var (
	// ErrInvalidArgument marks a malformed manager construction or query
	// argument (nil registry or empty block list, zero-size block,
	// out-of-range block or site index).
	ErrInvalidArgument = errors.New("potential: invalid argument")

	// ErrUnknownPotential is returned when a block names a potential the
	// Registry does not recognize (PotID returns -1).
	ErrUnknownPotential = errors.New("potential: unknown potential name")

	// ErrInvalidPotentialParameters wraps the Registry's IsValid diagnostic
	// verbatim (spec §4.2/§7): the parameter values for some block lie
	// outside that potential's valid domain.
	ErrInvalidPotentialParameters = errors.New("potential: invalid potential parameters")

	// ErrBVPNotContiguous marks a manager whose bivariate-precision blocks
	// are not all at the end of the block list (spec §3 invariant).
	ErrBVPNotContiguous = errors.New("potential: bivariate-precision blocks must be contiguous and last")

	// ErrParamShapeMismatch marks a parameter whose declared Shared flag
	// disagrees with its value-slice length.
	ErrParamShapeMismatch = errors.New("potential: parameter shape mismatch")
)
