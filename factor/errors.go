// SPDX-License-Identifier: MIT
package factor

import "errors"

// Sentinel errors returned by every Factor variant. Callers should match
// against these with errors.Is; messages are wrapped with call-site context
// via fmt.Errorf("%s: %w", ...) at each public boundary.
var (
	// ErrInvalidArgument marks a malformed constructor argument (nil slice,
	// mismatched lengths, negative size) that is not itself a shape/size
	// mismatch against an existing factor.
	ErrInvalidArgument = errors.New("factor: invalid argument")

	// ErrEmptyFactor is returned when a variant would be constructed with
	// zero rows or zero columns.
	ErrEmptyFactor = errors.New("factor: m and n must both be positive")

	// ErrShapeMismatch marks an input/output buffer whose length does not
	// match the factor's logical shape for the requested kernel.
	ErrShapeMismatch = errors.New("factor: buffer shape mismatch")

	// ErrDimensionMismatch marks incompatible dimensions between composed
	// factors, e.g. VStack children disagreeing on column count.
	ErrDimensionMismatch = errors.New("factor: dimension mismatch")

	// ErrIndexOutOfRange marks a column or permutation index outside its
	// valid bounds.
	ErrIndexOutOfRange = errors.New("factor: index out of range")
)
