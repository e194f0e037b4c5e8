// SPDX-License-Identifier: MIT
package linalg

import "errors"

var (
	// ErrNotPositiveDefinite marks a Factorize or Rank1Update call whose
	// result is not positive definite (spec §4.3/§7 NumericFailure).
	ErrNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")

	// ErrShapeMismatch marks an input/output slice whose length disagrees
	// with the factorization's size.
	ErrShapeMismatch = errors.New("linalg: shape mismatch")
)
