// SPDX-License-Identifier: MIT
package factorized

import "errors"

var (
	// ErrInvalidArgument marks a malformed constructor or call argument
	// (nil/mismatched COO triples, out-of-range index, wrong-length buffer).
	ErrInvalidArgument = errors.New("factorized: invalid argument")

	// ErrEmptyStorage is returned when a Storage would be built with zero
	// rows, zero columns, or zero nonzeros.
	ErrEmptyStorage = errors.New("factorized: m, n and nnz must all be positive")
)
