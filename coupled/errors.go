// SPDX-License-Identifier: MIT
package coupled

import "errors"

var (
	// ErrInvalidArgument marks a malformed constructor or call argument
	// (nil factor/manager, size mismatch between B's row count and the
	// potential manager's size, wrong-length output buffer).
	ErrInvalidArgument = errors.New("coupled: invalid argument")

	// ErrNumericFailure marks a non-positive-definite precision matrix:
	// fatal when raised from Refresh, a non-fatal per-site skip signal
	// when raised from UpdateSingle (spec §7).
	ErrNumericFailure = errors.New("coupled: numeric failure (matrix not positive definite)")
)
