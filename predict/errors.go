// SPDX-License-Identifier: MIT
package predict

import "errors"

// ErrInvalidArgument marks a malformed constructor or Predict argument
// (nil source/registry/factor/manager, out-of-range PredictType).
var ErrInvalidArgument = errors.New("predict: invalid argument")
