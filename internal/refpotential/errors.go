// SPDX-License-Identifier: MIT
package refpotential

import "errors"

// ErrMalformedParams marks a block whose ("mean","var") parameter tuple
// does not match this registry's fixed two-parameter layout.
var ErrMalformedParams = errors.New("refpotential: malformed parameter tuple")
