// Package padic implements precision-tracked p-adic arithmetic: parents
// representing the ring of p-adic integers and the field of p-adic numbers
// under four precision-tracking models (fixed modulus, capped absolute,
// capped relative, floating point), together with element arithmetic, p-adic
// logarithm and exponential, and Teichmuller lifts.
//
// A parent is configured once with a prime, a precision cap and a tracking
// variant; elements are immutable values produced by the parent. All
// precision combination rules live in the precision subpackage.
package padic

import (
	"github.com/blang/semver/v4"
)

// Version of the padic library
var Version = semver.MustParse("0.3.0")
