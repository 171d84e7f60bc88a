package padic

import "errors"

// Sentinel errors returned by element and parent operations. Callers
// distinguish them with errors.Is; in particular ErrNonUnit (the operand is
// provably not invertible) and ErrInsufficientPrecision (the operand's
// precision cannot decide invertibility or another required predicate) are
// deliberately distinct conditions.
var (
	// ErrDivisionByZero is returned when dividing or inverting an exact zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNonUnit is returned when inverting or dividing by an element that is
	// provably not a unit in a parent whose arithmetic requires one.
	ErrNonUnit = errors.New("cannot invert non-unit")

	// ErrInsufficientPrecision is returned when an element's known digits
	// cannot decide a required predicate, e.g. inverting a zero-to-known-
	// precision element that may or may not be a unit.
	ErrInsufficientPrecision = errors.New("not enough precision")

	// ErrDomain is returned when an input lies outside the mathematical
	// domain of an operation: logarithm of zero, exponential outside the
	// convergence disc, Teichmuller lift of an element with negative
	// valuation or no residue.
	ErrDomain = errors.New("argument outside operation domain")

	// ErrConfiguration is returned for malformed parent or print options. It
	// is surfaced at call time, never deferred.
	ErrConfiguration = errors.New("invalid configuration")
)
