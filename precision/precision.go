// Package precision implements the precision bookkeeping rules shared by all
// p-adic parents. Every arithmetic operation on elements maps to exactly one
// rule in this package; no other package is allowed to reason about how
// valuations and precisions combine. The four tracking variants (fixed
// modulus, capped absolute, capped relative, floating point) are a closed
// enum and the per-operator behavior lives in a single table indexed by it.
package precision

import "math"

// Variant selects how a parent tracks precision across arithmetic.
type Variant uint8

const (
	// FixedModulus parents report full precision on every element. Precision
	// loss is real but untracked.
	FixedModulus Variant = iota
	// CappedAbsolute parents bound the absolute precision of elements.
	CappedAbsolute
	// CappedRelative parents bound the relative precision of elements.
	CappedRelative
	// FloatingPoint parents keep a fixed number of relative digits and do not
	// track absolute precision at all.
	FloatingPoint
)

// Unbounded is the valuation and absolute precision of an exact zero.
const Unbounded = math.MaxInt32

func (v Variant) String() string {
	switch v {
	case FixedModulus:
		return "fixed-mod"
	case CappedAbsolute:
		return "capped-abs"
	case CappedRelative:
		return "capped-rel"
	case FloatingPoint:
		return "floating-point"
	default:
		return "unknown"
	}
}

// Valid reports whether v is one of the four declared variants.
func (v Variant) Valid() bool {
	return v <= FloatingPoint
}

// TracksAbsolute reports whether elements of this variant carry a meaningful
// absolute precision. Floating point recomputes it from the valuation.
func (v Variant) TracksAbsolute() bool {
	return v != FloatingPoint
}

// Prec is a (valuation, absolute precision) pair. For inexact elements the
// valuation entry is a lower bound refined by the digit computation; the
// absolute entry is exact. An exact zero has both entries Unbounded.
type Prec struct {
	Val int
	Abs int
}

// Exact is the precision of an exact (infinite precision) zero.
func Exact() Prec { return Prec{Val: Unbounded, Abs: Unbounded} }

// IsExactZero reports whether p describes an exact zero.
func (p Prec) IsExactZero() bool { return p.Val == Unbounded }

// Rel returns the relative precision Abs-Val. It is zero for elements with no
// known digits, including both flavors of zero.
func (p Prec) Rel() int {
	if p.Val == Unbounded {
		return 0
	}
	return p.Abs - p.Val
}

// saturating addition: Unbounded absorbs.
func addSat(a, b int) int {
	if a == Unbounded || b == Unbounded {
		return Unbounded
	}
	return a + b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ruleSet holds the combination rules of one variant. The functions are pure;
// they never consult digits, only the operand precision pairs.
type ruleSet struct {
	add func(a, b Prec) Prec
	mul func(a, b Prec) Prec
	div func(a, b Prec) Prec
	neg func(a Prec) Prec
	inv func(a Prec) Prec
	shr func(a Prec, n int) Prec
}

// trackedAdd is shared by the three variants that track absolute precision:
// the result is known modulo the weaker of the two operand moduli, and its
// valuation is at least the smaller operand valuation.
func trackedAdd(a, b Prec) Prec {
	return Prec{Val: minInt(a.Val, b.Val), Abs: minInt(a.Abs, b.Abs)}
}

// floatAdd does not track absolute precision; the element layer recomputes
// the relative window from the result's own valuation.
func floatAdd(a, b Prec) Prec {
	return Prec{Val: minInt(a.Val, b.Val), Abs: Unbounded}
}

// mulRule: valuations add, relative precisions meet.
func mulRule(a, b Prec) Prec {
	if a.IsExactZero() || b.IsExactZero() {
		return Exact()
	}
	v := addSat(a.Val, b.Val)
	return Prec{Val: v, Abs: addSat(v, minInt(a.Rel(), b.Rel()))}
}

// divRule: valuations subtract, relative precisions meet. Unit checks are the
// element layer's business; by the time this rule runs the divisor is known
// to be invertible in the target parent.
func divRule(a, b Prec) Prec {
	if a.IsExactZero() {
		return Exact()
	}
	v := a.Val - b.Val
	return Prec{Val: v, Abs: addSat(v, minInt(a.Rel(), b.Rel()))}
}

func negRule(a Prec) Prec { return a }

func invRule(a Prec) Prec {
	if a.IsExactZero() {
		return Exact()
	}
	return Prec{Val: -a.Val, Abs: -a.Val + a.Rel()}
}

// shrRule: shifting n digits out lowers both the valuation and the absolute
// precision. Clamping to the parent's element domain happens in Clamp.
func shrRule(a Prec, n int) Prec {
	if a.IsExactZero() {
		return Exact()
	}
	return Prec{Val: a.Val - n, Abs: a.Abs - n}
}

// fixedShr deliberately reports full precision after a shift. This is the
// documented fixed-modulus floor-division hazard: the claimed precision can
// exceed what is rigorously justified.
func fixedShr(a Prec, n int) Prec {
	if a.IsExactZero() {
		return Exact()
	}
	return Prec{Val: a.Val - n, Abs: a.Abs}
}

var rules = [4]ruleSet{
	FixedModulus:   {add: trackedAdd, mul: mulRule, div: divRule, neg: negRule, inv: invRule, shr: fixedShr},
	CappedAbsolute: {add: trackedAdd, mul: mulRule, div: divRule, neg: negRule, inv: invRule, shr: shrRule},
	CappedRelative: {add: trackedAdd, mul: mulRule, div: divRule, neg: negRule, inv: invRule, shr: shrRule},
	FloatingPoint:  {add: floatAdd, mul: mulRule, div: divRule, neg: negRule, inv: invRule, shr: shrRule},
}

// Add returns the precision pair of a sum or difference.
func Add(v Variant, a, b Prec) Prec {
	if a.IsExactZero() {
		return b
	}
	if b.IsExactZero() {
		return a
	}
	return rules[v].add(a, b)
}

// Mul returns the precision pair of a product.
func Mul(v Variant, a, b Prec) Prec { return rules[v].mul(a, b) }

// Div returns the precision pair of a quotient by a unit-part-invertible
// divisor.
func Div(v Variant, a, b Prec) Prec { return rules[v].div(a, b) }

// Neg returns the precision pair of a negation: unchanged.
func Neg(v Variant, a Prec) Prec { return rules[v].neg(a) }

// Inv returns the precision pair of a multiplicative inverse: the valuation
// negates and the relative precision is preserved.
func Inv(v Variant, a Prec) Prec { return rules[v].inv(a) }

// Shr returns the precision pair after dropping the n lowest digits.
func Shr(v Variant, a Prec, n int) Prec { return rules[v].shr(a, n) }

// Clamp normalizes a raw precision pair to the element domain of a parent
// with the given precision cap. It enforces the per-variant invariants:
// fixed modulus always reports cap absolute digits, capped absolute bounds
// the absolute precision, capped relative and floating point bound the
// relative window.
func Clamp(v Variant, cap int, p Prec) Prec {
	switch v {
	case FixedModulus:
		if p.IsExactZero() {
			return Prec{Val: cap, Abs: cap}
		}
		return Prec{Val: minInt(p.Val, cap), Abs: cap}
	case CappedAbsolute:
		if p.IsExactZero() {
			return Prec{Val: cap, Abs: cap}
		}
		abs := minInt(p.Abs, cap)
		return Prec{Val: minInt(p.Val, abs), Abs: abs}
	case CappedRelative:
		if p.IsExactZero() {
			return Exact()
		}
		if p.Abs == Unbounded || p.Rel() > cap {
			return Prec{Val: p.Val, Abs: p.Val + cap}
		}
		return p
	case FloatingPoint:
		if p.IsExactZero() {
			return Exact()
		}
		return Prec{Val: p.Val, Abs: p.Val + cap}
	}
	return p
}
