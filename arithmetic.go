package padic

import (
	"fmt"
	"math/big"

	"github.com/hensel/padic/precision"
)

// commonParent resolves the parent of a binary operation. Structurally
// identical parents interoperate directly; an operand from a ring of
// integers is re-homed into the other operand's fraction field when that is
// where the operation lives. Anything else is a programming error.
func commonParent(x, y *Element) (*Ring, *Element, *Element) {
	a, b := x.ring, y.ring
	if a == b {
		return a, x, y
	}
	if a.pp.PrimeRef().Cmp(b.pp.PrimeRef()) == 0 && a.prec == b.prec {
		if a.variant == b.variant && a.field == b.field {
			return a, x, y
		}
		if a.field && !b.field && fractionVariant(b.variant) == a.variant {
			return a, x, y.inParent(a)
		}
		if b.field && !a.field && fractionVariant(a.variant) == b.variant {
			return b, x.inParent(b), y
		}
	}
	panic(fmt.Sprintf("padic: mixed parents %v and %v", a, b))
}

// inParent rebuilds the element in a structurally compatible parent, keeping
// valuation, digits and claimed precision.
func (e *Element) inParent(t *Ring) *Element {
	if e.exact {
		return t.Zero()
	}
	if e.prec == 0 {
		return t.zeroWithAbs(e.val)
	}
	return t.makeElement(e.val, &e.unit, e.absolute())
}

// Add returns x+y. The result is known modulo the weaker of the two operand
// moduli; its valuation is at least the smaller operand valuation, with
// equality whenever the valuations differ.
func (e *Element) Add(y *Element) *Element {
	r, e, y := commonParent(e, y)
	if e.exact {
		return y
	}
	if y.exact {
		return e
	}
	pr := precision.Add(r.variant, e.precPair(), y.precPair())
	v0 := e.val
	if y.val < v0 {
		v0 = y.val
	}
	abs := pr.Abs
	if abs == precision.Unbounded {
		// floating point: the relative window restarts at the result's own
		// valuation; digits beyond the justified range are untracked
		abs = v0 + r.prec
	}
	m := abs - v0
	if m <= 0 {
		return r.zeroWithAbs(abs)
	}
	mod := r.pp.Pow(m)
	s := new(big.Int).Add(e.scaledRep(v0, mod), y.scaledRep(v0, mod))
	s.Mod(s, mod)
	v, u, ok := r.pp.ValuationMod(s, m)
	if !ok {
		return r.zeroWithAbs(abs)
	}
	return r.makeElement(v0+v, u, abs)
}

// Sub returns x-y.
func (e *Element) Sub(y *Element) *Element {
	return e.Add(y.Neg())
}

// Neg returns -x. Valuation and both precisions are unchanged.
func (e *Element) Neg() *Element {
	if e.exact || e.prec == 0 {
		return e
	}
	r := e.ring
	u := new(big.Int).Sub(r.pp.Pow(e.prec), &e.unit)
	ne := &Element{ring: r, val: e.val, prec: e.prec}
	ne.unit.Set(u)
	return ne
}

// Mul returns x*y. Valuations add; under capped-relative and floating-point
// tracking the result's relative precision is exactly the smaller operand
// relative precision, under the absolute models it may be smaller still.
func (e *Element) Mul(y *Element) *Element {
	r, e, y := commonParent(e, y)
	pr := precision.Mul(r.variant, e.precPair(), y.precPair())
	if pr.IsExactZero() {
		return r.Zero()
	}
	if e.prec == 0 || y.prec == 0 {
		return r.zeroWithAbs(pr.Abs)
	}
	rel := e.prec
	if y.prec < rel {
		rel = y.prec
	}
	u := new(big.Int).Mul(&e.unit, &y.unit)
	u.Mod(u, r.pp.Pow(rel))
	return r.makeElement(e.val+y.val, u, pr.Abs)
}

// divisorCheck applies the shared error ladder for division and inversion:
// exact zero, then not-enough-digits, then (where the target parent requires
// a unit) provably-non-unit.
func divisorCheck(r *Ring, y *Element, needUnit bool) error {
	if y.exact {
		return fmt.Errorf("%v: %w", r, ErrDivisionByZero)
	}
	if y.prec == 0 {
		if r.variant == precision.FixedModulus {
			// fixed-mod elements are exact residues: zero mod the modulus is
			// the best notion of zero the variant has
			return fmt.Errorf("%v: %w", r, ErrDivisionByZero)
		}
		return fmt.Errorf("divisor O(%s^%d) may or may not be a unit: %w", r.pp.PrimeRef(), y.absolute(), ErrInsufficientPrecision)
	}
	if needUnit && y.val != 0 {
		return fmt.Errorf("valuation %d divisor: %w", y.val, ErrNonUnit)
	}
	return nil
}

// divTarget returns the parent receiving division results: the parent itself
// for fields and fixed-modulus rings, the fraction field otherwise.
func divTarget(r *Ring) *Ring {
	if r.field || r.variant == precision.FixedModulus {
		return r
	}
	return r.FractionField(nil)
}

// divNeedsUnit reports whether the parent's division admits only unit
// divisors. The two absolute-tracking ring variants do; capped-relative and
// floating-point rings instead promote the quotient into the fraction field.
func divNeedsUnit(r *Ring) bool {
	if r.field {
		return false
	}
	return r.variant == precision.FixedModulus || r.variant == precision.CappedAbsolute
}

// Div returns x/y. Capped-relative and floating-point rings accept any
// nonzero divisor and home the quotient in the fraction field; fixed-modulus
// and capped-absolute rings only admit unit divisors (the latter still
// promoting the quotient into the capped-relative fraction field). The
// result's relative precision is the smaller of the operands' relative
// precisions.
func (e *Element) Div(y *Element) (*Element, error) {
	r, e, y := commonParent(e, y)
	t := divTarget(r)
	if err := divisorCheck(r, y, divNeedsUnit(r)); err != nil {
		return nil, err
	}
	if e.exact {
		return t.Zero(), nil
	}
	pr := precision.Div(r.variant, e.precPair(), y.precPair())
	if e.prec == 0 {
		return t.zeroWithAbs(pr.Abs), nil
	}
	rel := e.prec
	if y.prec < rel {
		rel = y.prec
	}
	inv := r.pp.InverseMod(&y.unit, rel)
	u := new(big.Int).Mul(&e.unit, inv)
	u.Mod(u, r.pp.Pow(rel))
	return t.makeElement(e.val-y.val, u, pr.Abs), nil
}

// Inv returns 1/x, subject to the same unit policy as Div: the valuation
// negates and the relative precision is preserved.
func (e *Element) Inv() (*Element, error) {
	r := e.ring
	t := divTarget(r)
	if err := divisorCheck(r, e, divNeedsUnit(r)); err != nil {
		return nil, err
	}
	pr := precision.Inv(r.variant, e.precPair())
	inv := r.pp.InverseMod(&e.unit, e.prec)
	return t.makeElement(-e.val, inv, pr.Abs), nil
}

// InverseOfUnit inverts a unit without leaving the parent. Non-units are
// rejected with ErrNonUnit regardless of variant.
func (e *Element) InverseOfUnit() (*Element, error) {
	if err := divisorCheck(e.ring, e, true); err != nil {
		return nil, err
	}
	inv := e.ring.pp.InverseMod(&e.unit, e.prec)
	return e.ring.makeElement(0, inv, e.prec), nil
}

// FloorDiv returns x//y: division by the divisor's unit part followed by
// discarding the digits below the divisor's valuation. In fixed-modulus
// parents the result still reports full precision even though the shifted
// digits are no longer certified; this is a documented concession, not an
// error.
func (e *Element) FloorDiv(y *Element) (*Element, error) {
	r, e, y := commonParent(e, y)
	if err := divisorCheck(r, y, false); err != nil {
		return nil, err
	}
	yu := r.makeElement(0, &y.unit, y.prec)
	inv, err := yu.InverseOfUnit()
	if err != nil {
		return nil, err
	}
	return e.Mul(inv).shiftRight(y.val), nil
}

// shiftRight drops the n lowest digits. In fields this is an exact division
// by p^n; in rings digits below the units place are truncated away.
func (e *Element) shiftRight(n int) *Element {
	r := e.ring
	if n == 0 || e.exact {
		return e
	}
	pr := precision.Shr(r.variant, e.precPair(), n)
	if e.prec == 0 {
		return r.zeroWithAbs(pr.Abs)
	}
	if r.field || e.val >= n {
		return r.makeElement(e.val-n, &e.unit, pr.Abs)
	}
	// truncating shift: divide the integer representative by p^n
	rep := new(big.Int).Mul(&e.unit, r.pp.Pow(e.val))
	rep.Quo(rep, r.pp.Pow(n))
	if rep.Sign() == 0 {
		return r.zeroWithAbs(pr.Abs)
	}
	v, u := r.pp.Valuation(rep)
	return r.makeElement(v, u, pr.Abs)
}

// Pow returns x^n. Negative exponents invert first and follow the parent's
// unit policy.
func (e *Element) Pow(n int64) (*Element, error) {
	if n < 0 {
		inv, err := e.Inv()
		if err != nil {
			return nil, err
		}
		return inv.Pow(-n)
	}
	if n == 0 {
		return e.ring.One(), nil
	}
	// square and multiply; precision propagates through Mul's rules
	acc := e
	bit := int64(62)
	for bit >= 0 && n&(1<<bit) == 0 {
		bit--
	}
	for bit--; bit >= 0; bit-- {
		acc = acc.Mul(acc)
		if n&(1<<bit) != 0 {
			acc = acc.Mul(e)
		}
	}
	return acc, nil
}
