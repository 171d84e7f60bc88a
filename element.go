package padic

import (
	"fmt"
	"math/big"

	"golang.org/x/exp/constraints"

	"github.com/hensel/padic/precision"
)

// Infinity is the valuation reported by an exact zero, and the sentinel
// accepted by [Ring.UniformizerPow] to request the zero element.
const Infinity = precision.Unbounded

// Element is an immutable p-adic number owned by a parent. A nonzero element
// is p^val * unit where unit is coprime to p and known modulo p^prec; its
// absolute precision is val+prec. An exact zero carries the exact flag and
// reports valuation Infinity. A zero-to-known-precision element has prec == 0
// and valuation equal to its absolute precision.
type Element struct {
	ring  *Ring
	val   int
	prec  int     // relative precision: number of known unit digits
	unit  big.Int // in [0, p^prec), coprime to p when prec > 0
	teich bool    // exact Teichmuller representative, set once before sharing
	exact bool    // exact zero
}

// Ring returns the parent owning this element.
func (e *Element) Ring() *Ring { return e.ring }

func (e *Element) absolute() int {
	if e.exact {
		return precision.Unbounded
	}
	return e.val + e.prec
}

func (e *Element) precPair() precision.Prec {
	if e.exact {
		return precision.Exact()
	}
	return precision.Prec{Val: e.val, Abs: e.val + e.prec}
}

// Valuation returns the element's valuation: the exponent of the lowest known
// nonzero digit. Exact zero reports Infinity; a zero-to-precision-n element
// reports n, the best available lower bound.
func (e *Element) Valuation() int {
	if e.exact {
		return Infinity
	}
	return e.val
}

// PrecisionAbsolute returns the exponent n such that the element is known
// modulo p^n, or Infinity for an exact zero.
func (e *Element) PrecisionAbsolute() int { return e.absolute() }

// PrecisionRelative returns the number of known digits of the unit part.
func (e *Element) PrecisionRelative() int {
	if e.exact {
		return 0
	}
	return e.prec
}

// IsZero reports whether the element is indistinguishable from zero at its
// own precision.
func (e *Element) IsZero() bool { return e.exact || e.prec == 0 }

// IsExactZero reports whether the element is the exact zero.
func (e *Element) IsExactZero() bool { return e.exact }

// IsUnit reports whether the element is provably invertible in the ring of
// integers, i.e. has valuation zero and at least one known digit.
func (e *Element) IsUnit() bool { return !e.exact && e.prec > 0 && e.val == 0 }

// IsOne reports whether the element equals one to its known precision.
func (e *Element) IsOne() bool {
	if e.exact || e.prec == 0 || e.val != 0 {
		return false
	}
	return e.unit.Cmp(oneInt) == 0
}

// IsTeichmuller reports whether the element was produced as an exact
// Teichmuller representative.
func (e *Element) IsTeichmuller() bool { return e.teich }

// UnitDigits returns a copy of the unit part as an integer in [0, p^prec).
func (e *Element) UnitDigits() *big.Int { return new(big.Int).Set(&e.unit) }

// markTeichmuller is the one sanctioned post-construction mutation: it runs
// immediately after the element is built and before any other code sees it.
func (e *Element) markTeichmuller() { e.teich = true }

// UnitPart returns the unit cofactor u of e = p^v * u, an element of
// valuation zero with the same relative precision.
func (e *Element) UnitPart() (*Element, error) {
	if e.exact {
		return nil, fmt.Errorf("unit part of zero: %w", ErrDomain)
	}
	if e.prec == 0 {
		return nil, fmt.Errorf("unit part of O(%s^%d): %w", e.ring.pp.PrimeRef(), e.absolute(), ErrInsufficientPrecision)
	}
	return e.ring.makeElement(0, &e.unit, e.prec), nil
}

// Lift returns the canonical integer representative p^val * unit of an
// element with nonnegative valuation.
func (e *Element) Lift() (*big.Int, error) {
	if e.IsZero() {
		return new(big.Int), nil
	}
	if e.val < 0 {
		return nil, fmt.Errorf("lift of negative valuation element: %w", ErrDomain)
	}
	return new(big.Int).Mul(&e.unit, e.ring.pp.Pow(e.val)), nil
}

// Residue returns the image of the element in the residue field, as an
// integer in [0, p). It requires nonnegative valuation and at least one digit
// of absolute precision.
func (e *Element) Residue() (*big.Int, error) {
	if !e.exact && e.val < 0 {
		return nil, fmt.Errorf("residue of negative valuation element: %w", ErrDomain)
	}
	if !e.exact && e.absolute() < 1 {
		return nil, fmt.Errorf("residue needs one digit of absolute precision: %w", ErrInsufficientPrecision)
	}
	if e.IsZero() || e.val > 0 {
		return new(big.Int), nil
	}
	return new(big.Int).Mod(&e.unit, e.ring.pp.PrimeRef()), nil
}

// LiftToPrecision returns a copy of the element whose claimed absolute
// precision is raised to abs without changing any digit, bounded by what the
// parent's variant allows. Lowering precision is not performed.
func (e *Element) LiftToPrecision(abs int) *Element {
	if e.exact || abs <= e.absolute() {
		return e
	}
	if e.prec == 0 {
		return e.ring.zeroWithAbs(abs)
	}
	return e.ring.makeElement(e.val, &e.unit, abs)
}

// Equal reports whether the two elements are congruent modulo p^m, where m is
// the smaller of their absolute precisions. Elements are equal only to the
// precision known: this relation is deliberately not transitive.
func (e *Element) Equal(y *Element) bool {
	if e.ring.pp.PrimeRef().Cmp(y.ring.pp.PrimeRef()) != 0 {
		return false
	}
	if e.exact && y.exact {
		return true
	}
	m := e.absolute()
	if ya := y.absolute(); ya < m {
		m = ya
	}
	// m is finite here: at most one operand is exact zero.
	v0 := 0
	if !e.exact && e.val < v0 {
		v0 = e.val
	}
	if !y.exact && y.val < v0 {
		v0 = y.val
	}
	mod := e.ring.pp.Pow(m - v0)
	return e.scaledRep(v0, mod).Cmp(y.scaledRep(v0, mod)) == 0
}

// scaledRep returns unit * p^(val-v0) mod m, i.e. the element scaled so that
// valuation v0 corresponds to the units digit.
func (e *Element) scaledRep(v0 int, m *big.Int) *big.Int {
	if e.IsZero() {
		return new(big.Int)
	}
	rep := new(big.Int).Mul(&e.unit, e.ring.pp.Pow(e.val-v0))
	return rep.Mod(rep, m)
}

// zeroWithAbs builds the representation of zero known modulo p^abs. Exact
// zero (abs == Unbounded) survives only in variants that admit one; floating
// point parents have no inexact zero at all, so every zero there is exact.
func (r *Ring) zeroWithAbs(abs int) *Element {
	if r.variant == precision.FloatingPoint {
		return &Element{ring: r, exact: true}
	}
	pr := precision.Clamp(r.variant, r.prec, precision.Prec{Val: abs, Abs: abs})
	if pr.IsExactZero() {
		return &Element{ring: r, exact: true}
	}
	return &Element{ring: r, val: pr.Abs, prec: 0}
}

// makeElement is the canonical nonzero constructor: unit must be coprime to
// p. The absolute precision request abs is clamped to the variant's element
// domain; if nothing of the unit survives the clamp the result degrades to a
// zero of the appropriate precision.
func (r *Ring) makeElement(val int, unit *big.Int, abs int) *Element {
	pr := precision.Clamp(r.variant, r.prec, precision.Prec{Val: val, Abs: abs})
	rel := pr.Abs - val
	if rel > r.prec {
		rel = r.prec
	}
	if pr.Val != val || rel <= 0 {
		return r.zeroWithAbs(pr.Abs)
	}
	e := &Element{ring: r, val: val, prec: rel}
	e.unit.Mod(unit, r.pp.Pow(rel))
	return e
}

// reduce interprets z as an exact integer and builds the element known
// modulo p^abs (abs may be Unbounded for "as much as the variant keeps").
func (r *Ring) reduce(z *big.Int, abs int) *Element {
	if z.Sign() == 0 {
		return r.zeroWithAbs(abs)
	}
	v, u := r.pp.Valuation(z)
	if abs != precision.Unbounded && v >= abs {
		return r.zeroWithAbs(abs)
	}
	return r.makeElement(v, u, abs)
}

// FromBigInt returns the image of the integer z in the parent, at full
// precision.
func (r *Ring) FromBigInt(z *big.Int) *Element {
	return r.reduce(z, precision.Unbounded)
}

// FromBigIntPrec returns the image of z known only modulo p^abs.
func (r *Ring) FromBigIntPrec(z *big.Int, abs int) *Element {
	return r.reduce(z, abs)
}

// FromInt64 returns the image of v in the parent.
func (r *Ring) FromInt64(v int64) *Element {
	return r.FromBigInt(big.NewInt(v))
}

// FromInteger returns the image of any integer-kind value in the parent.
func FromInteger[T constraints.Integer](r *Ring, v T) *Element {
	return r.FromInt64(int64(v))
}

// FromRatio returns the image of num/den. The denominator's unit part is
// inverted to the working precision; a denominator of higher valuation than
// the numerator is rejected outside fields.
func (r *Ring) FromRatio(num, den int64) (*Element, error) {
	return r.FromRat(big.NewRat(num, den))
}

// FromRat returns the image of the rational q in the parent.
func (r *Ring) FromRat(q *big.Rat) (*Element, error) {
	if q.Sign() == 0 {
		return r.Zero(), nil
	}
	vn, un := r.pp.Valuation(q.Num())
	vd, ud := r.pp.Valuation(q.Denom())
	val := vn - vd
	if val < 0 && !r.field {
		return nil, fmt.Errorf("%s has negative valuation in %s: %w", q.RatString(), r, ErrDomain)
	}
	// relative window before clamping: the input is exact, so take the cap
	rel := r.prec
	if r.variant == precision.CappedAbsolute || r.variant == precision.FixedModulus {
		rel = r.prec - val
		if rel <= 0 {
			return r.zeroWithAbs(r.prec), nil
		}
	}
	inv := r.pp.InverseMod(ud, rel)
	u := new(big.Int).Mul(un, inv)
	u.Mod(u, r.pp.Pow(rel))
	return r.makeElement(val, u, val+rel), nil
}

// FromUnitValuation rebuilds an element from its raw parts: a unit integer, a
// valuation and a relative precision. It is the inverse of decomposing an
// element via UnitDigits/Valuation/PrecisionRelative, used by serialization.
func (r *Ring) FromUnitValuation(unit *big.Int, val, rel int) (*Element, error) {
	if val == Infinity {
		return r.Zero(), nil
	}
	if rel < 0 {
		return nil, fmt.Errorf("negative relative precision %d: %w", rel, ErrConfiguration)
	}
	if rel == 0 {
		return r.zeroWithAbs(val), nil
	}
	if val < 0 && !r.field {
		return nil, fmt.Errorf("negative valuation %d in %s: %w", val, r, ErrDomain)
	}
	u := new(big.Int).Mod(unit, r.pp.Pow(rel))
	if u.Sign() == 0 || new(big.Int).Mod(u, r.pp.PrimeRef()).Sign() == 0 {
		return nil, fmt.Errorf("unit part divisible by %s: %w", r.pp.PrimeRef(), ErrConfiguration)
	}
	return r.makeElement(val, u, val+rel), nil
}

// Zero returns the parent's zero: exact in capped-relative and floating
// point parents, zero modulo p^cap elsewhere.
func (r *Ring) Zero() *Element {
	return r.zeroWithAbs(precision.Unbounded)
}

// One returns the parent's one at full precision.
func (r *Ring) One() *Element {
	return r.makeElement(0, oneInt, precision.Unbounded)
}

// ZeroWithPrecision returns the inexact zero O(p^abs). Floating point
// parents, which have no inexact zero, return the exact zero.
func (r *Ring) ZeroWithPrecision(abs int) *Element {
	return r.zeroWithAbs(abs)
}
