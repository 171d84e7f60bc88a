package padic

import (
	"fmt"
	"math/big"
	"time"
)

// expThreshold returns the valuation an element needs for the exponential
// series to converge: 1 for odd p, 2 for p=2.
func (r *Ring) expThreshold() int {
	if r.pp.PrimeRef().Cmp(twoInt) == 0 {
		return 2
	}
	return 1
}

var twoInt = big.NewInt(2)

// logUnitPartP is the first memoized anchor: writing p = pi^e * u with u a
// unit, this is log(u). For the base ring u is 1, so the anchor is a zero
// known to the cap; it is still computed through the general path so that
// the formula v*(branch + anchor) + log(unit) holds uniformly.
func (r *Ring) logUnitPartP() *Element {
	r.logUnitPOnce.Do(func() {
		start := time.Now()
		pe := r.FromBigInt(r.pp.PrimeRef())
		u, err := pe.UnitPart()
		if err != nil {
			panic("padic: unit part of p: " + err.Error())
		}
		l, err := u.Log(nil)
		if err != nil {
			panic("padic: log of unit part of p: " + err.Error())
		}
		r.logUnitP = l
		r.timedDebug("computed log of unit part of p", start)
	})
	return r.logUnitP
}

// expPAnchor is the second memoized anchor: exp(p), or exp(4) when p=2 since
// the series does not converge at 2 itself. Every Exp call reduces to powers
// of this value.
func (r *Ring) expPAnchor() *Element {
	r.expPOnce.Do(func() {
		start := time.Now()
		base := r.pp.Prime()
		k := 1
		if base.Cmp(twoInt) == 0 {
			// exp(2) does not exist; exp(4) lies in the convergence disc
			base = big.NewInt(4)
			k = 2
		}
		s := r.expSeries(base, k, r.prec)
		r.expP = r.makeElement(0, s, r.prec)
		r.timedDebug("computed exp of p", start)
	})
	return r.expP
}

// Log returns the p-adic logarithm of the element. The multi-valued part
// coming from log(p) must be fixed by the caller: pBranch is the value
// assigned to log(p), required whenever the valuation is nonzero. Elements
// of valuation zero need no branch. The result's absolute precision equals
// the input's relative precision.
func (e *Element) Log(pBranch *Element) (*Element, error) {
	r := e.ring
	if e.exact {
		return nil, fmt.Errorf("log of zero: %w", ErrDomain)
	}
	if e.prec == 0 {
		return nil, fmt.Errorf("log of O(%s^%d): %w", r.pp.PrimeRef(), e.absolute(), ErrInsufficientPrecision)
	}
	lu := r.logUnit(&e.unit, e.prec)
	if e.val == 0 {
		return lu, nil
	}
	if pBranch == nil {
		return nil, fmt.Errorf("log of valuation %d element needs a branch for log(%s): %w", e.val, r.pp.PrimeRef(), ErrDomain)
	}
	scale := pBranch.ring.FromInt64(int64(e.val))
	branch := pBranch.Add(r.logUnitPartP()).Mul(scale)
	return lu.Add(branch), nil
}

// logUnit computes log of a unit u known modulo p^rel, as an element of
// absolute precision rel. The Teichmuller cofactor is projected away first
// (its log is zero); for p=2 the square trick log(u) = log(u^2)/2 moves the
// argument into the convergence disc.
func (r *Ring) logUnit(u *big.Int, rel int) *Element {
	p := r.pp.PrimeRef()
	if p.Cmp(twoInt) == 0 {
		// u^2 = 1 mod 8; one extra digit so the halving is exact
		w := new(big.Int).Mul(u, u)
		z := new(big.Int).Sub(w, oneInt)
		s := r.logSeries(z, 3, rel+1)
		s.Rsh(s, 1)
		s.Mod(s, r.pp.Pow(rel))
		return r.elementFromSeriesValue(s, rel)
	}
	t := r.teichmullerDigits(new(big.Int).Mod(u, p), rel)
	z := new(big.Int).Mul(u, r.pp.InverseMod(t, rel))
	z.Sub(z.Mod(z, r.pp.Pow(rel)), oneInt)
	s := r.logSeries(z, 1, rel)
	return r.elementFromSeriesValue(s, rel)
}

// elementFromSeriesValue wraps an integer series value known mod p^abs.
func (r *Ring) elementFromSeriesValue(s *big.Int, abs int) *Element {
	return r.FromBigIntPrec(s, abs)
}

// logSeries evaluates log(1+z) = sum (-1)^(n+1) z^n / n mod p^m, for z of
// valuation at least k >= 1 (k >= 3 required when p=2 after squaring). The
// working modulus carries guard digits for the powers of p divided out of
// the term denominators.
func (r *Ring) logSeries(z *big.Int, k, m int) *big.Int {
	if new(big.Int).Mod(z, r.pp.Pow(m)).Sign() == 0 {
		return new(big.Int)
	}
	// v_p(n) <= log2(n) < 64 for any reachable n
	nmax := (m+63)/k + 1
	w := m + 64
	modW := r.pp.Pow(w)
	modM := r.pp.Pow(m)

	sum := new(big.Int)
	zpow := big.NewInt(1)
	term := new(big.Int)
	for n := 1; n <= nmax; n++ {
		zpow.Mul(zpow, z)
		zpow.Mod(zpow, modW)
		a, unit := r.pp.Valuation(big.NewInt(int64(n)))
		term.Quo(zpow, r.pp.Pow(a))
		term.Mul(term, r.pp.InverseMod(unit, m))
		term.Mod(term, modM)
		if n%2 == 0 {
			sum.Sub(sum, term)
		} else {
			sum.Add(sum, term)
		}
	}
	return sum.Mod(sum, modM)
}

// expSeries evaluates exp(x) = sum x^n / n! mod p^m for x of valuation
// k > 1/(p-1).
func (r *Ring) expSeries(x *big.Int, k, m int) *big.Int {
	p := r.pp.PrimeRef()
	pm1 := 1 << 30
	if p.IsInt64() && p.Int64() < int64(pm1) {
		pm1 = int(p.Int64()) - 1
	}
	// val(x^n/n!) >= n*k - (n-1)/(p-1), increasing since k > 1/(p-1)
	denom := k*pm1 - 1
	nmax := (m*pm1)/denom + 2
	w := m + nmax/pm1 + 2
	modW := r.pp.Pow(w)
	modM := r.pp.Pow(m)

	sum := big.NewInt(1)
	xpow := big.NewInt(1)
	fact := big.NewInt(1)
	term := new(big.Int)
	for n := 1; n <= nmax; n++ {
		xpow.Mul(xpow, x)
		xpow.Mod(xpow, modW)
		fact.Mul(fact, big.NewInt(int64(n)))
		a, unit := r.pp.Valuation(fact)
		if a >= w {
			break
		}
		term.Quo(xpow, r.pp.Pow(a))
		term.Mul(term, r.pp.InverseMod(new(big.Int).Mod(unit, modM), m))
		term.Mod(term, modM)
		sum.Add(sum, term)
	}
	return sum.Mod(sum, modM)
}

// Exp returns the p-adic exponential. It is defined only inside the
// convergence disc: valuation at least 1 for odd p, at least 2 for p=2.
// exp(x) is computed as the cached exp(p) anchor raised to the integer x/p
// (x/4 for p=2), so the series cost is paid once per parent.
func (e *Element) Exp() (*Element, error) {
	r := e.ring
	if e.exact {
		return r.One(), nil
	}
	th := r.expThreshold()
	if e.val < th {
		return nil, fmt.Errorf("exp needs valuation >= %d, got %d: %w", th, e.val, ErrDomain)
	}
	if e.prec == 0 {
		// exp(O(p^n)) = 1 + O(p^n)
		return r.makeElement(0, oneInt, e.val), nil
	}
	abs := e.absolute()
	if abs > r.prec {
		abs = r.prec
	}
	mod := r.pp.Pow(abs)
	n, err := e.Lift()
	if err != nil {
		return nil, err
	}
	n.Mod(n, mod)
	den := r.pp.Pow(1)
	if th == 2 {
		den = big.NewInt(4)
	}
	n.Quo(n, den)

	anchor := e.ring.expPAnchor()
	res := new(big.Int).Exp(anchor.UnitDigits(), n, mod)
	return r.makeElement(0, res, abs), nil
}
