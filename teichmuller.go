package padic

import (
	"fmt"
	"math/big"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// teichmullerDigits runs the Newton iteration for f(y) = y^q - y on a
// nonzero residue c, doubling the working precision each step, and returns
// the root congruent to c modulo p as an integer mod p^prec. The step
// y - (y^q - y)/(q*y^(q-1) - 1) is tailored so that the denominator is a
// unit: q*y^(q-1) - 1 = -1 mod p.
func (r *Ring) teichmullerDigits(c *big.Int, prec int) *big.Int {
	q := r.pp.PrimeRef() // q = p^f; f = 1 for base parents
	qm1 := new(big.Int).Sub(q, oneInt)

	y := new(big.Int).Mod(c, q)
	k := 1
	num := new(big.Int)
	den := new(big.Int)
	for k < prec {
		k *= 2
		if k > prec {
			k = prec
		}
		m := r.pp.Pow(k)
		// y^(q-1) once, reused for numerator and derivative
		yq1 := new(big.Int).Exp(y, qm1, m)
		num.Mul(yq1, y)
		num.Sub(num.Mod(num, m), y) // y^q - y
		den.Mul(q, yq1)
		den.Sub(den, oneInt)
		den.Mod(den, m)
		step := new(big.Int).Mul(num, new(big.Int).ModInverse(den, m))
		y.Sub(y, step)
		y.Mod(y, m)
	}
	return y
}

// Teichmuller returns the Teichmuller representative of x: the unique
// element congruent to x modulo the maximal ideal satisfying y^q = y, where
// q is the residue field size. prec bounds the result's precision; values
// outside (0, cap] mean the parent's cap. The element needs a well-defined
// residue: nonnegative valuation and positive absolute precision.
func (r *Ring) Teichmuller(x *Element, prec int) (*Element, error) {
	if prec <= 0 || prec > r.prec {
		prec = r.prec
	}
	if !x.exact && x.val < 0 {
		return nil, fmt.Errorf("teichmuller lift of valuation %d element: %w", x.val, ErrDomain)
	}
	if !x.exact && x.absolute() <= 0 {
		return nil, fmt.Errorf("teichmuller lift needs positive absolute precision: %w", ErrDomain)
	}
	c, err := x.Residue()
	if err != nil {
		return nil, err
	}
	if c.Sign() == 0 {
		return r.zeroWithAbs(prec), nil
	}
	y := r.teichmullerDigits(c, prec)
	ans := r.makeElement(0, y, prec)
	// sanctioned one-time freeze, before the element escapes
	ans.markTeichmuller()
	return ans, nil
}

// TeichmullerSystem returns the Teichmuller lifts of all q-1 nonzero residue
// field elements, in residue order. Lifts are independent, so they are
// computed concurrently.
func (r *Ring) TeichmullerSystem() ([]*Element, error) {
	start := time.Now()
	p := r.pp.PrimeRef()
	if !p.IsInt64() {
		return nil, fmt.Errorf("teichmuller system of size %s is not enumerable: %w", p, ErrDomain)
	}
	n := p.Int64() - 1
	out := make([]*Element, n)

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := int64(0); i < n; i++ {
		i := i
		g.Go(func() error {
			t, err := r.Teichmuller(r.FromInt64(i+1), 0)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	r.timedDebug("computed teichmuller system", start)
	return out, nil
}
