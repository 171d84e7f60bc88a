package padic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hensel/padic"
	"github.com/hensel/padic/precision"
)

// The tests in this file run the same assertions against every variant,
// rings and fields alike, over the sample elements each parent provides.

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func relTracked(v precision.Variant) bool {
	return v == precision.CappedRelative || v == precision.FloatingPoint
}

// the two variants whose rings admit only unit divisors
func absTracked(v precision.Variant) bool {
	return v == precision.FixedModulus || v == precision.CappedAbsolute
}

// congruent reports a == b modulo p^n. Additions compute digits only up to
// the weaker operand modulus, so round-trip checks must tolerate exactly
// that: under floating point the claimed window extends past the justified
// digits and plain Equal would compare garbage.
func congruent(a, b *padic.Element, n int) bool {
	d := a.Sub(b)
	return d.IsZero() || d.Valuation() >= n
}

func TestSuiteAddition(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			elems := r.SomeElements()
			for _, x := range elems {
				z := x.Add(r.Zero())
				assert.True(t, z.Equal(x))
				assert.Equal(t, x.PrecisionAbsolute(), z.PrecisionAbsolute())
				assert.Equal(t, x.PrecisionRelative(), z.PrecisionRelative())
			}
			for _, x := range elems {
				for _, y := range elems {
					z := x.Add(y)
					zprec := minInt(x.PrecisionAbsolute(), y.PrecisionAbsolute())
					if r.Variant().TracksAbsolute() {
						assert.Equal(t, zprec, z.PrecisionAbsolute())
					}
					assert.True(t, congruent(z.Sub(y), x, zprec))
					assert.True(t, congruent(z.Sub(x), y, zprec))
					if !x.IsZero() && !y.IsZero() && x.Valuation() != y.Valuation() {
						assert.Equal(t,
							minInt(x.Valuation(), y.Valuation()),
							z.Valuation())
					}
				}
			}
		})
	}
}

func TestSuiteNegation(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			for _, x := range r.SomeElements() {
				n := x.Neg()
				assert.Equal(t, x.Valuation(), n.Valuation())
				assert.Equal(t, x.PrecisionAbsolute(), n.PrecisionAbsolute())
				assert.Equal(t, x.PrecisionRelative(), n.PrecisionRelative())
				assert.True(t, n.Neg().Equal(x))
				assert.True(t, x.Add(n).IsZero())
			}
		})
	}
}

func TestSuiteMultiplication(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			elems := r.SomeElements()
			for _, x := range elems {
				for _, y := range elems {
					z := x.Mul(y)
					if !z.IsZero() {
						assert.Equal(t, x.Valuation()+y.Valuation(), z.Valuation())
					}
					if relTracked(r.Variant()) && !x.IsZero() && !y.IsZero() {
						assert.Equal(t,
							minInt(x.PrecisionRelative(), y.PrecisionRelative()),
							z.PrecisionRelative())
					}
				}
			}
		})
	}
}

func TestSuiteDivision(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			elems := r.SomeElements()
			for _, x := range elems {
				for _, y := range elems {
					z, err := x.Div(y)
					if err != nil {
						if absTracked(r.Variant()) {
							assert.False(t, y.IsUnit())
						} else {
							assert.True(t, y.IsZero())
						}
						continue
					}
					if r.IsField() || r.Variant() == precision.FixedModulus {
						assert.Same(t, r, z.Ring())
					} else {
						assert.Same(t, r.FractionField(nil), z.Ring())
					}
					assert.True(t, z.Mul(y).Equal(x))
					if !z.IsZero() {
						assert.Equal(t, x.Valuation()-y.Valuation(), z.Valuation())
					}
				}
			}
		})
	}
}

func TestSuiteInversion(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			for _, x := range r.SomeElements() {
				inv, err := x.Inv()
				if err != nil {
					if absTracked(r.Variant()) {
						assert.False(t, x.IsUnit())
					} else {
						assert.True(t, x.IsZero())
					}
					continue
				}
				assert.True(t, inv.Mul(x).IsOne())
				assert.Equal(t, -x.Valuation(), inv.Valuation())
			}
		})
	}
}

func TestSuiteLog(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			for _, x := range r.SomeElements() {
				if x.IsZero() {
					_, err := x.Log(r.Zero())
					assert.Error(t, err)
					continue
				}
				l, err := x.Log(r.Zero())
				require.NoError(t, err)
				v := r.Variant()
				if v == precision.CappedAbsolute || v == precision.CappedRelative {
					assert.Equal(t, x.PrecisionRelative(), l.PrecisionAbsolute())
				}
			}
		})
	}
}

func TestSuiteTeichmuller(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			for _, x := range r.SomeElements() {
				y, err := r.Teichmuller(x, 0)
				if err != nil {
					assert.True(t, x.Valuation() < 0 || x.PrecisionAbsolute() <= 0)
					continue
				}
				if y.IsZero() {
					continue
				}
				cy, err := y.Residue()
				require.NoError(t, err)
				cx, err := x.Residue()
				require.NoError(t, err)
				assert.Equal(t, cx.String(), cy.String())

				yq, err := y.Pow(5)
				require.NoError(t, err)
				assert.True(t, yq.Equal(y))
			}
		})
	}
}

func TestSuiteResidueRoundTrip(t *testing.T) {
	for _, r := range testParents(t) {
		t.Run(r.String(), func(t *testing.T) {
			for _, x := range r.SomeElements() {
				c, err := x.Residue()
				if err != nil {
					assert.True(t, x.Valuation() < 0)
					continue
				}
				d := x.Sub(r.FromBigInt(c))
				assert.True(t, d.IsZero() || d.Valuation() >= 1,
					"x - residue(x) must vanish mod p")
			}
		})
	}
}
