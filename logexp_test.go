package padic_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hensel/padic"
)

func TestExp(t *testing.T) {
	k, err := padic.Qp(3, 5)
	require.NoError(t, err)

	// exp(3) = 1 + 3 + 3^2/2 + ... = 229 mod 3^5
	e, err := k.FromInt64(3).Exp()
	require.NoError(t, err)
	assert.Equal(t, 0, e.Valuation())
	assert.Equal(t, 5, e.PrecisionAbsolute())
	n, err := e.Lift()
	require.NoError(t, err)
	assert.Equal(t, "229", n.String())

	// exp of the exact zero is exactly one
	one, err := k.Zero().Exp()
	require.NoError(t, err)
	assert.True(t, one.IsOne())

	// exp(O(3^2)) = 1 + O(3^2)
	o, err := k.ZeroWithPrecision(2).Exp()
	require.NoError(t, err)
	assert.True(t, o.IsOne())
	assert.Equal(t, 2, o.PrecisionAbsolute())

	// outside the convergence disc
	_, err = k.FromInt64(2).Exp()
	assert.ErrorIs(t, err, padic.ErrDomain)
}

func TestExpTwoAdic(t *testing.T) {
	k, err := padic.Qp(2, 8)
	require.NoError(t, err)

	// the 2-adic exponential needs valuation at least 2
	_, err = k.FromInt64(2).Exp()
	assert.ErrorIs(t, err, padic.ErrDomain)

	e, err := k.FromInt64(4).Exp()
	require.NoError(t, err)
	assert.Equal(t, 0, e.Valuation())

	l, err := e.Log(nil)
	require.NoError(t, err)
	assert.True(t, l.Equal(k.FromInt64(4)))
}

func TestLogErrors(t *testing.T) {
	k, _ := padic.Qp(3, 5)

	_, err := k.Zero().Log(nil)
	assert.ErrorIs(t, err, padic.ErrDomain)

	_, err = k.ZeroWithPrecision(4).Log(nil)
	assert.ErrorIs(t, err, padic.ErrInsufficientPrecision)

	// nonzero valuation needs a branch for log(p)
	_, err = k.FromInt64(3).Log(nil)
	assert.ErrorIs(t, err, padic.ErrDomain)
}

func TestLogPrecisionAndValuation(t *testing.T) {
	k, _ := padic.Qp(3, 5)

	// log lands at absolute precision equal to the input's relative precision
	l, err := k.FromInt64(4).Log(nil)
	require.NoError(t, err)
	assert.Equal(t, 5, l.PrecisionAbsolute())
	assert.Equal(t, 1, l.Valuation(), "log(1+3) has valuation 1")

	// the log of a Teichmuller representative is zero
	r, _ := padic.Zp(7, 6)
	tc, err := r.Teichmuller(r.FromInt64(3), 0)
	require.NoError(t, err)
	lt, err := tc.Log(nil)
	require.NoError(t, err)
	assert.True(t, lt.IsZero())
	assert.Equal(t, 6, lt.PrecisionAbsolute())
}

func TestLogBranch(t *testing.T) {
	k, _ := padic.Qp(3, 5)
	b := k.FromInt64(9)

	// log(15) = log(3) + log(5) = branch + log(5)
	l, err := k.FromInt64(15).Log(b)
	require.NoError(t, err)
	l5, err := k.FromInt64(5).Log(nil)
	require.NoError(t, err)
	assert.True(t, l.Equal(l5.Add(b)))

	// with the zero branch, log(p) vanishes
	l, err = k.FromInt64(15).Log(k.Zero())
	require.NoError(t, err)
	assert.True(t, l.Equal(l5))
}

func TestLogExpRoundTrips(t *testing.T) {
	k, err := padic.Qp(3, 5)
	require.NoError(t, err)

	properties := gopter.NewProperties(propParams())

	properties.Property("exp inverts log on one-units", prop.ForAll(
		func(a int64) bool {
			x := k.FromInt64(1 + 3*a)
			l, err := x.Log(nil)
			if err != nil {
				return false
			}
			e, err := l.Exp()
			if err != nil {
				return false
			}
			return e.Equal(x)
		},
		gen.Int64Range(1, 1<<20),
	))

	properties.Property("log inverts exp inside the convergence disc", prop.ForAll(
		func(a int64) bool {
			x := k.FromInt64(3 * a)
			e, err := x.Exp()
			if err != nil {
				return false
			}
			l, err := e.Log(nil)
			if err != nil {
				return false
			}
			return l.Equal(x)
		},
		gen.Int64Range(1, 1<<20),
	))

	properties.Property("exp turns sums into products", prop.ForAll(
		func(a, b int64) bool {
			x, y := k.FromInt64(3*a), k.FromInt64(3*b)
			ex, err := x.Exp()
			if err != nil {
				return false
			}
			ey, err := y.Exp()
			if err != nil {
				return false
			}
			exy, err := x.Add(y).Exp()
			if err != nil {
				return false
			}
			return ex.Mul(ey).Equal(exy)
		},
		gen.Int64Range(1, 1<<20),
		gen.Int64Range(1, 1<<20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestLogAdditivity(t *testing.T) {
	r, err := padic.Zp(5, 8)
	require.NoError(t, err)

	properties := gopter.NewProperties(propParams())

	properties.Property("log turns unit products into sums", prop.ForAll(
		func(a, b int64) bool {
			if a%5 == 0 || b%5 == 0 {
				return true
			}
			x, y := r.FromInt64(a), r.FromInt64(b)
			lx, err := x.Log(nil)
			if err != nil {
				return false
			}
			ly, err := y.Log(nil)
			if err != nil {
				return false
			}
			lxy, err := x.Mul(y).Log(nil)
			if err != nil {
				return false
			}
			return lx.Add(ly).Equal(lxy)
		},
		gen.Int64Range(1, 1<<40),
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
