package padic_test

import (
	"math/big"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hensel/padic"
)

func TestTeichmuller(t *testing.T) {
	r, err := padic.Zp(5, 10)
	require.NoError(t, err)

	y, err := r.Teichmuller(r.FromInt64(2), 0)
	require.NoError(t, err)
	assert.True(t, y.IsTeichmuller())
	assert.Equal(t, 10, y.PrecisionRelative())

	// the lift of 2 starts 2 + 5 + ...
	n, err := y.Lift()
	require.NoError(t, err)
	assert.Equal(t, "7", new(big.Int).Mod(n, big.NewInt(25)).String())

	c, err := y.Residue()
	require.NoError(t, err)
	assert.Equal(t, "2", c.String())

	// y^5 = y exactly, to working precision
	y5, err := y.Pow(5)
	require.NoError(t, err)
	assert.True(t, y5.Equal(y))
	assert.False(t, y5.IsTeichmuller(), "the flag marks construction, not value")

	// an explicit precision bound is honored
	short, err := r.Teichmuller(r.FromInt64(2), 4)
	require.NoError(t, err)
	assert.Equal(t, 4, short.PrecisionAbsolute())
	assert.True(t, short.Equal(y))
}

func TestTeichmullerZeroAndErrors(t *testing.T) {
	r, _ := padic.Zp(5, 10)
	k, _ := padic.Qp(5, 10)

	// residue zero lifts to zero
	z, err := r.Teichmuller(r.FromInt64(5), 0)
	require.NoError(t, err)
	assert.True(t, z.IsZero())

	x, _ := k.FromRatio(1, 5)
	_, err = k.Teichmuller(x, 0)
	assert.ErrorIs(t, err, padic.ErrDomain)

	_, err = r.Teichmuller(r.ZeroWithPrecision(0), 0)
	assert.ErrorIs(t, err, padic.ErrDomain)
}

func TestTeichmullerSystem(t *testing.T) {
	r, _ := padic.Zp(3, 5)

	sys, err := r.TeichmullerSystem()
	require.NoError(t, err)
	require.Len(t, sys, 2)
	assert.True(t, sys[0].IsOne())

	// the lift of 2 in Z_3 is -1 = 242 mod 3^5
	n, err := sys[1].Lift()
	require.NoError(t, err)
	assert.Equal(t, "242", n.String())

	r2, _ := padic.Zp(2, 8)
	sys, err = r2.TeichmullerSystem()
	require.NoError(t, err)
	require.Len(t, sys, 1)
	assert.True(t, sys[0].IsOne())
}

func TestTeichmullerProperties(t *testing.T) {
	r, err := padic.Zp(7, 8)
	require.NoError(t, err)

	properties := gopter.NewProperties(propParams())

	properties.Property("lifts satisfy y^q = y and keep their residue", prop.ForAll(
		func(a int64) bool {
			if a%7 == 0 {
				return true
			}
			y, err := r.Teichmuller(r.FromInt64(a), 0)
			if err != nil {
				return false
			}
			c, err := y.Residue()
			if err != nil {
				return false
			}
			if c.Int64() != a%7 {
				return false
			}
			y7, err := y.Pow(7)
			if err != nil {
				return false
			}
			return y7.Equal(y)
		},
		gen.Int64Range(1, 1<<40),
	))

	properties.Property("lifting is idempotent", prop.ForAll(
		func(a int64) bool {
			y, err := r.Teichmuller(r.FromInt64(a), 0)
			if err != nil {
				return false
			}
			z, err := r.Teichmuller(y, 0)
			if err != nil {
				return false
			}
			return z.Equal(y)
		},
		gen.Int64Range(1, 1<<40),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
