package primepow

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPrime(t *testing.T) {
	for _, n := range []int64{2, 3, 5, 7, 13, 65521, 65537} {
		assert.True(t, IsPrime(big.NewInt(n)), "%d", n)
	}
	for _, n := range []int64{-3, 0, 1, 4, 9, 15, 65535} {
		assert.False(t, IsPrime(big.NewInt(n)), "%d", n)
	}
	// 2^127 - 1 is a Mersenne prime, beyond the sieve
	m127 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	assert.True(t, IsPrime(m127))
}

func TestNewRejectsComposite(t *testing.T) {
	_, err := New(big.NewInt(6))
	require.Error(t, err)
	_, err = New(nil)
	require.Error(t, err)
}

func TestPow(t *testing.T) {
	c, err := New(big.NewInt(5))
	require.NoError(t, err)

	assert.Equal(t, "1", c.Pow(0).String())
	assert.Equal(t, "9765625", c.Pow(10).String())
	assert.Equal(t, "25", c.Pow(2).String())
}

func TestValuation(t *testing.T) {
	c, err := New(big.NewInt(5))
	require.NoError(t, err)

	v, u := c.Valuation(big.NewInt(375))
	assert.Equal(t, 3, v)
	assert.Equal(t, "3", u.String())

	v, u = c.Valuation(big.NewInt(7))
	assert.Equal(t, 0, v)
	assert.Equal(t, "7", u.String())
}

func TestValuationMod(t *testing.T) {
	c, err := New(big.NewInt(5))
	require.NoError(t, err)

	_, _, ok := c.ValuationMod(big.NewInt(375), 2)
	assert.False(t, ok, "375 is zero mod 25")

	v, u, ok := c.ValuationMod(big.NewInt(375), 4)
	require.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, "3", u.String())

	_, _, ok = c.ValuationMod(big.NewInt(0), 4)
	assert.False(t, ok)
}

func TestInverseMod(t *testing.T) {
	c, err := New(big.NewInt(5))
	require.NoError(t, err)

	inv := c.InverseMod(big.NewInt(3), 2)
	assert.Equal(t, "17", inv.String())
	assert.Nil(t, c.InverseMod(big.NewInt(10), 2))
}
