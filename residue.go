package padic

import (
	"fmt"
	"math/big"

	"github.com/hensel/padic/internal/primepow"
)

// ResidueField is the quotient of a p-adic ring of integers by its maximal
// ideal: the finite field with p^f elements. For base parents f is 1 and the
// field is the integers modulo p.
type ResidueField struct {
	pp   *primepow.Cache
	f    int
	ring *Ring
}

// Order returns the number of elements p^f.
func (k *ResidueField) Order() *big.Int {
	q := k.pp.Prime()
	return q.Exp(q, big.NewInt(int64(k.f)), nil)
}

// Characteristic returns p.
func (k *ResidueField) Characteristic() *big.Int { return k.pp.Prime() }

// Elements enumerates the field, in canonical order. It requires the order
// to fit in an int64.
func (k *ResidueField) Elements() ([]*big.Int, error) {
	q := k.Order()
	if !q.IsInt64() {
		return nil, fmt.Errorf("residue field of size %s is not enumerable: %w", q, ErrDomain)
	}
	n := q.Int64()
	out := make([]*big.Int, n)
	for i := int64(0); i < n; i++ {
		out[i] = big.NewInt(i)
	}
	return out, nil
}

// Reduce maps a ring element of nonnegative valuation to its residue.
func (k *ResidueField) Reduce(x *Element) (*big.Int, error) {
	return x.Residue()
}

// Lift maps a residue to a ring element of nonnegative valuation at full
// precision.
func (k *ResidueField) Lift(c *big.Int) *Element {
	red := new(big.Int).Mod(c, k.pp.PrimeRef())
	return k.ring.FromBigInt(red)
}

func (k *ResidueField) String() string {
	return fmt.Sprintf("Finite Field of size %s", k.Order())
}
