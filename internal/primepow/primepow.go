// Package primepow supplies the power-of-the-prime arithmetic every p-adic
// parent leans on: cached powers p^n, p-adic valuations of exact integers and
// inverses modulo p^n. A Cache is safe for concurrent use.
package primepow

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// sieveBound bounds the precomputed odd-number sieve used for primality of
// small candidates. Larger primes fall back to Miller-Rabin.
const sieveBound = 1 << 16

var (
	sieveOnce sync.Once
	sieve     *bitset.BitSet // bit i set <=> 2i+1 is composite
)

func buildSieve() {
	sieve = bitset.New(sieveBound / 2)
	sieve.Set(0) // 1 is not prime
	for i := uint(1); 2*i+1 < 1<<8; i++ {
		if sieve.Test(i) {
			continue
		}
		n := 2*i + 1
		for j := i + n; j < sieveBound/2; j += n {
			sieve.Set(j)
		}
	}
}

// IsPrime reports whether p is prime, using the sieve for small candidates
// and ProbablyPrime(20) beyond it, as is conventional for field moduli.
func IsPrime(p *big.Int) bool {
	if p.Sign() <= 0 {
		return false
	}
	if p.IsUint64() && p.Uint64() < sieveBound {
		n := p.Uint64()
		if n == 2 {
			return true
		}
		if n < 2 || n%2 == 0 {
			return false
		}
		sieveOnce.Do(buildSieve)
		return !sieve.Test(uint(n / 2))
	}
	return p.ProbablyPrime(20)
}

// Cache holds a prime and its memoized nonnegative powers.
type Cache struct {
	p big.Int

	mu   sync.RWMutex
	pows []*big.Int
}

// New validates that p is prime and returns a fresh power cache for it.
func New(p *big.Int) (*Cache, error) {
	if p == nil {
		return nil, fmt.Errorf("nil prime")
	}
	if !IsPrime(p) {
		return nil, fmt.Errorf("%s is not prime", p.String())
	}
	c := &Cache{}
	c.p.Set(p)
	c.pows = []*big.Int{big.NewInt(1), new(big.Int).Set(p)}
	return c, nil
}

// Prime returns a copy of the prime.
func (c *Cache) Prime() *big.Int {
	return new(big.Int).Set(&c.p)
}

// PrimeRef returns the cached prime itself. Callers must not mutate it.
func (c *Cache) PrimeRef() *big.Int {
	return &c.p
}

// Pow returns p^n for n >= 0. The returned value is shared; callers must not
// mutate it.
func (c *Cache) Pow(n int) *big.Int {
	if n < 0 {
		panic("primepow: negative exponent")
	}
	c.mu.RLock()
	if n < len(c.pows) {
		v := c.pows[n]
		c.mu.RUnlock()
		return v
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.pows) <= n {
		next := new(big.Int).Mul(c.pows[len(c.pows)-1], &c.p)
		c.pows = append(c.pows, next)
	}
	return c.pows[n]
}

// Valuation splits a nonzero integer z as p^v * u with p not dividing u, and
// returns (v, u). It panics on z == 0, which has no finite valuation.
func (c *Cache) Valuation(z *big.Int) (int, *big.Int) {
	if z.Sign() == 0 {
		panic("primepow: valuation of zero")
	}
	v := 0
	u := new(big.Int).Set(z)
	var q, r big.Int
	for {
		q.QuoRem(u, &c.p, &r)
		if r.Sign() != 0 {
			break
		}
		u.Set(&q)
		v++
	}
	return v, u
}

// ValuationMod returns the valuation of z taken modulo p^n, together with
// the unit cofactor reduced mod p^(n-v). The boolean is false when z is zero
// modulo p^n, i.e. has no digits below precision n.
func (c *Cache) ValuationMod(z *big.Int, n int) (int, *big.Int, bool) {
	red := new(big.Int).Mod(z, c.Pow(n))
	if red.Sign() == 0 {
		return 0, nil, false
	}
	v, u := c.Valuation(red)
	if v >= n {
		return 0, nil, false
	}
	u.Mod(u, c.Pow(n-v))
	return v, u, true
}

// InverseMod returns u^-1 mod p^n, or nil when u is divisible by p.
func (c *Cache) InverseMod(u *big.Int, n int) *big.Int {
	return new(big.Int).ModInverse(u, c.Pow(n))
}
