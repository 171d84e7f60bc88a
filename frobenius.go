package padic

import "fmt"

// Frobenius is the n-th power of the absolute Frobenius endomorphism: the
// lift of c -> c^(p^n) on the residue field. The power is normalized modulo
// the residue degree at construction, so two endomorphisms built from
// exponents congruent mod f are equal as values, not merely as behaviors.
type Frobenius struct {
	ring  *Ring
	power int
}

// FrobeniusEndomorphism returns the n-th power of the absolute Frobenius on
// this parent. n is reduced modulo the residue degree; on base parents
// (residue degree 1) every power is the identity.
func (r *Ring) FrobeniusEndomorphism(n int) Frobenius {
	power := n % r.f
	if power < 0 {
		power += r.f
	}
	return Frobenius{ring: r, power: power}
}

// Ring returns the parent the endomorphism acts on.
func (fr Frobenius) Ring() *Ring { return fr.ring }

// Power returns the normalized exponent in [0, residue degree).
func (fr Frobenius) Power() int { return fr.power }

// IsIdentity reports whether the endomorphism is the identity map.
func (fr Frobenius) IsIdentity() bool { return fr.power == 0 }

// Apply evaluates the endomorphism on an element.
func (fr Frobenius) Apply(x *Element) *Element {
	if fr.power == 0 {
		return x
	}
	// unreachable while residue degree is 1; extensions register their own
	// action through the extension factory
	panic(fmt.Sprintf("padic: frobenius power %d on residue degree %d parent", fr.power, fr.ring.f))
}

func (fr Frobenius) String() string {
	if fr.power == 0 {
		return fmt.Sprintf("Identity endomorphism of %v", fr.ring)
	}
	return fmt.Sprintf("Frobenius endomorphism on %v lifting c |--> c^(%v^%d) on the residue field", fr.ring, fr.ring.pp.PrimeRef(), fr.power)
}
