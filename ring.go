package padic

import (
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hensel/padic/internal/primepow"
	"github.com/hensel/padic/logger"
	"github.com/hensel/padic/precision"
)

// Ring is a p-adic parent: the ring of p-adic integers or the field of
// p-adic numbers over a prime, under one of the four precision-tracking
// variants. A Ring is immutable after construction apart from its lazily
// computed log/exp anchors, the lazily linked fraction field and integer
// ring, and the guarded print configuration.
type Ring struct {
	pp      *primepow.Cache
	prec    int
	variant precision.Variant
	field   bool
	e       int // ramification index, 1 for the base ring
	f       int // residue degree, 1 for the base ring

	printMu sync.RWMutex
	print   PrintOptions

	log zerolog.Logger

	// log/exp anchors, computed once per parent
	logUnitPOnce sync.Once
	logUnitP     *Element
	expPOnce     sync.Once
	expP         *Element

	fracOnce sync.Once
	frac     *Ring
	intOnce  sync.Once
	ints     *Ring
}

// Option configures a parent at construction time.
type Option func(*ringConfig)

type ringConfig struct {
	print *PrintOptions
}

// WithPrintOptions sets the parent's print configuration.
func WithPrintOptions(o PrintOptions) Option {
	return func(c *ringConfig) { c.print = &o }
}

// New returns the ring of p-adic integers over prime p with the given
// precision cap and tracking variant.
func New(p *big.Int, prec int, variant precision.Variant, opts ...Option) (*Ring, error) {
	return newRing(p, prec, variant, false, opts...)
}

// NewField returns the field of p-adic numbers over prime p. Only the
// capped-relative and floating-point variants admit fields; the capped
// absolute and fixed modulus models cannot represent negative valuations.
func NewField(p *big.Int, prec int, variant precision.Variant, opts ...Option) (*Ring, error) {
	if variant == precision.FixedModulus || variant == precision.CappedAbsolute {
		return nil, fmt.Errorf("%w: no %s field", ErrConfiguration, variant)
	}
	return newRing(p, prec, variant, true, opts...)
}

// Zp returns the capped-relative ring of p-adic integers, the common default.
func Zp(p int64, prec int, opts ...Option) (*Ring, error) {
	return New(big.NewInt(p), prec, precision.CappedRelative, opts...)
}

// Qp returns the capped-relative field of p-adic numbers.
func Qp(p int64, prec int, opts ...Option) (*Ring, error) {
	return NewField(big.NewInt(p), prec, precision.CappedRelative, opts...)
}

func newRing(p *big.Int, prec int, variant precision.Variant, field bool, opts ...Option) (*Ring, error) {
	if !variant.Valid() {
		return nil, fmt.Errorf("%w: unknown precision variant %d", ErrConfiguration, variant)
	}
	if prec < 1 {
		return nil, fmt.Errorf("%w: precision cap must be positive, got %d", ErrConfiguration, prec)
	}
	pp, err := primepow.New(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfiguration, err)
	}

	var cfg ringConfig
	for _, o := range opts {
		o(&cfg)
	}
	print := DefaultPrintOptions().merge(cfg.print).withDefaults()
	if err := print.validate(p); err != nil {
		return nil, err
	}

	r := &Ring{
		pp:      pp,
		prec:    prec,
		variant: variant,
		field:   field,
		e:       1,
		f:       1,
		print:   print,
	}
	r.log = logger.Logger().With().
		Str("prime", p.String()).
		Int("prec", prec).
		Stringer("variant", variant).
		Logger()
	r.log.Debug().Bool("field", field).Msg("parent constructed")
	return r, nil
}

// derive clones the descriptor with new structural flags, keeping the prime
// cache shared.
func (r *Ring) derive(variant precision.Variant, field bool, print PrintOptions) *Ring {
	nr := &Ring{
		pp:      r.pp,
		prec:    r.prec,
		variant: variant,
		field:   field,
		e:       r.e,
		f:       r.f,
		print:   print,
	}
	nr.log = logger.Logger().With().
		Str("prime", r.pp.PrimeRef().String()).
		Int("prec", r.prec).
		Stringer("variant", variant).
		Logger()
	return nr
}

// Prime returns the prime p.
func (r *Ring) Prime() *big.Int { return r.pp.Prime() }

// PrecisionCap returns the precision cap the parent was constructed with.
func (r *Ring) PrecisionCap() int { return r.prec }

// Variant returns the precision-tracking variant.
func (r *Ring) Variant() precision.Variant { return r.variant }

// IsField reports whether the parent is a field.
func (r *Ring) IsField() bool { return r.field }

// RamificationIndex returns e, the exponent with p = pi^e * unit. It is 1
// for the base ring and field.
func (r *Ring) RamificationIndex() int { return r.e }

// ResidueDegree returns f, with residue field of size p^f. It is 1 for the
// base ring and field.
func (r *Ring) ResidueDegree() int { return r.f }

// Characteristic returns the characteristic of the parent, which is always
// zero.
func (r *Ring) Characteristic() *big.Int { return new(big.Int) }

// ResidueCharacteristic returns the characteristic of the residue field,
// i.e. the prime.
func (r *Ring) ResidueCharacteristic() *big.Int { return r.Prime() }

// UniformizerPow returns p^n as an element. n may be the Infinity sentinel,
// which denotes the zero element. Negative n requires a field.
func (r *Ring) UniformizerPow(n int) (*Element, error) {
	if n == Infinity {
		return r.Zero(), nil
	}
	if n < 0 && !r.field {
		return nil, fmt.Errorf("negative uniformizer power %d in a ring: %w", n, ErrDomain)
	}
	return r.makeElement(n, oneInt, precision.Unbounded), nil
}

// Uniformizer returns p as an element.
func (r *Ring) Uniformizer() *Element {
	u, _ := r.UniformizerPow(1)
	return u
}

// Equal reports whether the two parents are considered equal: same prime,
// same precision cap and same print configuration. The tracking variant is
// deliberately not part of the comparison, so a fixed-modulus ring and a
// capped-relative ring over the same prime and cap compare equal even though
// their arithmetic behaves differently. This mirrors the comparison
// semantics of the system this package descends from; do not "fix" it.
func (r *Ring) Equal(other *Ring) bool { return r.Cmp(other) == 0 }

// Cmp compares two parent descriptors three-way: prime first, then precision
// cap, then print configuration, short-circuiting at the first difference.
func (r *Ring) Cmp(other *Ring) int {
	if c := r.pp.PrimeRef().Cmp(other.pp.PrimeRef()); c != 0 {
		return c
	}
	if r.prec != other.prec {
		if r.prec < other.prec {
			return -1
		}
		return 1
	}
	return r.PrintOptions().cmp(other.PrintOptions())
}

// fraction field variant per source ring variant: capped absolute promotes
// to capped relative, fixed modulus to floating point.
func fractionVariant(v precision.Variant) precision.Variant {
	switch v {
	case precision.CappedAbsolute:
		return precision.CappedRelative
	case precision.FixedModulus:
		return precision.FloatingPoint
	default:
		return v
	}
}

// FractionField returns the parent's fraction field. On a field with no
// print override this is the parent itself. The fraction field of a capped
// absolute ring is capped relative, and that of a fixed modulus ring is
// floating point.
func (r *Ring) FractionField(print *PrintOptions) *Ring {
	if r.field && print == nil {
		return r
	}
	if print != nil {
		return r.derive(fractionVariant(r.variant), true, r.PrintOptions().merge(print))
	}
	r.fracOnce.Do(func() {
		r.frac = r.derive(fractionVariant(r.variant), true, r.PrintOptions())
	})
	return r.frac
}

// IntegerRing returns the parent's ring of integers: the elements of
// nonnegative valuation. On a ring with no print override this is the parent
// itself.
func (r *Ring) IntegerRing(print *PrintOptions) *Ring {
	if !r.field && print == nil {
		return r
	}
	if print != nil {
		return r.derive(r.variant, false, r.PrintOptions().merge(print))
	}
	r.intOnce.Do(func() {
		r.ints = r.derive(r.variant, false, r.PrintOptions())
	})
	return r.ints
}

// ResidueField returns the parent's residue field, of size p^f.
func (r *Ring) ResidueField() *ResidueField {
	return &ResidueField{pp: r.pp, f: r.f, ring: r.IntegerRing(nil)}
}

// ResidueSystem returns elements representing every residue class, in
// residue order. It requires the residue field to be enumerable, i.e. p to
// fit in an int64.
func (r *Ring) ResidueSystem() ([]*Element, error) {
	p := r.pp.PrimeRef()
	if !p.IsInt64() {
		return nil, fmt.Errorf("residue system of size %s is not enumerable: %w", p, ErrDomain)
	}
	n := p.Int64()
	out := make([]*Element, n)
	for i := int64(0); i < n; i++ {
		out[i] = r.FromInt64(i)
	}
	return out, nil
}

// SomeElements returns a small sample of representative elements, exercised
// by the generic arithmetic tests.
func (r *Ring) SomeElements() []*Element {
	p := r.Uniformizer()
	one := r.One()
	out := []*Element{r.Zero(), one, p}
	// 1 + 2p is a unit in every parent
	if inv, err := one.Add(p).Add(p).InverseOfUnit(); err == nil {
		out = append(out, inv)
	}
	out = append(out, p.Sub(p.Mul(p)))
	if r.field {
		pm, _ := r.UniformizerPow(-3)
		out = append(out, pm, one.Neg().Mul(p))
	}
	return out
}

// Extension delegates construction of an extension parent to an externally
// registered factory. The modulus is factory-defined, typically a polynomial
// over this parent.
func (r *Ring) Extension(modulus interface{}, opts ...Option) (*Ring, error) {
	if extensionFactory == nil {
		return nil, fmt.Errorf("%w: no extension factory registered", ErrConfiguration)
	}
	return extensionFactory(r, modulus, opts...)
}

// ExtensionFactory builds extension parents on behalf of [Ring.Extension].
type ExtensionFactory func(base *Ring, modulus interface{}, opts ...Option) (*Ring, error)

var extensionFactory ExtensionFactory

// RegisterExtensionFactory installs the factory used by [Ring.Extension].
func RegisterExtensionFactory(f ExtensionFactory) { extensionFactory = f }

// String renders the parent descriptor.
func (r *Ring) String() string {
	kind := "Ring"
	if r.field {
		kind = "Field"
	}
	switch r.variant {
	case precision.FixedModulus:
		return fmt.Sprintf("%s-adic %s of fixed modulus %s^%d", r.pp.PrimeRef(), kind, r.pp.PrimeRef(), r.prec)
	case precision.FloatingPoint:
		return fmt.Sprintf("%s-adic %s with floating precision %d", r.pp.PrimeRef(), kind, r.prec)
	case precision.CappedAbsolute:
		return fmt.Sprintf("%s-adic %s with capped absolute precision %d", r.pp.PrimeRef(), kind, r.prec)
	default:
		return fmt.Sprintf("%s-adic %s with capped relative precision %d", r.pp.PrimeRef(), kind, r.prec)
	}
}

// timedDebug logs a completed lazy computation with its duration.
func (r *Ring) timedDebug(msg string, start time.Time) {
	r.log.Debug().Dur("took", time.Since(start)).Msg(msg)
}
