package padic

import (
	"fmt"
	"math/big"
	"strings"
)

// PrintMode selects how elements of a parent render.
type PrintMode string

const (
	// PrintSeries renders elements as truncated power series in p,
	// e.g. "5 + 4*5^2 + O(5^11)".
	PrintSeries PrintMode = "series"
	// PrintValUnit renders elements as p^v * u, e.g. "5 * 21 + O(5^11)".
	PrintValUnit PrintMode = "val-unit"
	// PrintTerse renders elements as a single integer representative.
	PrintTerse PrintMode = "terse"
	// PrintDigits renders the base-p digit string, most significant first.
	PrintDigits PrintMode = "digits"
	// PrintBars renders base-p digits separated by the configured separator.
	PrintBars PrintMode = "bars"
)

// PrintOptions is the print configuration of a parent. It participates in
// parent equality: two parents over the same prime and cap but with
// different print options compare unequal.
type PrintOptions struct {
	// Mode is the rendering mode. Empty means PrintSeries.
	Mode PrintMode
	// Pos selects digit representatives in [0,p) when true, balanced
	// representatives in (-p/2, p/2] when false.
	Pos bool
	// MaxTerms bounds the number of printed series terms; 0 means no bound.
	MaxTerms int
	// Sep separates digits in bars mode. Empty means "|".
	Sep string
}

// DefaultPrintOptions returns the options new parents start with.
func DefaultPrintOptions() PrintOptions {
	return PrintOptions{Mode: PrintSeries, Pos: true, Sep: "|"}
}

func (o PrintOptions) withDefaults() PrintOptions {
	if o.Mode == "" {
		o.Mode = PrintSeries
	}
	if o.Sep == "" {
		o.Sep = "|"
	}
	return o
}

func (o PrintOptions) validate(p *big.Int) error {
	switch o.Mode {
	case PrintSeries, PrintValUnit, PrintTerse:
	case PrintDigits, PrintBars:
		if p != nil && p.Cmp(big.NewInt(36)) > 0 && o.Mode == PrintDigits {
			return fmt.Errorf("%w: digits mode needs p <= 36, got %s", ErrConfiguration, p)
		}
	default:
		return fmt.Errorf("%w: unknown print mode %q", ErrConfiguration, o.Mode)
	}
	if o.MaxTerms < 0 {
		return fmt.Errorf("%w: negative MaxTerms %d", ErrConfiguration, o.MaxTerms)
	}
	return nil
}

// merge overlays the non-zero fields of override on top of base, the way a
// derived parent inherits its print configuration.
func (o PrintOptions) merge(override *PrintOptions) PrintOptions {
	if override == nil {
		return o
	}
	out := o
	if override.Mode != "" {
		out.Mode = override.Mode
	}
	out.Pos = override.Pos
	if override.MaxTerms != 0 {
		out.MaxTerms = override.MaxTerms
	}
	if override.Sep != "" {
		out.Sep = override.Sep
	}
	return out
}

func (o PrintOptions) cmp(other PrintOptions) int {
	if c := strings.Compare(string(o.Mode), string(other.Mode)); c != 0 {
		return c
	}
	if o.Pos != other.Pos {
		if o.Pos {
			return 1
		}
		return -1
	}
	if o.MaxTerms != other.MaxTerms {
		if o.MaxTerms < other.MaxTerms {
			return -1
		}
		return 1
	}
	return strings.Compare(o.Sep, other.Sep)
}

// PrintOptions returns the parent's current print configuration.
func (r *Ring) PrintOptions() PrintOptions {
	r.printMu.RLock()
	defer r.printMu.RUnlock()
	return r.print
}

// OverridePrint temporarily replaces the parent's print configuration and
// returns a guard restoring the previous one. The guard must be called on
// all exit paths, typically via defer.
func (r *Ring) OverridePrint(opts PrintOptions) (restore func(), err error) {
	opts = opts.withDefaults()
	if err := opts.validate(r.pp.PrimeRef()); err != nil {
		return nil, err
	}
	r.printMu.Lock()
	prev := r.print
	r.print = opts
	r.printMu.Unlock()
	return func() {
		r.printMu.Lock()
		r.print = prev
		r.printMu.Unlock()
	}, nil
}

// digit representative: c in [0,p); balanced maps to (-p/2, p/2].
func balanced(c, p *big.Int) *big.Int {
	half := new(big.Int).Rsh(p, 1)
	if c.Cmp(half) > 0 {
		return new(big.Int).Sub(c, p)
	}
	return new(big.Int).Set(c)
}

// seriesTerm renders coefficient c at exponent k of the uniformizer.
func seriesTerm(c *big.Int, p *big.Int, k int) string {
	var coeff string
	switch {
	case k == 0:
		return c.String()
	case c.Cmp(oneInt) == 0:
		coeff = ""
	default:
		coeff = c.String() + "*"
	}
	if k == 1 {
		return fmt.Sprintf("%s%s", coeff, p)
	}
	return fmt.Sprintf("%s%s^%d", coeff, p, k)
}

var oneInt = big.NewInt(1)

// String renders the element under its parent's print configuration.
func (e *Element) String() string {
	r := e.ring
	opts := r.PrintOptions()
	p := r.pp.PrimeRef()

	if e.exact {
		return "0"
	}
	abs := e.absolute()
	if e.prec == 0 {
		return fmt.Sprintf("O(%s^%d)", p, abs)
	}

	switch opts.Mode {
	case PrintValUnit:
		if e.val == 0 {
			return fmt.Sprintf("%s + O(%s^%d)", e.unit.String(), p, abs)
		}
		return fmt.Sprintf("%s^%d * %s + O(%s^%d)", p, e.val, e.unit.String(), p, abs)
	case PrintTerse:
		if e.val >= 0 {
			v := new(big.Int).Mul(&e.unit, r.pp.Pow(e.val))
			return fmt.Sprintf("%s + O(%s^%d)", v, p, abs)
		}
		return fmt.Sprintf("%s/%s^%d + O(%s^%d)", e.unit.String(), p, -e.val, p, abs)
	case PrintDigits, PrintBars:
		return e.digitString(opts)
	default:
		return e.seriesString(opts)
	}
}

func (e *Element) seriesString(opts PrintOptions) string {
	r := e.ring
	p := r.pp.PrimeRef()
	var terms []string

	rest := new(big.Int).Set(&e.unit)
	var c big.Int
	for k := 0; k < e.prec && rest.Sign() != 0; k++ {
		rest.QuoRem(rest, p, &c)
		if c.Sign() == 0 {
			continue
		}
		coeff := &c
		if !opts.Pos {
			coeff = balanced(&c, p)
			if coeff.Sign() < 0 {
				// borrow propagates to the next digit
				rest.Add(rest, oneInt)
			}
		}
		terms = append(terms, seriesTerm(new(big.Int).Set(coeff), p, e.val+k))
		if opts.MaxTerms > 0 && len(terms) == opts.MaxTerms {
			terms = append(terms, "...")
			break
		}
	}
	terms = append(terms, fmt.Sprintf("O(%s^%d)", p, e.absolute()))
	return strings.Join(terms, " + ")
}

func (e *Element) digitString(opts PrintOptions) string {
	r := e.ring
	p := r.pp.PrimeRef()
	digits := make([]string, 0, e.prec)

	rest := new(big.Int).Set(&e.unit)
	var c big.Int
	for k := 0; k < e.prec; k++ {
		rest.QuoRem(rest, p, &c)
		if opts.Mode == PrintDigits {
			digits = append(digits, strings.ToLower(c.Text(36)))
		} else {
			digits = append(digits, c.String())
		}
	}
	// most significant first
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	sep := ""
	if opts.Mode == PrintBars {
		sep = opts.Sep
	}
	body := strings.Join(digits, sep)
	if e.val > 0 {
		body += strings.Repeat(sep+"0", e.val)
	}
	return "..." + body
}
