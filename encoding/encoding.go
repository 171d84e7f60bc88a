// Package encoding offers (de)serialization APIs for p-adic parents and
// elements. It uses CBOR and prefixes each element with its parent
// descriptor, so that deserializing into a mismatched parent fails instead
// of silently reinterpreting digits.
package encoding

import (
	"errors"
	"fmt"
	"io"
	"math/big"

	"github.com/fxamacker/cbor/v2"

	"github.com/hensel/padic"
	"github.com/hensel/padic/precision"
)

var errParentMismatch = errors.New("trying to deserialize an element serialized with another parent")

type ringHeader struct {
	Prime   []byte `cbor:"1,keyasint"`
	Prec    int    `cbor:"2,keyasint"`
	Variant uint8  `cbor:"3,keyasint"`
	Field   bool   `cbor:"4,keyasint"`
}

type elementBody struct {
	Exact bool   `cbor:"1,keyasint"`
	Val   int    `cbor:"2,keyasint"`
	Rel   int    `cbor:"3,keyasint"`
	Unit  []byte `cbor:"4,keyasint"`
}

func headerOf(r *padic.Ring) ringHeader {
	return ringHeader{
		Prime:   r.Prime().Bytes(),
		Prec:    r.PrecisionCap(),
		Variant: uint8(r.Variant()),
		Field:   r.IsField(),
	}
}

func (h ringHeader) matches(r *padic.Ring) bool {
	other := headerOf(r)
	return h.Prec == other.Prec && h.Variant == other.Variant &&
		h.Field == other.Field && string(h.Prime) == string(other.Prime)
}

// WriteElement serializes an element, parent descriptor first.
func WriteElement(w io.Writer, e *padic.Element) error {
	enc := cbor.NewEncoder(w)
	if err := enc.Encode(headerOf(e.Ring())); err != nil {
		return err
	}
	body := elementBody{
		Exact: e.IsExactZero(),
		Val:   e.Valuation(),
		Rel:   e.PrecisionRelative(),
		Unit:  e.UnitDigits().Bytes(),
	}
	return enc.Encode(body)
}

// ReadElement deserializes an element into the given parent. The serialized
// parent descriptor must match.
func ReadElement(rd io.Reader, r *padic.Ring) (*padic.Element, error) {
	dec := cbor.NewDecoder(rd)
	var h ringHeader
	if err := dec.Decode(&h); err != nil {
		return nil, err
	}
	if !h.matches(r) {
		return nil, errParentMismatch
	}
	var body elementBody
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body.Exact {
		return r.Zero(), nil
	}
	unit := new(big.Int).SetBytes(body.Unit)
	return r.FromUnitValuation(unit, body.Val, body.Rel)
}

// WriteRing serializes a parent descriptor.
func WriteRing(w io.Writer, r *padic.Ring) error {
	return cbor.NewEncoder(w).Encode(headerOf(r))
}

// ReadRing deserializes a parent descriptor and reconstructs the parent.
func ReadRing(rd io.Reader) (*padic.Ring, error) {
	var h ringHeader
	if err := cbor.NewDecoder(rd).Decode(&h); err != nil {
		return nil, err
	}
	v := precision.Variant(h.Variant)
	if !v.Valid() {
		return nil, fmt.Errorf("unknown precision variant %d", h.Variant)
	}
	p := new(big.Int).SetBytes(h.Prime)
	if h.Field {
		return padic.NewField(p, h.Prec, v)
	}
	return padic.New(p, h.Prec, v)
}
