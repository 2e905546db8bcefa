package cval

import "math"

// StrictEquals implements host strict equality, no coercion.
//
// Primitives compare by value: numbers with NaN != NaN and +0 == -0, symbols
// by identity. Two composites are strictly equal iff they are the same
// canonical instance - pointer comparison, equivalent to full structural
// equality because the store guarantees canonical uniqueness.
func StrictEquals(a, b Value) bool {
	switch a := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Number:
		bb, ok := b.(Number)
		return ok && a == bb // NaN != NaN, +0 == -0
	case String:
		bb, ok := b.(String)
		return ok && a == bb
	case *Symbol:
		bb, ok := b.(*Symbol)
		return ok && a == bb
	case *Composite:
		bb, ok := b.(*Composite)
		return ok && a == bb
	default:
		return false
	}
}

// sameValueZero is the matching discipline the canonical store applies to
// primitive children: like StrictEquals except NaN matches NaN. Without it,
// canonical uniqueness would be ill-defined for trees containing NaN.
func sameValueZero(a, b Value) bool {
	an, aok := a.(Number)
	bn, bok := b.(Number)
	if aok && bok {
		return an == bn || (math.IsNaN(float64(an)) && math.IsNaN(float64(bn)))
	}
	return StrictEquals(a, b)
}

// Box is an explicit reference-typed wrapper around a Value, the analog of
// Object(x). A Box is NOT a value type: it cannot be a member of a composite,
// and two boxes are never strictly equal, even when wrapping the identical
// composite, because every Boxed call allocates a fresh container. That is a
// documented contract of boxing, not a property of the store.
type Box struct {
	v Value
}

// Boxed wraps v in a fresh reference-typed container.
func Boxed(v Value) *Box { return &Box{v: v} }

// Unbox returns the wrapped value.
func (b *Box) Unbox() Value { return b.v }
