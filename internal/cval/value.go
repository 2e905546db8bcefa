package cval

import (
	"fmt"
	"sync/atomic"
)

// Value is a sealed interface over the types admissible in an immutable tree.
// Only Undefined, Null, Bool, Number, String, *Symbol, and *Composite implement it.
// Reference-typed host values (including *Box) are deliberately excluded.
type Value interface {
	value() // Sealed - only these types implement it
}

// Undefined is the absent-value primitive.
type Undefined struct{}

func (Undefined) value() {}

// Null is the null primitive.
type Null struct{}

func (Null) value() {}

// Bool is the boolean primitive.
type Bool bool

func (Bool) value() {}

// Number is the numeric primitive. Host-number semantics: a float64 with
// NaN != NaN and +0 == -0 under strict equality.
type Number float64

func (Number) value() {}

// String is the string primitive.
type String string

func (String) value() {}

// Symbol is an identity-valued primitive. Two symbols are equal only if they
// are the same *Symbol; the description is informational. Symbols are
// primitives, so they are never registered in the canonical store, but they
// carry a stable serial for fingerprinting.
type Symbol struct {
	serial uint64
	desc   string
}

func (*Symbol) value() {}

var symbolSerial atomic.Uint64

// NewSymbol creates a fresh symbol. Every call returns a distinct identity,
// even for the same description.
func NewSymbol(description string) *Symbol {
	return &Symbol{serial: symbolSerial.Add(1), desc: description}
}

// Description returns the symbol's description.
func (s *Symbol) Description() string { return s.desc }

// Kind discriminates the two composite shapes.
type Kind uint8

const (
	KindObject Kind = iota + 1
	KindArray
)

// String implements fmt.Stringer for Kind.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Key is an object property key: a string or a symbol.
// The zero Key is the empty string key.
type Key struct {
	str string
	sym *Symbol
}

// StringKey makes a string property key.
func StringKey(s string) Key { return Key{str: s} }

// SymbolKey makes a symbol property key.
func SymbolKey(s *Symbol) Key { return Key{sym: s} }

// IsSymbol reports whether the key is a symbol key.
func (k Key) IsSymbol() bool { return k.sym != nil }

// Symbol returns the symbol of a symbol key, or nil for string keys.
func (k Key) Symbol() *Symbol { return k.sym }

// String renders the key for diagnostics. Symbol keys render as @description.
func (k Key) String() string {
	if k.sym != nil {
		return "@" + k.sym.desc
	}
	return k.str
}

// Val returns the key as a Value (String or *Symbol), for keys()/entries().
func (k Key) Val() Value {
	if k.sym != nil {
		return k.sym
	}
	return String(k.str)
}

// Entry is one ordered (key, value) member of an object.
type Entry struct {
	Key   Key
	Value Value
}

// Composite is an immutable ordered container of Values: a const object or a
// const array. Composites are created only by a Realm (literal construction)
// or by rebuilds that pass through the realm's canonical store, and are never
// mutated afterwards. Two composites with the same kind and ordered content
// are always the same instance within a realm, so == on *Composite is
// structural equality.
type Composite struct {
	kind   Kind
	keys   []Key   // object kind only, parallel to vals
	vals   []Value // members in insertion/positional order
	index  map[Key]int
	fp     Fingerprint
	serial uint64 // assigned by the store on registration
	realm  *Realm
}

func (*Composite) value() {}

// Kind returns the composite's kind.
func (c *Composite) Kind() Kind { return c.kind }

// Len returns the member count.
func (c *Composite) Len() int { return len(c.vals) }

// Realm returns the realm that owns this composite's canonical identity.
func (c *Composite) Realm() *Realm { return c.realm }

// Fingerprint returns the structural fingerprint the store indexed this
// composite under.
func (c *Composite) Fingerprint() Fingerprint { return c.fp }

func (c *Composite) mustBe(k Kind, op string) {
	if c.kind != k {
		panic(fmt.Sprintf("cval: %s called on %s composite", op, c.kind))
	}
}

// DescribeValue names a value's type for error messages.
func DescribeValue(v Value) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *Symbol:
		return "symbol"
	case *Composite:
		return "const " + v.kind.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}
