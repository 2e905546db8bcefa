package cval

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"
)

// Fingerprint is the structural hash a composite is indexed under in the
// canonical store. It is computed from the composite's kind and its ordered
// entries, where composite children contribute only their store serial and
// primitive children contribute their value bits. Children are always already
// canonical when a fingerprint is computed (composites are built bottom-up),
// so hashing is O(breadth) - a child's internal structure is never re-hashed.
type Fingerprint [32]byte

// Hex returns the fingerprint as a hex string.
func (f Fingerprint) Hex() string { return hex.EncodeToString(f[:]) }

// Domain prefixes for fingerprint computation. Version suffix enables future
// algorithm migration.
const (
	domainObject = "constable/object/v1"
	domainArray  = "constable/array/v1"
)

// Value tag bytes. The tag precedes every hashed member so that adjacent
// members of different types can never produce the same byte stream.
const (
	tagUndefined byte = 1
	tagNull      byte = 2
	tagBool      byte = 3
	tagNumber    byte = 4
	tagString    byte = 5
	tagSymbol    byte = 6
	tagComposite byte = 7

	tagStringKey byte = 10
	tagSymbolKey byte = 11
)

// canonicalNaN is the single bit pattern all NaN payloads collapse to, so
// that every NaN member fingerprints identically.
const canonicalNaN uint64 = 0x7FF8000000000000

// fingerprint computes the structural fingerprint for a candidate composite.
// For objects, keys is parallel to vals; for arrays, keys is nil and position
// is implicit in order.
func fingerprint(kind Kind, keys []Key, vals []Value) Fingerprint {
	h := sha256.New()
	if kind == KindObject {
		h.Write([]byte(domainObject))
	} else {
		h.Write([]byte(domainArray))
	}
	h.Write([]byte{0x00}) // domain/data separator

	writeUint64(h, uint64(len(vals)))
	for i, v := range vals {
		if kind == KindObject {
			writeKey(h, keys[i])
		}
		writeValue(h, v)
	}

	var fp Fingerprint
	h.Sum(fp[:0])
	return fp
}

func writeKey(h hash.Hash, k Key) {
	if k.sym != nil {
		h.Write([]byte{tagSymbolKey})
		writeUint64(h, k.sym.serial)
		return
	}
	h.Write([]byte{tagStringKey})
	writeUint64(h, uint64(len(k.str)))
	h.Write([]byte(k.str))
}

func writeValue(h hash.Hash, v Value) {
	switch v := v.(type) {
	case Undefined:
		h.Write([]byte{tagUndefined})
	case Null:
		h.Write([]byte{tagNull})
	case Bool:
		b := byte(0)
		if v {
			b = 1
		}
		h.Write([]byte{tagBool, b})
	case Number:
		h.Write([]byte{tagNumber})
		writeUint64(h, numberBits(float64(v)))
	case String:
		h.Write([]byte{tagString})
		writeUint64(h, uint64(len(v)))
		h.Write([]byte(v))
	case *Symbol:
		h.Write([]byte{tagSymbol})
		writeUint64(h, v.serial)
	case *Composite:
		// Identity, not structure: the child is already canonical, so its
		// store serial stands in for its entire subtree.
		h.Write([]byte{tagComposite})
		writeUint64(h, v.serial)
	default:
		panic("cval: fingerprint of unclassified value")
	}
}

// numberBits normalizes a float64 to the bit pattern used for matching:
// all NaNs collapse to one pattern and -0 collapses to +0, mirroring the
// SameValueZero discipline the store matches primitives with.
func numberBits(f float64) uint64 {
	if math.IsNaN(f) {
		return canonicalNaN
	}
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}

func writeUint64(h hash.Hash, n uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], n)
	h.Write(buf[:])
}
