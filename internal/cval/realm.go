package cval

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Realm owns one canonical store. Canonical identity is realm-scoped: a
// composite is a value only within the realm that registered it, and two
// realms never share instances. Each isolated worker or agent owns its own
// realm; cross-realm transfer is an external concern.
type Realm struct {
	// ID identifies the realm in logs and diagnostics.
	ID uuid.UUID

	store *store
}

// NewRealm creates a realm with an empty canonical store.
func NewRealm() *Realm {
	return &Realm{ID: uuid.New(), store: newStore()}
}

// IsValue reports whether v is an admissible member of an immutable tree in
// this realm: any primitive, or a composite registered in this realm's store.
// A composite from another realm is not a value here.
func (r *Realm) IsValue(v Value) bool {
	switch v := v.(type) {
	case Undefined, Null, Bool, Number, String:
		return true
	case *Symbol:
		return v != nil
	case *Composite:
		return v != nil && v.realm == r
	default:
		return false
	}
}

// NewObject constructs the canonical const object for the given ordered
// entries. Duplicate keys keep the first occurrence's position with the last
// occurrence's value, matching literal semantics. Every member must satisfy
// IsValue or construction fails with ConstructionTypeError before anything is
// registered.
func (r *Realm) NewObject(entries []Entry) (*Composite, error) {
	keys := make([]Key, 0, len(entries))
	vals := make([]Value, 0, len(entries))
	index := make(map[Key]int, len(entries))
	for _, e := range entries {
		if !r.IsValue(e.Value) {
			return nil, &ConstructionTypeError{
				Path: "." + e.Key.String(),
				Got:  DescribeValue(e.Value),
			}
		}
		if at, ok := index[e.Key]; ok {
			vals[at] = e.Value
			continue
		}
		index[e.Key] = len(keys)
		keys = append(keys, e.Key)
		vals = append(vals, e.Value)
	}
	return r.intern(KindObject, keys, vals, index), nil
}

// NewArray constructs the canonical const array for the given ordered
// members. Every member must satisfy IsValue or construction fails with
// ConstructionTypeError before anything is registered.
func (r *Realm) NewArray(vals []Value) (*Composite, error) {
	for i, v := range vals {
		if !r.IsValue(v) {
			return nil, &ConstructionTypeError{
				Path: fmt.Sprintf("[%d]", i),
				Got:  DescribeValue(v),
			}
		}
	}
	copied := make([]Value, len(vals))
	copy(copied, vals)
	return r.intern(KindArray, nil, copied, nil), nil
}

// intern builds the candidate and passes it through the canonical store.
// Members must already be validated. The candidate is discarded if an
// identical instance already exists.
func (r *Realm) intern(kind Kind, keys []Key, vals []Value, index map[Key]int) *Composite {
	c := &Composite{
		kind:  kind,
		keys:  keys,
		vals:  vals,
		index: index,
		realm: r,
	}
	c.fp = fingerprint(kind, keys, vals)
	return r.store.canonicalize(c)
}

// ValueOf converts a native Go value into a canonical Value in this realm.
// Admitted: nil (null), bool, string, all int/uint widths, float64/float32,
// Value itself (if admissible here), []any, and map[string]any. Map members
// are ordered by sorted key, since Go maps carry no insertion order; callers
// that care about member order construct through NewObject. Anything else -
// functions, channels, pointers, arbitrary structs - fails with
// ConstructionTypeError naming the offender depth-first.
func (r *Realm) ValueOf(v any) (Value, error) {
	return r.valueOf(v, "")
}

func (r *Realm) valueOf(v any, path string) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		if !r.IsValue(v) {
			return nil, &ConstructionTypeError{Path: path, Got: DescribeValue(v)}
		}
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Number(v), nil
	case int8:
		return Number(v), nil
	case int16:
		return Number(v), nil
	case int32:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case uint:
		return Number(v), nil
	case uint8:
		return Number(v), nil
	case uint16:
		return Number(v), nil
	case uint32:
		return Number(v), nil
	case uint64:
		return Number(v), nil
	case float32:
		return Number(v), nil
	case float64:
		return Number(v), nil
	case []any:
		vals := make([]Value, len(v))
		for i, elem := range v {
			cv, err := r.valueOf(elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			vals[i] = cv
		}
		return r.NewArray(vals)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(v))
		for _, k := range keys {
			cv, err := r.valueOf(v[k], path+"."+k)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Key: StringKey(k), Value: cv})
		}
		return r.NewObject(entries)
	default:
		return nil, &ConstructionTypeError{Path: path, Got: fmt.Sprintf("%T", v)}
	}
}

// MustObject is like NewObject but panics on error. Use only in tests or when
// members are known to be valid.
func (r *Realm) MustObject(entries ...Entry) *Composite {
	c, err := r.NewObject(entries)
	if err != nil {
		panic(err)
	}
	return c
}

// MustArray is like NewArray but panics on error. Use only in tests or when
// members are known to be valid.
func (r *Realm) MustArray(vals ...Value) *Composite {
	c, err := r.NewArray(vals)
	if err != nil {
		panic(err)
	}
	return c
}
