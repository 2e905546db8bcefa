package cval

// Object read operations. All are valid only on KindObject composites; the
// update engine checks kinds before dispatching, and direct misuse panics.

// Get returns the value at key. The second result is false when the key is
// absent, in which case the first result is Undefined.
func (c *Composite) Get(k Key) (Value, bool) {
	c.mustBe(KindObject, "Get")
	if i, ok := c.index[k]; ok {
		return c.vals[i], true
	}
	return Undefined{}, false
}

// Has reports whether key is present. O(1) amortized.
func (c *Composite) Has(k Key) bool {
	c.mustBe(KindObject, "Has")
	_, ok := c.index[k]
	return ok
}

// Keys returns the object's keys, in insertion order, as a canonical const
// array of strings and symbols.
func (c *Composite) Keys() *Composite {
	c.mustBe(KindObject, "Keys")
	vals := make([]Value, len(c.keys))
	for i, k := range c.keys {
		vals[i] = k.Val()
	}
	return c.realm.MustArray(vals...)
}

// Values returns the object's values, in insertion order, as a canonical
// const array.
func (c *Composite) Values() *Composite {
	c.mustBe(KindObject, "Values")
	return c.realm.MustArray(c.vals...)
}

// Entries returns the object's (key, value) pairs, in insertion order, as a
// canonical const array of two-element const arrays.
func (c *Composite) Entries() *Composite {
	c.mustBe(KindObject, "Entries")
	pairs := make([]Value, len(c.keys))
	for i, k := range c.keys {
		pairs[i] = c.realm.MustArray(k.Val(), c.vals[i])
	}
	return c.realm.MustArray(pairs...)
}

// EntryAt returns the i'th (key, value) member in insertion order.
func (c *Composite) EntryAt(i int) Entry {
	c.mustBe(KindObject, "EntryAt")
	return Entry{Key: c.keys[i], Value: c.vals[i]}
}

// Set derives a new canonical object with key bound to v. An existing key
// keeps its position; a new key appends. Setting a key to a value strictly
// equal to its current one returns the receiver unchanged, preserving
// identity for no-ops. Fails with UpdateTypeError if v is not a value type.
func (c *Composite) Set(k Key, v Value) (*Composite, error) {
	c.mustBe(KindObject, "Set")
	if !c.realm.IsValue(v) {
		return nil, &UpdateTypeError{Path: "." + k.String(), Got: DescribeValue(v)}
	}
	if i, ok := c.index[k]; ok {
		if StrictEquals(c.vals[i], v) {
			return c, nil
		}
		return c.withMember(i, v), nil
	}
	keys := append(append(make([]Key, 0, len(c.keys)+1), c.keys...), k)
	vals := append(append(make([]Value, 0, len(c.vals)+1), c.vals...), v)
	return c.realm.intern(KindObject, keys, vals, indexKeys(keys)), nil
}

// Without derives a new canonical object with key removed. An absent key
// returns the receiver unchanged.
func (c *Composite) Without(k Key) *Composite {
	c.mustBe(KindObject, "Without")
	i, ok := c.index[k]
	if !ok {
		return c
	}
	keys := make([]Key, 0, len(c.keys)-1)
	vals := make([]Value, 0, len(c.vals)-1)
	keys = append(append(keys, c.keys[:i]...), c.keys[i+1:]...)
	vals = append(append(vals, c.vals[:i]...), c.vals[i+1:]...)
	return c.realm.intern(KindObject, keys, vals, indexKeys(keys))
}

// withMember derives a composite identical to c except the member at
// position i, which becomes v. Siblings are reused by reference. Shared by
// Set, With, and the update engine's path rebuild.
func (c *Composite) withMember(i int, v Value) *Composite {
	vals := make([]Value, len(c.vals))
	copy(vals, c.vals)
	vals[i] = v
	if c.kind == KindObject {
		// Keys and index are unchanged, share them with the receiver.
		return c.realm.intern(KindObject, c.keys, vals, c.index)
	}
	return c.realm.intern(KindArray, nil, vals, nil)
}

func indexKeys(keys []Key) map[Key]int {
	index := make(map[Key]int, len(keys))
	for i, k := range keys {
		index[k] = i
	}
	return index
}
