package cval

import (
	"fmt"
	"strconv"
	"strings"
)

// Array operations. Valid only on KindArray composites; the update engine
// checks kinds before dispatching, and direct misuse panics.
//
// The derive operations deliberately deviate from the mutable Array contract
// where that contract returns a non-value: Pop and Shift return the resulting
// array, never the removed element, because every operation on a const value
// must itself return a value.

// At returns the member at index i. The second result is false when i is out
// of range, in which case the first result is Undefined.
func (c *Composite) At(i int) (Value, bool) {
	c.mustBe(KindArray, "At")
	if i < 0 || i >= len(c.vals) {
		return Undefined{}, false
	}
	return c.vals[i], true
}

// First returns the first member, or Undefined and false if empty.
func (c *Composite) First() (Value, bool) {
	c.mustBe(KindArray, "First")
	if len(c.vals) == 0 {
		return Undefined{}, false
	}
	return c.vals[0], true
}

// Last returns the last member, or Undefined and false if empty.
func (c *Composite) Last() (Value, bool) {
	c.mustBe(KindArray, "Last")
	if len(c.vals) == 0 {
		return Undefined{}, false
	}
	return c.vals[len(c.vals)-1], true
}

// IndexOf returns the index of the first member strictly equal to v, or -1.
// NaN is never found, per strict-equality rules.
func (c *Composite) IndexOf(v Value) int {
	c.mustBe(KindArray, "IndexOf")
	for i, m := range c.vals {
		if StrictEquals(m, v) {
			return i
		}
	}
	return -1
}

// Includes reports whether some member matches v under SameValueZero, so NaN
// is found, matching the host's includes contract.
func (c *Composite) Includes(v Value) bool {
	c.mustBe(KindArray, "Includes")
	for _, m := range c.vals {
		if sameValueZero(m, v) {
			return true
		}
	}
	return false
}

// Slice derives the canonical array of members in [start, end). Negative
// bounds count from the end; bounds are clamped. Slicing the whole array
// returns the receiver itself.
func (c *Composite) Slice(start, end int) *Composite {
	c.mustBe(KindArray, "Slice")
	start, end = clampRange(start, end, len(c.vals))
	if start == 0 && end == len(c.vals) {
		return c
	}
	return c.realm.MustArray(c.vals[start:end]...)
}

// Concat derives the canonical array of the receiver's members followed by
// other's members. Concatenating an empty other returns the receiver.
func (c *Composite) Concat(other *Composite) *Composite {
	c.mustBe(KindArray, "Concat")
	other.mustBe(KindArray, "Concat")
	if other.Len() == 0 {
		return c
	}
	vals := make([]Value, 0, len(c.vals)+len(other.vals))
	vals = append(append(vals, c.vals...), other.vals...)
	return c.realm.MustArray(vals...)
}

// Reverse derives the canonical array with members in reverse order.
func (c *Composite) Reverse() *Composite {
	c.mustBe(KindArray, "Reverse")
	if len(c.vals) < 2 {
		return c
	}
	vals := make([]Value, len(c.vals))
	for i, v := range c.vals {
		vals[len(vals)-1-i] = v
	}
	return c.realm.MustArray(vals...)
}

// Join renders the members separated by sep: null and undefined render
// empty, booleans, numbers, and strings render as themselves. Symbols and
// nested composites have no join rendering and fail with UpdateTypeError at
// the offending element.
func (c *Composite) Join(sep string) (String, error) {
	c.mustBe(KindArray, "Join")
	var b strings.Builder
	for i, m := range c.vals {
		if i > 0 {
			b.WriteString(sep)
		}
		switch m := m.(type) {
		case Undefined, Null:
		case Bool:
			if m {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		case Number:
			b.WriteString(strconv.FormatFloat(float64(m), 'g', -1, 64))
		case String:
			b.WriteString(string(m))
		default:
			return "", &UpdateTypeError{
				Path:   fmt.Sprintf("[%d]", i),
				Method: "join",
				Got:    DescribeValue(m),
			}
		}
	}
	return String(b.String()), nil
}

// Map derives the canonical array of fn applied to each member. Every
// produced element must be a value type; a non-value product fails with
// UpdateTypeError at the offending element, not eagerly. If fn preserves
// every member, canonicalization returns the receiver's identity.
func (c *Composite) Map(fn func(v Value, i int) (Value, error)) (*Composite, error) {
	c.mustBe(KindArray, "Map")
	vals := make([]Value, len(c.vals))
	for i, m := range c.vals {
		out, err := fn(m, i)
		if err != nil {
			return nil, err
		}
		if !c.realm.IsValue(out) {
			return nil, &UpdateTypeError{
				Path:   fmt.Sprintf("[%d]", i),
				Method: "map",
				Got:    DescribeValue(out),
			}
		}
		vals[i] = out
	}
	return c.realm.MustArray(vals...), nil
}

// Filter derives the canonical array of members fn keeps. Keeping every
// member returns the receiver's identity through canonicalization.
func (c *Composite) Filter(fn func(v Value, i int) (bool, error)) (*Composite, error) {
	c.mustBe(KindArray, "Filter")
	vals := make([]Value, 0, len(c.vals))
	for i, m := range c.vals {
		keep, err := fn(m, i)
		if err != nil {
			return nil, err
		}
		if keep {
			vals = append(vals, m)
		}
	}
	if len(vals) == len(c.vals) {
		return c, nil
	}
	return c.realm.MustArray(vals...), nil
}

// Push derives the canonical array with vs appended. Fails with
// UpdateTypeError if any pushed value is not a value type.
func (c *Composite) Push(vs ...Value) (*Composite, error) {
	c.mustBe(KindArray, "Push")
	if len(vs) == 0 {
		return c, nil
	}
	for i, v := range vs {
		if !c.realm.IsValue(v) {
			return nil, &UpdateTypeError{
				Path:   fmt.Sprintf("[%d]", len(c.vals)+i),
				Method: "push",
				Got:    DescribeValue(v),
			}
		}
	}
	vals := make([]Value, 0, len(c.vals)+len(vs))
	vals = append(append(vals, c.vals...), vs...)
	return c.realm.MustArray(vals...), nil
}

// Pop derives the canonical array without the last member. The result is the
// resulting array, not the removed element. Popping an empty array returns
// the receiver unchanged.
func (c *Composite) Pop() *Composite {
	c.mustBe(KindArray, "Pop")
	if len(c.vals) == 0 {
		return c
	}
	return c.realm.MustArray(c.vals[:len(c.vals)-1]...)
}

// Shift derives the canonical array without the first member. The result is
// the resulting array, not the removed element. Shifting an empty array
// returns the receiver unchanged.
func (c *Composite) Shift() *Composite {
	c.mustBe(KindArray, "Shift")
	if len(c.vals) == 0 {
		return c
	}
	return c.realm.MustArray(c.vals[1:]...)
}

// Unshift derives the canonical array with vs prepended.
func (c *Composite) Unshift(vs ...Value) (*Composite, error) {
	c.mustBe(KindArray, "Unshift")
	if len(vs) == 0 {
		return c, nil
	}
	for i, v := range vs {
		if !c.realm.IsValue(v) {
			return nil, &UpdateTypeError{
				Path:   fmt.Sprintf("[%d]", i),
				Method: "unshift",
				Got:    DescribeValue(v),
			}
		}
	}
	vals := make([]Value, 0, len(c.vals)+len(vs))
	vals = append(append(vals, vs...), c.vals...)
	return c.realm.MustArray(vals...), nil
}

// Splice derives the canonical array with deleteCount members removed at
// start and items inserted in their place. Start is clamped like Slice;
// deleteCount is clamped to the remaining length.
func (c *Composite) Splice(start, deleteCount int, items ...Value) (*Composite, error) {
	c.mustBe(KindArray, "Splice")
	start, _ = clampRange(start, len(c.vals), len(c.vals))
	if deleteCount < 0 {
		deleteCount = 0
	}
	if deleteCount > len(c.vals)-start {
		deleteCount = len(c.vals) - start
	}
	for i, v := range items {
		if !c.realm.IsValue(v) {
			return nil, &UpdateTypeError{
				Path:   fmt.Sprintf("[%d]", start+i),
				Method: "splice",
				Got:    DescribeValue(v),
			}
		}
	}
	if deleteCount == 0 && len(items) == 0 {
		return c, nil
	}
	vals := make([]Value, 0, len(c.vals)-deleteCount+len(items))
	vals = append(vals, c.vals[:start]...)
	vals = append(vals, items...)
	vals = append(vals, c.vals[start+deleteCount:]...)
	return c.realm.MustArray(vals...), nil
}

// With derives the canonical array with the member at index i replaced by v.
// An out-of-range index fails with PathTypeError; a replacement strictly
// equal to the current member returns the receiver unchanged.
func (c *Composite) With(i int, v Value) (*Composite, error) {
	c.mustBe(KindArray, "With")
	if i < 0 || i >= len(c.vals) {
		return nil, &PathTypeError{
			Step:    fmt.Sprintf("[%d]", i),
			Message: fmt.Sprintf("index out of range for length %d", len(c.vals)),
		}
	}
	if !c.realm.IsValue(v) {
		return nil, &UpdateTypeError{Path: fmt.Sprintf("[%d]", i), Got: DescribeValue(v)}
	}
	if StrictEquals(c.vals[i], v) {
		return c, nil
	}
	return c.withMember(i, v), nil
}

// clampRange resolves possibly-negative slice bounds against length n.
func clampRange(start, end, n int) (int, int) {
	if start < 0 {
		start += n
	}
	if start < 0 {
		start = 0
	}
	if start > n {
		start = n
	}
	if end < 0 {
		end += n
	}
	if end < start {
		end = start
	}
	if end > n {
		end = n
	}
	return start, end
}
