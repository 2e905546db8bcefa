package cval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObject(r *Realm) *Composite {
	return r.MustObject(
		Entry{Key: StringKey("name"), Value: String("cart")},
		Entry{Key: StringKey("count"), Value: Number(5)},
		Entry{Key: StringKey("open"), Value: Bool(true)},
	)
}

func TestObjectGetHas(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	v, ok := obj.Get(StringKey("name"))
	require.True(t, ok)
	assert.Equal(t, String("cart"), v)

	v, ok = obj.Get(StringKey("missing"))
	assert.False(t, ok)
	assert.Equal(t, Undefined{}, v)

	assert.True(t, obj.Has(StringKey("count")))
	assert.False(t, obj.Has(StringKey("missing")))
}

func TestObjectKeysInsertionOrder(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	keys := obj.Keys()
	require.Equal(t, KindArray, keys.Kind())
	require.Equal(t, 3, keys.Len())

	want := []Value{String("name"), String("count"), String("open")}
	for i, w := range want {
		got, ok := keys.At(i)
		require.True(t, ok)
		assert.Equal(t, w, got)
	}

	// keys() goes through the normal canonicalization path.
	assert.Same(t, keys, obj.Keys())
}

func TestObjectValuesAndEntries(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	vals := obj.Values()
	require.Equal(t, 3, vals.Len())
	first, _ := vals.At(0)
	assert.Equal(t, String("cart"), first)

	entries := obj.Entries()
	require.Equal(t, 3, entries.Len())
	pair, _ := entries.At(1)
	pc := pair.(*Composite)
	require.Equal(t, 2, pc.Len())
	k, _ := pc.At(0)
	v, _ := pc.At(1)
	assert.Equal(t, String("count"), k)
	assert.Equal(t, Number(5), v)

	assert.Same(t, entries, obj.Entries())
}

func TestObjectSymbolKeys(t *testing.T) {
	r := NewRealm()
	sym := NewSymbol("hidden")

	obj := r.MustObject(Entry{Key: SymbolKey(sym), Value: Number(9)})

	v, ok := obj.Get(SymbolKey(sym))
	require.True(t, ok)
	assert.Equal(t, Number(9), v)

	keys := obj.Keys()
	k, _ := keys.At(0)
	assert.Same(t, sym, k)
}

func TestObjectSetExistingKeyKeepsPosition(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	next, err := obj.Set(StringKey("count"), Number(6))
	require.NoError(t, err)

	assert.NotSame(t, obj, next)
	assert.Equal(t, StringKey("count"), next.EntryAt(1).Key)
	v, _ := next.Get(StringKey("count"))
	assert.Equal(t, Number(6), v)

	// Original untouched.
	v, _ = obj.Get(StringKey("count"))
	assert.Equal(t, Number(5), v)
}

func TestObjectSetNewKeyAppends(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	next, err := obj.Set(StringKey("tag"), String("new"))
	require.NoError(t, err)

	require.Equal(t, 4, next.Len())
	assert.Equal(t, StringKey("tag"), next.EntryAt(3).Key)
}

func TestObjectSetNoOpPreservesIdentity(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	next, err := obj.Set(StringKey("count"), Number(5))
	require.NoError(t, err)
	assert.Same(t, obj, next)
}

func TestObjectSetRejectsNonValue(t *testing.T) {
	r := NewRealm()
	other := NewRealm()
	obj := testObject(r)

	_, err := obj.Set(StringKey("alien"), other.MustArray())
	require.Error(t, err)
	assert.True(t, IsUpdateTypeError(err))
}

func TestObjectWithout(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	next := obj.Without(StringKey("count"))
	require.Equal(t, 2, next.Len())
	assert.False(t, next.Has(StringKey("count")))
	assert.Equal(t, StringKey("name"), next.EntryAt(0).Key)
	assert.Equal(t, StringKey("open"), next.EntryAt(1).Key)

	// Absent key: no-op identity.
	assert.Same(t, obj, obj.Without(StringKey("missing")))
}

func TestObjectWithoutCanonicalizes(t *testing.T) {
	r := NewRealm()
	obj := testObject(r)

	direct := r.MustObject(
		Entry{Key: StringKey("name"), Value: String("cart")},
		Entry{Key: StringKey("open"), Value: Bool(true)},
	)
	assert.Same(t, direct, obj.Without(StringKey("count")))
}

func TestObjectMethodsPanicOnArray(t *testing.T) {
	r := NewRealm()
	arr := r.MustArray(Number(1))

	assert.Panics(t, func() { arr.Get(StringKey("x")) })
	assert.Panics(t, func() { arr.Keys() })
}
