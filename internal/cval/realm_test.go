package cval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValuePrimitives(t *testing.T) {
	r := NewRealm()

	assert.True(t, r.IsValue(Undefined{}))
	assert.True(t, r.IsValue(Null{}))
	assert.True(t, r.IsValue(Bool(false)))
	assert.True(t, r.IsValue(Number(1)))
	assert.True(t, r.IsValue(String("")))
	assert.True(t, r.IsValue(NewSymbol("s")))
}

func TestIsValueComposites(t *testing.T) {
	r := NewRealm()
	other := NewRealm()

	assert.True(t, r.IsValue(r.MustArray()))
	// A composite from another realm's store is not a value here.
	assert.False(t, r.IsValue(other.MustArray()))
	assert.False(t, r.IsValue(nil))
	assert.False(t, r.IsValue((*Composite)(nil)))
}

func TestConstructionRejectsForeignComposite(t *testing.T) {
	r := NewRealm()
	other := NewRealm()

	_, err := r.NewObject([]Entry{{Key: StringKey("v"), Value: other.MustArray()}})
	require.Error(t, err)
	assert.True(t, IsConstructionTypeError(err))
	assert.Contains(t, err.Error(), ".v")

	_, err = r.NewArray([]Value{Number(1), other.MustObject()})
	require.Error(t, err)
	assert.True(t, IsConstructionTypeError(err))
	assert.Contains(t, err.Error(), "[1]")
}

func TestValueOfScalars(t *testing.T) {
	r := NewRealm()

	tests := []struct {
		in   any
		want Value
	}{
		{nil, Null{}},
		{true, Bool(true)},
		{"s", String("s")},
		{42, Number(42)},
		{int64(7), Number(7)},
		{uint8(3), Number(3)},
		{1.5, Number(1.5)},
		{Number(2), Number(2)},
	}
	for _, tt := range tests {
		got, err := r.ValueOf(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestValueOfComposite(t *testing.T) {
	r := NewRealm()

	got, err := r.ValueOf([]any{1, "two", map[string]any{"b": 2, "a": 1}})
	require.NoError(t, err)

	arr := got.(*Composite)
	require.Equal(t, 3, arr.Len())

	obj, _ := arr.At(2)
	oc := obj.(*Composite)
	// Map members are ordered by sorted key.
	assert.Equal(t, StringKey("a"), oc.EntryAt(0).Key)
	assert.Equal(t, StringKey("b"), oc.EntryAt(1).Key)
}

func TestValueOfRejectsReferenceTypes(t *testing.T) {
	r := NewRealm()

	_, err := r.ValueOf(func() {})
	require.Error(t, err)
	assert.True(t, IsConstructionTypeError(err))

	_, err = r.ValueOf([]any{1, map[string]any{"f": make(chan int)}})
	require.Error(t, err)
	assert.True(t, IsConstructionTypeError(err))
	// Depth-first path to the first offender.
	assert.Contains(t, err.Error(), "[1].f")
}

func TestValueOfIdempotentOnValues(t *testing.T) {
	r := NewRealm()
	arr := r.MustArray(Number(1))

	got, err := r.ValueOf(arr)
	require.NoError(t, err)
	assert.Same(t, arr, got)
}
