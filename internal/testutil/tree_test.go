package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/constable/internal/cval"
)

func TestSameSeedConvergesInOneRealm(t *testing.T) {
	r := cval.NewRealm()

	a := NewTreeGenerator(42).Value(r, 4)
	b := NewTreeGenerator(42).Value(r, 4)

	// Identical structure canonicalizes to the identical instance.
	assert.True(t, cval.StrictEquals(a, b))
	if ac, ok := a.(*cval.Composite); ok {
		assert.Same(t, ac, b)
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	r := cval.NewRealm()

	a := NewTreeGenerator(1).Object(r, 4)
	b := NewTreeGenerator(2).Object(r, 4)

	assert.NotSame(t, a, b)
}

func TestObjectRootKind(t *testing.T) {
	r := cval.NewRealm()

	c := NewTreeGenerator(7).Object(r, 2)
	assert.Equal(t, cval.KindObject, c.Kind())
}
