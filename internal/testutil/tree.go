// Package testutil provides deterministic value-tree generation for tests.
package testutil

import (
	"fmt"
	"math/rand"

	"github.com/roach88/constable/internal/cval"
)

// TreeGenerator produces pseudo-random value trees from a fixed seed.
//
// The same seed always yields the same sequence of trees, so two generators
// with one seed build structurally identical values. Within a single realm
// that means the identical canonical instance, which makes the generator
// useful for convergence and persistence round-trip tests.
//
// Thread-safety: a TreeGenerator is not safe for concurrent use; give each
// goroutine its own generator.
type TreeGenerator struct {
	rng *rand.Rand
}

// NewTreeGenerator creates a generator seeded with seed.
func NewTreeGenerator(seed int64) *TreeGenerator {
	return &TreeGenerator{rng: rand.New(rand.NewSource(seed))}
}

// Value builds one tree up to depth levels of nesting. Depth 0 produces a
// primitive.
func (g *TreeGenerator) Value(r *cval.Realm, depth int) cval.Value {
	if depth <= 0 {
		return g.primitive()
	}
	if g.rng.Intn(2) == 0 {
		return g.object(r, depth)
	}
	return g.array(r, depth)
}

// Object builds a tree whose root is always an object.
func (g *TreeGenerator) Object(r *cval.Realm, depth int) *cval.Composite {
	return g.object(r, depth)
}

func (g *TreeGenerator) object(r *cval.Realm, depth int) *cval.Composite {
	n := 1 + g.rng.Intn(4)
	entries := make([]cval.Entry, 0, n)
	for i := 0; i < n; i++ {
		entries = append(entries, cval.Entry{
			Key:   cval.StringKey(fmt.Sprintf("k%d", g.rng.Intn(8))),
			Value: g.Value(r, depth-1),
		})
	}
	return r.MustObject(entries...)
}

func (g *TreeGenerator) array(r *cval.Realm, depth int) *cval.Composite {
	n := g.rng.Intn(4)
	vals := make([]cval.Value, 0, n)
	for i := 0; i < n; i++ {
		vals = append(vals, g.Value(r, depth-1))
	}
	return r.MustArray(vals...)
}

func (g *TreeGenerator) primitive() cval.Value {
	switch g.rng.Intn(5) {
	case 0:
		return cval.Null{}
	case 1:
		return cval.Bool(g.rng.Intn(2) == 0)
	case 2:
		return cval.Number(float64(g.rng.Intn(100)))
	case 3:
		return cval.String(fmt.Sprintf("s%d", g.rng.Intn(100)))
	default:
		return cval.Undefined{}
	}
}
