package cval

import (
	"runtime"
	"sync"
	"sync/atomic"
	"weak"
)

// storeShards is the number of independently locked bucket groups. Sharding
// keeps racing constructions of unrelated content from contending on one lock.
const storeShards = 64

// store is the realm-scoped hash-consing table. It maps a structural
// fingerprint to the single canonical composite instance with that structure.
//
// Entries hold weak pointers: the store never keeps a composite alive. Once a
// composite is collected, a cleanup hook evicts its bucket entry.
//
// Concurrency: lookups scan under the shard's read lock; insertion re-scans
// and registers under the exclusive lock, so insert-if-absent is atomic and
// two racing constructions of identical content converge on one instance.
type store struct {
	serials atomic.Uint64
	shards  [storeShards]storeShard
}

type storeShard struct {
	mu      sync.RWMutex
	buckets map[Fingerprint][]weak.Pointer[Composite]
}

func newStore() *store {
	s := &store{}
	for i := range s.shards {
		s.shards[i].buckets = make(map[Fingerprint][]weak.Pointer[Composite])
	}
	return s
}

// canonicalize returns the canonical instance for the candidate's content.
// If a structurally identical composite is already registered, the candidate
// is discarded and the existing instance returned; otherwise the candidate is
// registered and becomes canonical. The candidate's fingerprint must already
// be set and its members must all be canonical or primitive.
func (s *store) canonicalize(c *Composite) *Composite {
	sh := &s.shards[c.fp[0]%storeShards]

	sh.mu.RLock()
	for _, ref := range sh.buckets[c.fp] {
		if v := ref.Value(); v != nil && shallowEqual(v, c) {
			sh.mu.RUnlock()
			return v
		}
	}
	sh.mu.RUnlock()

	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Re-scan under the exclusive lock: a racing construction may have
	// registered identical content since the read pass. Dead entries are
	// pruned on the way through.
	bucket := sh.buckets[c.fp]
	live := bucket[:0]
	var won *Composite
	for _, ref := range bucket {
		v := ref.Value()
		if v == nil {
			continue
		}
		live = append(live, ref)
		if won == nil && shallowEqual(v, c) {
			won = v
		}
	}
	if won != nil {
		sh.buckets[c.fp] = live
		return won
	}

	c.serial = s.serials.Add(1)
	sh.buckets[c.fp] = append(live, weak.Make(c))
	runtime.AddCleanup(c, s.evict, c.fp)
	return c
}

// evict removes dead entries from the fingerprint's bucket. Invoked by the
// runtime once a registered composite becomes unreachable.
func (s *store) evict(fp Fingerprint) {
	sh := &s.shards[fp[0]%storeShards]
	sh.mu.Lock()
	defer sh.mu.Unlock()

	bucket, ok := sh.buckets[fp]
	if !ok {
		return
	}
	live := bucket[:0]
	for _, ref := range bucket {
		if ref.Value() != nil {
			live = append(live, ref)
		}
	}
	if len(live) == 0 {
		delete(sh.buckets, fp)
		return
	}
	sh.buckets[fp] = live
}

// shallowEqual compares a registered composite against a candidate by kind,
// entry count, keys, and per-position child identity (composites) or value
// (primitives). Because children are already canonical, this shallow pass is
// equivalent to full deep structural equality.
func shallowEqual(a, b *Composite) bool {
	if a.kind != b.kind || len(a.vals) != len(b.vals) {
		return false
	}
	if a.kind == KindObject {
		for i := range a.keys {
			if a.keys[i] != b.keys[i] {
				return false
			}
		}
	}
	for i := range a.vals {
		if !sameValueZero(a.vals[i], b.vals[i]) {
			return false
		}
	}
	return true
}
