// Package cval implements deeply-immutable, structurally-shared const values
// with canonical identity: const objects and const arrays whose structurally
// identical instances are always the same pointer, so == is equivalent to
// full structural equality.
//
// # Core pieces
//
//   - Value: sealed interface over the admissible member types - the
//     primitives (undefined, null, boolean, number, string, symbol) and
//     *Composite. Closed under membership: a composite can never contain a
//     mutable or reference-typed host value.
//   - Realm: owner of one canonical store. Construction, classification, and
//     canonical identity are all realm-scoped.
//   - The canonical store: a weak, sharded hash-consing table. Composites are
//     fingerprinted from their kind and the identities of their children, so
//     hashing and equality are O(breadth), never O(subtree).
//
// # Invariants
//
//   - Every member of a composite is a primitive or a composite.
//   - Insertion order is significant for objects, positional order for
//     arrays: {a:1, b:2} and {b:2, a:1} are distinct values.
//   - Within a realm there is at most one composite instance per
//     (kind, ordered content); all construction paths converge on it.
//   - No composite is ever mutated; every derive operation produces a new
//     canonical composite, reusing untouched members by reference.
//
// The store holds only weak references: canonical registration never keeps a
// value alive, and entries are evicted as the values they index are
// collected.
package cval
