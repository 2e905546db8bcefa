// Package update applies ordered batches of path-based update parts to a
// canonical const value, producing a new canonical value.
//
// A part is either an assignment (a path plus a final value) or a call (a
// path to a container plus a method from the closed dispatch table). Parts
// apply strictly left-to-right: each part sees the result of the parts before
// it, so chained calls against the same target compose. Path steps carry
// literal keys and indices only - computed segments are evaluated by the
// caller before the engine sees them.
//
// Rebuilding copies only the path from the changed leaf back to the root.
// Siblings off the path are reused by reference and never re-validated, and
// each rebuilt composite is canonicalized before becoming a child of its
// parent. A part whose produced leaf is strictly equal to the value already
// in place is a no-op and preserves the root's identity.
//
// Failures follow the cval taxonomy: PathTypeError when a step does not
// resolve, UpdateTypeError when a produced value is not a value type. The
// first error stops the batch and the original root is unaffected.
package update
