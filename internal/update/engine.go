package update

import (
	"fmt"

	"github.com/roach88/constable/internal/cval"
)

// Engine applies ordered batches of path-based update parts to a root value,
// producing a new canonical value by copying only the path from root to the
// changed leaf. Untouched siblings are reused by reference and every rebuilt
// composite passes through the realm's canonical store, so sharing is
// recovered immediately at each level.
type Engine struct {
	realm *cval.Realm
}

// New creates an update engine bound to a realm.
func New(realm *cval.Realm) *Engine {
	return &Engine{realm: realm}
}

// Apply applies parts strictly left-to-right: part n+1 is applied against the
// result of parts 1..n, not against the original root, so chained operations
// on the same target compose. The first error encountered stops processing
// and leaves the original root entirely unaffected.
//
// If a part turns out to be a true no-op - the produced leaf is strictly
// equal to the value already at the path - the current root is passed through
// unchanged, preserving identity.
func (e *Engine) Apply(root cval.Value, parts []Part) (cval.Value, error) {
	if !e.realm.IsValue(root) {
		return nil, &cval.UpdateTypeError{Got: cval.DescribeValue(root)}
	}
	cur := root
	for _, p := range parts {
		next, err := e.applyPart(cur, p)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (e *Engine) applyPart(root cval.Value, p Part) (cval.Value, error) {
	switch p := p.(type) {
	case Assignment:
		return e.applyAssignment(root, p)
	case Call:
		return e.applyCall(root, p)
	default:
		return nil, fmt.Errorf("unknown update part type %T", p)
	}
}

// applyAssignment resolves all but the final step, then assigns the value at
// the final step. For objects the final key may be new (the member appends);
// for arrays the final index must be in range.
func (e *Engine) applyAssignment(root cval.Value, a Assignment) (cval.Value, error) {
	if len(a.Path) == 0 {
		// Assignment at the empty path replaces the root outright.
		if !e.realm.IsValue(a.Value) {
			return nil, &cval.UpdateTypeError{Got: cval.DescribeValue(a.Value)}
		}
		if cval.StrictEquals(root, a.Value) {
			return root, nil
		}
		return a.Value, nil
	}

	chain, err := e.resolve(root, a.Path[:len(a.Path)-1])
	if err != nil {
		return nil, err
	}
	parent := chain[len(chain)-1]
	last := a.Path[len(a.Path)-1]

	if !e.realm.IsValue(a.Value) {
		return nil, &cval.UpdateTypeError{Path: a.Path.String(), Got: cval.DescribeValue(a.Value)}
	}

	var newParent *cval.Composite
	switch {
	case last.isIndex:
		if parent.Kind() != cval.KindArray {
			return nil, pathErr(a.Path[:len(a.Path)-1], last, "array step into const object")
		}
		old, ok := parent.At(last.index)
		if !ok {
			return nil, pathErr(a.Path[:len(a.Path)-1], last,
				fmt.Sprintf("index out of range for length %d", parent.Len()))
		}
		if cval.StrictEquals(old, a.Value) {
			return root, nil // no-op: identity preserved
		}
		newParent, err = parent.With(last.index, a.Value)
	default:
		if parent.Kind() != cval.KindObject {
			return nil, pathErr(a.Path[:len(a.Path)-1], last, "object step into const array")
		}
		if old, ok := parent.Get(last.key); ok && cval.StrictEquals(old, a.Value) {
			return root, nil // no-op: identity preserved
		}
		newParent, err = parent.Set(last.key, a.Value)
	}
	if err != nil {
		return nil, err
	}
	return e.rebuild(a.Path[:len(a.Path)-1], chain, newParent), nil
}

// applyCall resolves the full path to a container, dispatches the method from
// the closed table, validates the produced value, and splices the result back
// in place of the container.
func (e *Engine) applyCall(root cval.Value, c Call) (cval.Value, error) {
	chain, err := e.resolve(root, c.Path)
	if err != nil {
		return nil, err
	}
	recv := chain[len(chain)-1]

	fn, ok := methods[c.Method]
	if !ok {
		return nil, pathErr(c.Path, Step{key: cval.StringKey(c.Method)},
			fmt.Sprintf("unknown method %q", c.Method))
	}
	out, err := fn(recv, c.Args, c.Path)
	if err != nil {
		return nil, err
	}
	if !e.realm.IsValue(out) {
		return nil, &cval.UpdateTypeError{Path: c.Path.String(), Method: c.Method, Got: cval.DescribeValue(out)}
	}
	if cval.StrictEquals(out, cval.Value(recv)) {
		return root, nil // no-op: identity preserved
	}
	if len(c.Path) == 0 {
		return out, nil
	}

	last := c.Path[len(c.Path)-1]
	parent := chain[len(chain)-2]
	var newParent *cval.Composite
	if last.isIndex {
		newParent, err = parent.With(last.index, out)
	} else {
		newParent, err = parent.Set(last.key, out)
	}
	if err != nil {
		return nil, err
	}
	return e.rebuild(c.Path[:len(c.Path)-1], chain[:len(chain)-1], newParent), nil
}

// resolve walks steps from the root, returning the composites along the way:
// the result has len(steps)+1 elements, chain[i] being the composite at
// steps[:i]. Every step must land on a composite of the matching kind with
// the key present / index in range, or resolution fails with PathTypeError.
func (e *Engine) resolve(root cval.Value, steps Path) ([]*cval.Composite, error) {
	cur := root
	chain := make([]*cval.Composite, 0, len(steps)+1)
	for i, s := range steps {
		c, ok := cur.(*cval.Composite)
		if !ok {
			return nil, pathErr(steps[:i], s, fmt.Sprintf("cannot step into %s", cval.DescribeValue(cur)))
		}
		chain = append(chain, c)
		if s.isIndex {
			if c.Kind() != cval.KindArray {
				return nil, pathErr(steps[:i], s, "array step into const object")
			}
			v, ok := c.At(s.index)
			if !ok {
				return nil, pathErr(steps[:i], s, fmt.Sprintf("index out of range for length %d", c.Len()))
			}
			cur = v
			continue
		}
		if c.Kind() != cval.KindObject {
			return nil, pathErr(steps[:i], s, "object step into const array")
		}
		v, ok := c.Get(s.key)
		if !ok {
			return nil, pathErr(steps[:i], s, "missing key")
		}
		cur = v
	}
	c, ok := cur.(*cval.Composite)
	if !ok {
		return nil, pathErr(steps, Step{}, fmt.Sprintf("%s is not a composite", cval.DescribeValue(cur)))
	}
	return append(chain, c), nil
}

// rebuild replaces the child on the path at each ancestor, leaf to root. Each
// ancestor chain[i] is the composite at steps[:i]; newChild is the rebuilt
// composite at steps[:len(steps)] and replaces the member addressed by
// steps[i] in chain[i]. Every rebuilt composite is canonicalized before being
// used as a child of its parent; siblings are reused by reference.
func (e *Engine) rebuild(steps Path, chain []*cval.Composite, newChild *cval.Composite) cval.Value {
	for i := len(steps) - 1; i >= 0; i-- {
		parent := chain[i]
		s := steps[i]
		var err error
		if s.isIndex {
			newChild, err = parent.With(s.index, newChild)
		} else {
			newChild, err = parent.Set(s.key, newChild)
		}
		if err != nil {
			// The child is canonical in this realm and the position resolved
			// during the walk; rebuild cannot fail.
			panic(fmt.Sprintf("update: rebuild at %s: %v", steps[:i+1], err))
		}
	}
	return newChild
}

func pathErr(at Path, s Step, msg string) *cval.PathTypeError {
	step := s.String()
	if step == "." {
		step = "(value)"
	}
	return &cval.PathTypeError{Path: at.String(), Step: step, Message: msg}
}
