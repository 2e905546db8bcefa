package snapshot

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/roach88/constable/internal/cval"
)

// Save persists root and every composite reachable from it, post-order, and
// returns the root node's hash. Writes use ON CONFLICT DO NOTHING: content
// addressing makes saving idempotent, and a subtree already present - saved
// earlier, or shared with another root - costs one no-op insert.
func (s *Store) Save(ctx context.Context, root cval.Value) (string, error) {
	c, ok := root.(*cval.Composite)
	if !ok {
		return "", fmt.Errorf("save: root must be a composite, got %s", cval.DescribeValue(root))
	}

	// Memoized per call: shared subtrees are one canonical instance, so the
	// pointer is a complete identity key.
	memo := make(map[*cval.Composite]string)
	hash, err := s.saveNode(ctx, c, memo)
	if err != nil {
		return "", fmt.Errorf("save: %w", err)
	}
	return hash, nil
}

func (s *Store) saveNode(ctx context.Context, c *cval.Composite, memo map[*cval.Composite]string) (string, error) {
	if h, ok := memo[c]; ok {
		return h, nil
	}

	childHashes := make([]string, c.Len())
	for i := 0; i < c.Len(); i++ {
		v := memberAt(c, i)
		child, ok := v.(*cval.Composite)
		if !ok {
			continue
		}
		h, err := s.saveNode(ctx, child, memo)
		if err != nil {
			return "", err
		}
		childHashes[i] = h
	}

	kind, payload, err := encodeNode(c, childHashes)
	if err != nil {
		return "", err
	}
	hash := nodeHash(kind, payload)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (hash, kind, payload) VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, kind, string(payload))
	if err != nil {
		return "", fmt.Errorf("insert node: %w", err)
	}

	memo[c] = hash
	return hash, nil
}

// Load reconstructs the value stored under hash into the realm. Children
// load bottom-up and every rebuilt composite passes through the realm's
// canonical store, so repeated loads of one hash return the identical
// instance.
func (s *Store) Load(ctx context.Context, r *cval.Realm, hash string) (cval.Value, error) {
	memo := make(map[string]cval.Value)
	v, err := s.loadNode(ctx, r, hash, memo)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", shortHash(hash), err)
	}
	return v, nil
}

// LoadRoot loads the value pinned under a root name.
func (s *Store) LoadRoot(ctx context.Context, r *cval.Realm, name string) (cval.Value, error) {
	hash, err := s.Root(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, r, hash)
}

func (s *Store) loadNode(ctx context.Context, r *cval.Realm, hash string, memo map[string]cval.Value) (cval.Value, error) {
	if v, ok := memo[hash]; ok {
		return v, nil
	}

	var kind, payload string
	err := s.db.QueryRowContext(ctx, `SELECT kind, payload FROM nodes WHERE hash = ?`, hash).Scan(&kind, &payload)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("node not found")
	}
	if err != nil {
		return nil, err
	}

	var members [][]any
	if err := json.Unmarshal([]byte(payload), &members); err != nil {
		return nil, fmt.Errorf("corrupt payload: %w", err)
	}

	var built cval.Value
	if kind == "object" {
		entries := make([]cval.Entry, 0, len(members))
		for _, m := range members {
			if len(m) != 3 {
				return nil, fmt.Errorf("corrupt object member: %v", m)
			}
			key, ok := m[0].(string)
			if !ok {
				return nil, fmt.Errorf("corrupt object key: %v", m[0])
			}
			tag, _ := m[1].(string)
			v, err := s.loadMember(ctx, r, tag, m[2], memo)
			if err != nil {
				return nil, err
			}
			entries = append(entries, cval.Entry{Key: cval.StringKey(key), Value: v})
		}
		built, err = r.NewObject(entries)
	} else {
		vals := make([]cval.Value, 0, len(members))
		for _, m := range members {
			if len(m) != 2 {
				return nil, fmt.Errorf("corrupt array member: %v", m)
			}
			tag, _ := m[0].(string)
			v, err := s.loadMember(ctx, r, tag, m[1], memo)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		built, err = r.NewArray(vals)
	}
	if err != nil {
		return nil, err
	}

	memo[hash] = built
	return built, nil
}

func (s *Store) loadMember(ctx context.Context, r *cval.Realm, tag string, raw any, memo map[string]cval.Value) (cval.Value, error) {
	v, childHash, err := decodeMember(tag, raw)
	if err != nil {
		return nil, err
	}
	if childHash != "" {
		return s.loadNode(ctx, r, childHash, memo)
	}
	return v, nil
}

func memberAt(c *cval.Composite, i int) cval.Value {
	if c.Kind() == cval.KindObject {
		return c.EntryAt(i).Value
	}
	v, _ := c.At(i)
	return v
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
