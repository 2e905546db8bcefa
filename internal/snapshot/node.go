package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"

	"github.com/roach88/constable/internal/cval"
)

// Domain prefix for content-addressed node identity. Version suffix enables
// future format migration.
const domainNode = "constable/node/v1"

// Member tags used inside node payloads.
const (
	memUndefined = "u"
	memNull      = "z"
	memBool      = "b"
	memNumber    = "n"
	memString    = "s"
	memChild     = "c" // value is the child node's hash
)

// nodeHash computes the content-addressed hash for a node.
// Format: SHA256(domain + 0x00 + kind + 0x00 + payload). The null byte
// separators prevent boundary ambiguity.
func nodeHash(kind string, payload []byte) string {
	h := sha256.New()
	h.Write([]byte(domainNode))
	h.Write([]byte{0x00})
	h.Write([]byte(kind))
	h.Write([]byte{0x00})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// encodeNode serializes one composite's own level: primitives inline,
// composite children as hashes from childHashes, which is parallel to the
// composite's members. Object members encode as [key, tag, value], array
// members as [tag, value]. Symbols have no persistent identity and fail.
func encodeNode(c *cval.Composite, childHashes []string) (kind string, payload []byte, err error) {
	members := make([]any, 0, c.Len())
	if c.Kind() == cval.KindObject {
		kind = "object"
		for i := 0; i < c.Len(); i++ {
			e := c.EntryAt(i)
			if e.Key.IsSymbol() {
				return "", nil, fmt.Errorf("symbol key cannot be persisted")
			}
			tag, val, err := encodeMember(e.Value, childHashes[i])
			if err != nil {
				return "", nil, err
			}
			members = append(members, []any{e.Key.String(), tag, val})
		}
	} else {
		kind = "array"
		for i := 0; i < c.Len(); i++ {
			v, _ := c.At(i)
			tag, val, err := encodeMember(v, childHashes[i])
			if err != nil {
				return "", nil, err
			}
			members = append(members, []any{tag, val})
		}
	}
	payload, err = json.Marshal(members)
	if err != nil {
		return "", nil, fmt.Errorf("marshal node payload: %w", err)
	}
	return kind, payload, nil
}

func encodeMember(v cval.Value, childHash string) (string, any, error) {
	switch v := v.(type) {
	case cval.Undefined:
		return memUndefined, nil, nil
	case cval.Null:
		return memNull, nil, nil
	case cval.Bool:
		return memBool, bool(v), nil
	case cval.Number:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", nil, fmt.Errorf("non-finite number cannot be persisted")
		}
		return memNumber, f, nil
	case cval.String:
		return memString, string(v), nil
	case *cval.Symbol:
		return "", nil, fmt.Errorf("symbol cannot be persisted")
	case *cval.Composite:
		return memChild, childHash, nil
	default:
		return "", nil, fmt.Errorf("cannot persist %s", cval.DescribeValue(v))
	}
}

// decodeMember converts one payload member back into either a primitive or a
// child hash to recurse into.
func decodeMember(tag string, val any) (v cval.Value, childHash string, err error) {
	switch tag {
	case memUndefined:
		return cval.Undefined{}, "", nil
	case memNull:
		return cval.Null{}, "", nil
	case memBool:
		b, ok := val.(bool)
		if !ok {
			return nil, "", fmt.Errorf("corrupt bool member: %v", val)
		}
		return cval.Bool(b), "", nil
	case memNumber:
		f, ok := val.(float64)
		if !ok {
			return nil, "", fmt.Errorf("corrupt number member: %v", val)
		}
		return cval.Number(f), "", nil
	case memString:
		s, ok := val.(string)
		if !ok {
			return nil, "", fmt.Errorf("corrupt string member: %v", val)
		}
		return cval.String(s), "", nil
	case memChild:
		h, ok := val.(string)
		if !ok {
			return nil, "", fmt.Errorf("corrupt child reference: %v", val)
		}
		return nil, h, nil
	default:
		return nil, "", fmt.Errorf("unknown member tag %q", tag)
	}
}
