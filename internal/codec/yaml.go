package codec

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roach88/constable/internal/cval"
)

// DecodeYAML parses a YAML literal document into a canonical value in the
// realm. The document is walked through yaml.Node so that mapping member
// order is preserved. Mapping keys must be strings; aliases resolve to their
// anchored node.
func DecodeYAML(r *cval.Realm, data []byte) (cval.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("decode yaml: expected a single document")
	}
	return decodeNode(r, doc.Content[0], "")
}

// FromYAMLNode converts an already-parsed YAML node into a canonical value.
// Used by callers that embed literal values inside larger YAML documents,
// such as update scripts.
func FromYAMLNode(r *cval.Realm, n *yaml.Node) (cval.Value, error) {
	return decodeNode(r, n, "")
}

func decodeNode(r *cval.Realm, n *yaml.Node, path string) (cval.Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeNode(r, n.Alias, path)
	case yaml.ScalarNode:
		return decodeScalar(n, path)
	case yaml.SequenceNode:
		vals := make([]cval.Value, len(n.Content))
		for i, elem := range n.Content {
			v, err := decodeNode(r, elem, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		return r.NewArray(vals)
	case yaml.MappingNode:
		entries := make([]cval.Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode || keyNode.Tag != "!!str" {
				return nil, &cval.ConstructionTypeError{
					Path: pathOrRoot(path),
					Got:  "non-string mapping key",
				}
			}
			v, err := decodeNode(r, valNode, path+"."+keyNode.Value)
			if err != nil {
				return nil, err
			}
			entries = append(entries, cval.Entry{Key: cval.StringKey(keyNode.Value), Value: v})
		}
		return r.NewObject(entries)
	default:
		return nil, fmt.Errorf("decode yaml at %s: unsupported node kind %d", pathOrRoot(path), n.Kind)
	}
}

func decodeScalar(n *yaml.Node, path string) (cval.Value, error) {
	switch n.Tag {
	case "!!null":
		return cval.Null{}, nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			return nil, fmt.Errorf("decode yaml at %s: %w", pathOrRoot(path), err)
		}
		return cval.Bool(b), nil
	case "!!int":
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("decode yaml at %s: %w", pathOrRoot(path), err)
		}
		return cval.Number(i), nil
	case "!!float":
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("decode yaml at %s: %w", pathOrRoot(path), err)
		}
		return cval.Number(f), nil
	case "!!str":
		return cval.String(n.Value), nil
	default:
		return nil, &cval.ConstructionTypeError{
			Path: pathOrRoot(path),
			Got:  fmt.Sprintf("yaml %s scalar", n.Tag),
		}
	}
}
