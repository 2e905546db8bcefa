package codec

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/constable/internal/cval"
)

// Encode produces deterministic JSON for a canonical value.
//
// Properties:
//  1. Object members appear in insertion order - order is significant for
//     const objects, so keys are deliberately NOT sorted.
//  2. Strings are NFC normalized.
//  3. No HTML escaping (< > & are not escaped).
//  4. Symbols, undefined, NaN, and infinities have no JSON representation
//     and return an error.
//
// Two strictly equal values always encode to identical bytes.
func Encode(v cval.Value) ([]byte, error) {
	return appendValue(nil, v, "")
}

func appendValue(buf []byte, v cval.Value, path string) ([]byte, error) {
	switch v := v.(type) {
	case cval.Null:
		return append(buf, "null"...), nil
	case cval.Bool:
		if v {
			return append(buf, "true"...), nil
		}
		return append(buf, "false"...), nil
	case cval.Number:
		return appendNumber(buf, float64(v), path)
	case cval.String:
		return appendString(buf, string(v)), nil
	case *cval.Composite:
		if v.Kind() == cval.KindArray {
			return appendArray(buf, v, path)
		}
		return appendObject(buf, v, path)
	default:
		return nil, fmt.Errorf("encode %s: %s has no JSON representation", pathOrRoot(path), cval.DescribeValue(v))
	}
}

func appendNumber(buf []byte, f float64, path string) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("encode %s: non-finite number has no JSON representation", pathOrRoot(path))
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.AppendInt(buf, int64(f), 10), nil
	}
	return strconv.AppendFloat(buf, f, 'g', -1, 64), nil
}

// appendString writes a JSON string: NFC normalized, minimal escaping only -
// quote, backslash, and control characters. No HTML escaping.
func appendString(buf []byte, s string) []byte {
	s = norm.NFC.String(s)
	buf = append(buf, '"')
	for _, b := range []byte(s) {
		switch {
		case b == '"':
			buf = append(buf, '\\', '"')
		case b == '\\':
			buf = append(buf, '\\', '\\')
		case b == '\n':
			buf = append(buf, '\\', 'n')
		case b == '\r':
			buf = append(buf, '\\', 'r')
		case b == '\t':
			buf = append(buf, '\\', 't')
		case b == '\b':
			buf = append(buf, '\\', 'b')
		case b == '\f':
			buf = append(buf, '\\', 'f')
		case b < 0x20:
			buf = append(buf, fmt.Sprintf("\\u%04x", b)...)
		default:
			buf = append(buf, b)
		}
	}
	return append(buf, '"')
}

func appendArray(buf []byte, c *cval.Composite, path string) ([]byte, error) {
	buf = append(buf, '[')
	var err error
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		v, _ := c.At(i)
		buf, err = appendValue(buf, v, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
	}
	return append(buf, ']'), nil
}

func appendObject(buf []byte, c *cval.Composite, path string) ([]byte, error) {
	buf = append(buf, '{')
	var err error
	for i := 0; i < c.Len(); i++ {
		if i > 0 {
			buf = append(buf, ',')
		}
		e := c.EntryAt(i)
		if e.Key.IsSymbol() {
			return nil, fmt.Errorf("encode %s: symbol key has no JSON representation", pathOrRoot(path))
		}
		buf = appendString(buf, e.Key.String())
		buf = append(buf, ':')
		buf, err = appendValue(buf, e.Value, path+"."+e.Key.String())
		if err != nil {
			return nil, err
		}
	}
	return append(buf, '}'), nil
}

func pathOrRoot(p string) string {
	if p == "" {
		return "root"
	}
	return p
}
