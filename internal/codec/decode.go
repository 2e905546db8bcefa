package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/roach88/constable/internal/cval"
)

// DecodeJSON parses a JSON literal document into a canonical value in the
// realm. Object member order is preserved - the document is walked by token
// stream, never through a Go map - so {"a":1,"b":2} and {"b":2,"a":1} decode
// to distinct canonical values.
//
// Numbers decode as host numbers (float64). Construction is bottom-up and
// depth-first; the first inadmissible member fails the whole decode with
// ConstructionTypeError and nothing is registered beyond already-canonical
// subtrees.
func DecodeJSON(r *cval.Realm, data []byte) (cval.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeTokens(r, dec, "")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("decode json: trailing data after document")
	}
	return v, nil
}

func decodeTokens(r *cval.Realm, dec *json.Decoder, path string) (cval.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode json at %s: %w", pathOrRoot(path), err)
	}
	return decodeToken(r, dec, tok, path)
}

func decodeToken(r *cval.Realm, dec *json.Decoder, tok json.Token, path string) (cval.Value, error) {
	switch tok := tok.(type) {
	case nil:
		return cval.Null{}, nil
	case bool:
		return cval.Bool(tok), nil
	case string:
		return cval.String(tok), nil
	case json.Number:
		f, err := tok.Float64()
		if err != nil {
			return nil, fmt.Errorf("decode json at %s: %w", pathOrRoot(path), err)
		}
		return cval.Number(f), nil
	case json.Delim:
		switch tok {
		case '[':
			return decodeArray(r, dec, path)
		case '{':
			return decodeObject(r, dec, path)
		default:
			return nil, fmt.Errorf("decode json at %s: unexpected %q", pathOrRoot(path), tok.String())
		}
	default:
		return nil, fmt.Errorf("decode json at %s: unexpected token %v", pathOrRoot(path), tok)
	}
}

func decodeArray(r *cval.Realm, dec *json.Decoder, path string) (cval.Value, error) {
	var vals []cval.Value
	for i := 0; dec.More(); i++ {
		v, err := decodeTokens(r, dec, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if _, err := dec.Token(); err != nil { // consume ']'
		return nil, fmt.Errorf("decode json at %s: %w", pathOrRoot(path), err)
	}
	return r.NewArray(vals)
}

func decodeObject(r *cval.Realm, dec *json.Decoder, path string) (cval.Value, error) {
	var entries []cval.Entry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode json at %s: %w", pathOrRoot(path), err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("decode json at %s: object key is not a string", pathOrRoot(path))
		}
		v, err := decodeTokens(r, dec, path+"."+key)
		if err != nil {
			return nil, err
		}
		entries = append(entries, cval.Entry{Key: cval.StringKey(key), Value: v})
	}
	if _, err := dec.Token(); err != nil { // consume '}'
		return nil, fmt.Errorf("decode json at %s: %w", pathOrRoot(path), err)
	}
	return r.NewObject(entries)
}
