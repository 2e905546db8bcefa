package codec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/constable/internal/cval"
)

func TestDecodeJSONCanonical(t *testing.T) {
	r := cval.NewRealm()

	a, err := DecodeJSON(r, []byte(`{"a": 1, "b": [true, null, "x"]}`))
	require.NoError(t, err)
	b, err := DecodeJSON(r, []byte(`{"a": 1, "b": [true, null, "x"]}`))
	require.NoError(t, err)

	// Independent decodes of identical documents yield the same instance.
	assert.Same(t, a, b)
}

func TestDecodeJSONPreservesMemberOrder(t *testing.T) {
	r := cval.NewRealm()

	ab, err := DecodeJSON(r, []byte(`{"a":1,"b":2}`))
	require.NoError(t, err)
	ba, err := DecodeJSON(r, []byte(`{"b":2,"a":1}`))
	require.NoError(t, err)

	assert.NotSame(t, ab, ba)

	keys := ab.(*cval.Composite).Keys()
	k0, _ := keys.At(0)
	assert.Equal(t, cval.String("a"), k0)
}

func TestDecodeJSONMatchesProgrammaticConstruction(t *testing.T) {
	r := cval.NewRealm()

	decoded, err := DecodeJSON(r, []byte(`[1, {"x": "y"}]`))
	require.NoError(t, err)

	built := r.MustArray(
		cval.Number(1),
		r.MustObject(cval.Entry{Key: cval.StringKey("x"), Value: cval.String("y")}),
	)
	assert.Same(t, cval.Value(built), decoded)
}

func TestDecodeJSONScalars(t *testing.T) {
	r := cval.NewRealm()

	tests := []struct {
		in   string
		want cval.Value
	}{
		{`null`, cval.Null{}},
		{`true`, cval.Bool(true)},
		{`"s"`, cval.String("s")},
		{`42`, cval.Number(42)},
		{`2.5`, cval.Number(2.5)},
		{`-0.0`, cval.Number(math.Copysign(0, -1))},
	}
	for _, tt := range tests {
		got, err := DecodeJSON(r, []byte(tt.in))
		require.NoError(t, err, tt.in)
		assert.True(t, cval.StrictEquals(tt.want, got), tt.in)
	}
}

func TestDecodeJSONErrors(t *testing.T) {
	r := cval.NewRealm()

	_, err := DecodeJSON(r, []byte(`{"a":`))
	assert.Error(t, err)

	_, err = DecodeJSON(r, []byte(`1 2`))
	assert.Error(t, err)
}

func TestDecodeYAMLPreservesMemberOrder(t *testing.T) {
	r := cval.NewRealm()

	doc := []byte("name: cart\ncount: 5\nitems:\n  - 1\n  - two\n")
	v, err := DecodeYAML(r, doc)
	require.NoError(t, err)

	obj := v.(*cval.Composite)
	require.Equal(t, cval.KindObject, obj.Kind())
	assert.Equal(t, cval.StringKey("name"), obj.EntryAt(0).Key)
	assert.Equal(t, cval.StringKey("count"), obj.EntryAt(1).Key)
	assert.Equal(t, cval.StringKey("items"), obj.EntryAt(2).Key)

	count, _ := obj.Get(cval.StringKey("count"))
	assert.Equal(t, cval.Number(5), count)
}

func TestDecodeYAMLAlias(t *testing.T) {
	r := cval.NewRealm()

	doc := []byte("base: &b\n  x: 1\ncopy: *b\n")
	v, err := DecodeYAML(r, doc)
	require.NoError(t, err)

	obj := v.(*cval.Composite)
	base, _ := obj.Get(cval.StringKey("base"))
	copied, _ := obj.Get(cval.StringKey("copy"))
	// The alias decodes to the identical canonical instance.
	assert.Same(t, base, copied)
}

func TestDecodeYAMLAgreesWithJSON(t *testing.T) {
	r := cval.NewRealm()

	fromYAML, err := DecodeYAML(r, []byte("a: 1\nb: [true, null]\n"))
	require.NoError(t, err)
	fromJSON, err := DecodeJSON(r, []byte(`{"a":1,"b":[true,null]}`))
	require.NoError(t, err)

	assert.Same(t, fromJSON, fromYAML)
}

func TestDecodeYAMLRejectsNonStringKeys(t *testing.T) {
	r := cval.NewRealm()

	_, err := DecodeYAML(r, []byte("1: x\n"))
	require.Error(t, err)
	assert.True(t, cval.IsConstructionTypeError(err))
}

func TestEncodeRoundTrip(t *testing.T) {
	r := cval.NewRealm()
	doc := []byte(`{"name":"cart","items":[1,2.5,true,null,"x"],"nested":{"b":2,"a":1}}`)

	v, err := DecodeJSON(r, doc)
	require.NoError(t, err)

	out, err := Encode(v)
	require.NoError(t, err)
	assert.Equal(t, string(doc), string(out))

	// Decoding the encoding recovers the identical instance.
	back, err := DecodeJSON(r, out)
	require.NoError(t, err)
	assert.Same(t, v, back)
}

func TestEncodeDeterministic(t *testing.T) {
	r := cval.NewRealm()
	v := r.MustObject(
		cval.Entry{Key: cval.StringKey("z"), Value: cval.Number(1)},
		cval.Entry{Key: cval.StringKey("a"), Value: cval.Number(2)},
	)

	out, err := Encode(v)
	require.NoError(t, err)
	// Insertion order, not sorted order.
	assert.Equal(t, `{"z":1,"a":2}`, string(out))
}

func TestEncodeEscaping(t *testing.T) {
	out, err := Encode(cval.String("line\nbreak \"q\" <tag> & ok"))
	require.NoError(t, err)
	// Control characters and quotes escaped, no HTML escaping.
	assert.Equal(t, `"line\nbreak \"q\" <tag> & ok"`, string(out))
}

func TestEncodeUnrepresentable(t *testing.T) {
	r := cval.NewRealm()

	_, err := Encode(cval.Undefined{})
	assert.Error(t, err)

	_, err = Encode(cval.NewSymbol("s"))
	assert.Error(t, err)

	_, err = Encode(cval.Number(math.NaN()))
	assert.Error(t, err)

	sym := cval.NewSymbol("k")
	obj := r.MustObject(cval.Entry{Key: cval.SymbolKey(sym), Value: cval.Number(1)})
	_, err = Encode(obj)
	assert.Error(t, err)
}
