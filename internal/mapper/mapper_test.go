package mapper

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type widget struct {
	Name  string `json:"name" yaml:"name" codec:"name"`
	Count int    `json:"count" yaml:"count" codec:"count"`
}

func TestContentTypeOf(t *testing.T) {
	a := ContentTypeOf("Application/JSON; Charset=UTF-8")
	b := ContentTypeOf("application/json; charset=utf-8")

	assert.Equal(t, a, b)
	assert.Equal(t, JSON, a)
	assert.Equal(t, "application/json; charset=utf-8", a.String())
	assert.Equal(t, ContentType("application/json"), a.MediaType())

	set := map[ContentType]int{a: 1}
	assert.Equal(t, 1, set[b])
}

func TestNew_SeedsStringCodec(t *testing.T) {
	m := New()

	s, ok := m.Serializer(TypeOf[string]())
	require.True(t, ok)
	assert.Equal(t, TextPlain, s.ContentType())

	_, ok = m.Deserializer(TypeOf[string]())
	assert.True(t, ok)

	_, ok = NewEmpty().Serializer(TypeOf[string]())
	assert.False(t, ok)
}

func TestStringCodec_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		ct      ContentType
		charset Charset
		input   string
	}{
		{name: "utf-8", ct: TextPlain, charset: UTF8, input: "Unicorns are réal! ✓"},
		{name: "utf-16", ct: ContentTypeOf("text/plain; charset=UTF-16"), charset: UTF16, input: "héllo wörld ✓"},
		{name: "ascii fallback", ct: ContentTypeOf("text/plain"), charset: USASCII, input: "plain ascii text"},
		{name: "empty string", ct: TextPlain, charset: UTF8, input: ""},
	}

	codec := StringCodec{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct := tt.ct
			assert.Equal(t, tt.charset, CharsetOf(&ct))

			data, err := tt.charset.Encode(tt.input)
			require.NoError(t, err)

			out, err := codec.Deserialize(&ct, data)
			require.NoError(t, err)
			assert.Equal(t, tt.input, out)
		})
	}
}

func TestStringCodec_SerializeDeclaresUTF8(t *testing.T) {
	codec := StringCodec{}
	data, err := codec.Serialize("héllo")
	require.NoError(t, err)

	out, err := codec.Deserialize(codec.ContentType().Ptr(), data)
	require.NoError(t, err)
	assert.Equal(t, "héllo", out)

	_, err = codec.Serialize(42)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestCharsetOf(t *testing.T) {
	tests := []struct {
		name     string
		ct       *ContentType
		expected Charset
	}{
		{name: "nil content type", ct: nil, expected: USASCII},
		{name: "utf-8 parameter", ct: ContentTypeOf("text/html; charset=utf-8").Ptr(), expected: UTF8},
		{name: "utf-16 parameter", ct: ContentTypeOf("text/html; charset=UTF-16LE").Ptr(), expected: UTF16},
		{name: "substring anywhere", ct: ContentTypeOf("application/x-utf-8-thing").Ptr(), expected: UTF8},
		{name: "latin1 is not recognized", ct: ContentTypeOf("text/plain; charset=iso-8859-1").Ptr(), expected: USASCII},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CharsetOf(tt.ct))
		})
	}
}

func TestStringCodec_ReplacesMalformedInput(t *testing.T) {
	tests := []struct {
		name     string
		ct       *ContentType
		input    []byte
		expected string
	}{
		{name: "invalid utf-8 byte", ct: TextPlain.Ptr(), input: []byte{'a', 0xff, 'b'}, expected: "a\uFFFDb"},
		{name: "truncated utf-8 sequence", ct: TextPlain.Ptr(), input: []byte{'a', 0xE2, 0x82}, expected: "a\uFFFD"},
		{name: "valid utf-8 untouched", ct: TextPlain.Ptr(), input: []byte("réal ✓"), expected: "réal ✓"},
		{name: "high bytes as ascii", ct: nil, input: []byte{'a', 0xff, 'b'}, expected: "a\uFFFDb"},
	}

	codec := StringCodec{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := codec.Deserialize(tt.ct, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestJSONCodec_ReplacesMalformedUTF8(t *testing.T) {
	out, err := JSONCodec[string]{}.Deserialize(JSON.Ptr(), []byte{'"', 'x', 0xff, '"'})
	require.NoError(t, err)
	assert.Equal(t, "x\uFFFD", out)
}

func TestUSASCII_ReplacesHighBytes(t *testing.T) {
	out, err := USASCII.Decode([]byte{'a', 0xC3, 0xA9, 'b'})
	require.NoError(t, err)
	assert.Equal(t, "a��b", out)
}

func TestMapper_LastRegistrationWins(t *testing.T) {
	m := NewEmpty()
	first := SerializerFunc(TextPlain, func(s string) ([]byte, error) { return []byte("first"), nil })
	second := SerializerFunc(XML, func(s string) ([]byte, error) { return []byte("second"), nil })

	m.RegisterSerializer(TypeOf[string](), first).RegisterSerializer(TypeOf[string](), second)

	data, ct, err := m.Serialize("x")
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
	assert.Equal(t, XML, ct)
}

func TestMapper_SerializeMissingType(t *testing.T) {
	_, _, err := New().Serialize(widget{Name: "a"})
	require.Error(t, err)

	assert.ErrorIs(t, err, ErrNoSerializer)
	var typeErr *TypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, TypeOf[widget](), typeErr.Type)
	assert.Contains(t, err.Error(), "mapper.widget")
}

func TestMapper_ContentDeserializer(t *testing.T) {
	m := NewEmpty().RegisterContentDeserializer(ContentTypeOf("application/json"), DocumentCodec{})

	_, ok := m.ContentDeserializer(JSON)
	assert.True(t, ok, "media type fallback")

	_, ok = m.ContentDeserializer(XML)
	assert.False(t, ok)
}

func TestDeserializerFunc(t *testing.T) {
	d := DeserializerFunc(func(ct *ContentType, data []byte) (int, error) {
		return len(data), nil
	})
	out, err := d.Deserialize(nil, []byte("abcd"))
	require.NoError(t, err)
	assert.Equal(t, 4, out)

	failing := DeserializerFunc(func(ct *ContentType, data []byte) (int, error) {
		return 0, errors.New("boom")
	})
	_, err = failing.Deserialize(nil, nil)
	assert.EqualError(t, err, "boom")
}

func TestCodecs(t *testing.T) {
	in := widget{Name: "sprocket", Count: 3}

	tests := []struct {
		name  string
		codec interface {
			Serializer
			Deserializer
		}
		ct ContentType
	}{
		{name: "json", codec: JSONCodec[widget]{}, ct: JSON},
		{name: "yaml", codec: YAMLCodec[widget]{}, ct: YAML},
		{name: "cbor", codec: CBORCodec[widget]{}, ct: CBOR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ct, tt.codec.ContentType())

			data, err := tt.codec.Serialize(in)
			require.NoError(t, err)

			out, err := tt.codec.Deserialize(tt.ct.Ptr(), data)
			require.NoError(t, err)
			if diff := cmp.Diff(in, out); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}

			_, err = tt.codec.Serialize("not a widget")
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestJSONCodec_DecodesUTF16(t *testing.T) {
	data, err := UTF16.Encode(`{"name":"wïdget","count":1}`)
	require.NoError(t, err)

	out, err := JSONCodec[widget]{}.Deserialize(ContentTypeOf("application/json; charset=utf-16").Ptr(), data)
	require.NoError(t, err)
	assert.Equal(t, widget{Name: "wïdget", Count: 1}, out)
}

func TestUseHelpers(t *testing.T) {
	m := NewEmpty()
	UseJSON[widget](m)
	UseYAML[[]string](m)
	UseCBOR[map[string]int](m)

	for _, typ := range []any{widget{}, []string{}, map[string]int{}} {
		_, _, err := m.Serialize(typ)
		assert.NoError(t, err)
	}
}

func TestDocumentCodec(t *testing.T) {
	m := UseDocuments(New())

	d, ok := m.Deserializer(TypeOf[gjson.Result]())
	require.True(t, ok)

	out, err := d.Deserialize(JSON.Ptr(), []byte(`{"hello":"world"}`))
	require.NoError(t, err)
	assert.Equal(t, "world", out.(gjson.Result).Get("hello").String())

	_, err = d.Deserialize(nil, []byte("{nope"))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	data, ct, err := m.Serialize(gjson.Parse(`{"gson":true}`))
	require.NoError(t, err)
	assert.Equal(t, JSON, ct)
	assert.JSONEq(t, `{"gson":true}`, string(data))

	_, ok = m.ContentDeserializer(ContentTypeOf("application/json"))
	assert.True(t, ok)
}

func TestQuery(t *testing.T) {
	body := []byte(`{"users":[{"name":"ada"},{"name":"linus"}]}`)

	result, err := Query(body, "$.users.1.name")
	require.NoError(t, err)
	assert.Equal(t, "linus", result.String())

	_, err = Query(body, "users.5.name")
	assert.Error(t, err)

	_, err = Query([]byte("nope"), "a")
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestValidated(t *testing.T) {
	schema, err := CompileSchema("widget.json", `{
		"type": "object",
		"required": ["name"],
		"properties": {"name": {"type": "string"}, "count": {"type": "integer"}}
	}`)
	require.NoError(t, err)

	d := Validated(schema, JSONCodec[widget]{})

	out, err := d.Deserialize(JSON.Ptr(), []byte(`{"name":"ok","count":2}`))
	require.NoError(t, err)
	assert.Equal(t, widget{Name: "ok", Count: 2}, out)

	_, err = d.Deserialize(JSON.Ptr(), []byte(`{"count":2}`))
	assert.ErrorContains(t, err, "schema validation")

	_, err = d.Deserialize(JSON.Ptr(), []byte(`not json`))
	assert.ErrorIs(t, err, ErrInvalidJSON)

	_, err = CompileSchema("bad.json", `{"type": 12}`)
	assert.Error(t, err)
}
