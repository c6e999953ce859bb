package mapper

import "strings"

// ContentType is a lower-cased MIME type token. Equal strings are interchangeable.
type ContentType string

// Common content types
var (
	JSON      = ContentTypeOf("application/json; charset=UTF-8")
	XML       = ContentTypeOf("application/xml")
	YAML      = ContentTypeOf("application/yaml")
	CBOR      = ContentTypeOf("application/cbor")
	TextPlain = ContentTypeOf("text/plain; charset=UTF-8")
	Wildcard  = ContentTypeOf("application/*")
)

// ContentTypeOf normalizes the case of s and returns the matching content type
func ContentTypeOf(s string) ContentType {
	return ContentType(strings.ToLower(s))
}

// String returns the normalized MIME string
func (c ContentType) String() string {
	return string(c)
}

// MediaType returns the type/subtype part without parameters
func (c ContentType) MediaType() ContentType {
	s := string(c)
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return ContentType(strings.TrimSpace(s))
}

// Ptr returns a pointer to a copy of c, for deserializer calls with a declared type
func (c ContentType) Ptr() *ContentType {
	return &c
}
