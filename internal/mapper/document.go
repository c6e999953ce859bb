package mapper

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON indicates a body that is not a JSON document
var ErrInvalidJSON = errors.New("invalid JSON document")

// DocumentCodec maps gjson.Result entities, for callers that query bodies by path
// instead of binding them to structs.
type DocumentCodec struct{}

func (DocumentCodec) Serialize(v any) ([]byte, error) {
	doc, ok := v.(gjson.Result)
	if !ok {
		return nil, fmt.Errorf("%w: expected gjson.Result, got %T", ErrTypeMismatch, v)
	}
	if !gjson.Valid(doc.Raw) {
		return nil, ErrInvalidJSON
	}
	return []byte(doc.Raw), nil
}

func (DocumentCodec) ContentType() ContentType {
	return JSON
}

func (DocumentCodec) Deserialize(ct *ContentType, data []byte) (any, error) {
	text, err := DecodeText(ct, data)
	if err != nil {
		return nil, err
	}
	if !gjson.Valid(text) {
		return nil, ErrInvalidJSON
	}
	return gjson.Parse(text), nil
}

// UseDocuments registers DocumentCodec for gjson.Result on m, and as the
// deserializer for JSON content
func UseDocuments(m *Mapper) *Mapper {
	Register[gjson.Result](m, DocumentCodec{}, DocumentCodec{})
	return m.RegisterContentDeserializer(JSON.MediaType(), DocumentCodec{})
}

// Query extracts the value at path from a JSON body.
// Paths use gjson syntax; a leading "$." is accepted and stripped.
func Query(body []byte, path string) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, ErrInvalidJSON
	}
	path = strings.TrimPrefix(strings.TrimPrefix(path, "$"), ".")
	result := gjson.GetBytes(body, path)
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("path not found: %s", path)
	}
	return result, nil
}

// CompileSchema compiles a JSON schema document
func CompileSchema(name, source string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return schema, nil
}

// Validated wraps d so that bodies are checked against schema before decoding
func Validated(schema *jsonschema.Schema, d Deserializer) Deserializer {
	return &validatingDeserializer{schema: schema, next: d}
}

type validatingDeserializer struct {
	schema *jsonschema.Schema
	next   Deserializer
}

func (v *validatingDeserializer) Deserialize(ct *ContentType, data []byte) (any, error) {
	text, err := DecodeText(ct, data)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("entity failed schema validation: %w", err)
	}
	return v.next.Deserialize(ct, data)
}
