package mapper

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// StringCodec is the default codec for string entities
type StringCodec struct{}

func (StringCodec) Serialize(v any) ([]byte, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v)
	}
	return []byte(s), nil
}

func (StringCodec) ContentType() ContentType {
	return TextPlain
}

func (StringCodec) Deserialize(ct *ContentType, data []byte) (any, error) {
	return DecodeText(ct, data)
}

// JSONCodec encodes T as JSON and decodes JSON bodies into T. Decoding picks the
// charset from the declared content type the same way the string codec does.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Serialize(v any) ([]byte, error) {
	typed, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, TypeName(TypeOf[T]()), v)
	}
	return json.Marshal(typed)
}

func (JSONCodec[T]) ContentType() ContentType {
	return JSON
}

func (JSONCodec[T]) Deserialize(ct *ContentType, data []byte) (any, error) {
	text, err := DecodeText(ct, data)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("failed to decode json entity: %w", err)
	}
	return out, nil
}

// YAMLCodec encodes T as YAML and decodes YAML bodies into T
type YAMLCodec[T any] struct{}

func (YAMLCodec[T]) Serialize(v any) ([]byte, error) {
	typed, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, TypeName(TypeOf[T]()), v)
	}
	return yaml.Marshal(typed)
}

func (YAMLCodec[T]) ContentType() ContentType {
	return YAML
}

func (YAMLCodec[T]) Deserialize(_ *ContentType, data []byte) (any, error) {
	var out T
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode yaml entity: %w", err)
	}
	return out, nil
}

// UseJSON registers JSONCodec for T on m
func UseJSON[T any](m *Mapper) *Mapper {
	return Register[T](m, JSONCodec[T]{}, JSONCodec[T]{})
}

// UseYAML registers YAMLCodec for T on m
func UseYAML[T any](m *Mapper) *Mapper {
	return Register[T](m, YAMLCodec[T]{}, YAMLCodec[T]{})
}
