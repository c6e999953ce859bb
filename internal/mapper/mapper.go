// Package mapper holds the entity serialization registry used to turn request
// entities into bytes and response bytes back into typed values.
//
// Registration is not synchronized. Register every codec before the mapper is
// shared between concurrent exchanges; lookups are safe for concurrent use after that.
package mapper

import (
	"fmt"
	"reflect"
)

// Serializer turns an entity into bytes of a declared content type
type Serializer interface {
	Serialize(v any) ([]byte, error)
	ContentType() ContentType
}

// Deserializer turns body bytes into an entity. ct is nil when the response did not
// declare a content type.
type Deserializer interface {
	Deserialize(ct *ContentType, data []byte) (any, error)
}

// Mapper is a registry of serializers and deserializers keyed by entity type
type Mapper struct {
	serializers   map[reflect.Type]Serializer
	deserializers map[reflect.Type]Deserializer
	byContentType map[ContentType]Deserializer
}

// NewEmpty creates a mapper with no registered codecs
func NewEmpty() *Mapper {
	return &Mapper{
		serializers:   make(map[reflect.Type]Serializer),
		deserializers: make(map[reflect.Type]Deserializer),
		byContentType: make(map[ContentType]Deserializer),
	}
}

// New creates a mapper seeded with the string codec
func New() *Mapper {
	m := NewEmpty()
	Register[string](m, StringCodec{}, StringCodec{})
	return m
}

// TypeOf returns the type token for T
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterSerializer associates t with s, replacing any earlier registration
func (m *Mapper) RegisterSerializer(t reflect.Type, s Serializer) *Mapper {
	m.serializers[t] = s
	return m
}

// RegisterDeserializer associates t with d, replacing any earlier registration
func (m *Mapper) RegisterDeserializer(t reflect.Type, d Deserializer) *Mapper {
	m.deserializers[t] = d
	return m
}

// RegisterContentDeserializer associates a content type with d
func (m *Mapper) RegisterContentDeserializer(ct ContentType, d Deserializer) *Mapper {
	m.byContentType[ct] = d
	return m
}

// Serializer returns the serializer registered for t
func (m *Mapper) Serializer(t reflect.Type) (Serializer, bool) {
	s, ok := m.serializers[t]
	return s, ok
}

// Deserializer returns the deserializer registered for t
func (m *Mapper) Deserializer(t reflect.Type) (Deserializer, bool) {
	d, ok := m.deserializers[t]
	return d, ok
}

// ContentDeserializer returns the deserializer registered for ct. An exact match on
// the full content type wins over a match on its media type.
func (m *Mapper) ContentDeserializer(ct ContentType) (Deserializer, bool) {
	if d, ok := m.byContentType[ct]; ok {
		return d, true
	}
	d, ok := m.byContentType[ct.MediaType()]
	return d, ok
}

// Serialize encodes v with the serializer registered for its dynamic type
func (m *Mapper) Serialize(v any) ([]byte, ContentType, error) {
	t := reflect.TypeOf(v)
	s, ok := m.Serializer(t)
	if !ok {
		return nil, "", NewTypeError(t, ErrNoSerializer)
	}
	data, err := s.Serialize(v)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize %s: %w", TypeName(t), err)
	}
	return data, s.ContentType(), nil
}

// Register installs s and d for T. Either may be nil to leave that side untouched.
func Register[T any](m *Mapper, s Serializer, d Deserializer) *Mapper {
	t := TypeOf[T]()
	if s != nil {
		m.RegisterSerializer(t, s)
	}
	if d != nil {
		m.RegisterDeserializer(t, d)
	}
	return m
}

// SerializerFunc adapts a typed function to a Serializer declaring ct
func SerializerFunc[T any](ct ContentType, fn func(T) ([]byte, error)) Serializer {
	return serializerFunc[T]{ct: ct, fn: fn}
}

type serializerFunc[T any] struct {
	ct ContentType
	fn func(T) ([]byte, error)
}

func (s serializerFunc[T]) Serialize(v any) ([]byte, error) {
	typed, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, TypeName(TypeOf[T]()), v)
	}
	return s.fn(typed)
}

func (s serializerFunc[T]) ContentType() ContentType {
	return s.ct
}

// DeserializerFunc adapts a typed function to a Deserializer
func DeserializerFunc[T any](fn func(ct *ContentType, data []byte) (T, error)) Deserializer {
	return deserializerFunc[T](fn)
}

type deserializerFunc[T any] func(ct *ContentType, data []byte) (T, error)

func (d deserializerFunc[T]) Deserialize(ct *ContentType, data []byte) (any, error) {
	v, err := d(ct, data)
	if err != nil {
		return nil, err
	}
	return v, nil
}
