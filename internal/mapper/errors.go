package mapper

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNoSerializer indicates no serializer is registered for an entity type
	ErrNoSerializer = errors.New("there is no registered serializer")
	// ErrNoDeserializer indicates no deserializer is registered for an entity type
	ErrNoDeserializer = errors.New("could not deserialize response")
	// ErrTypeMismatch indicates a codec was handed a value of the wrong type
	ErrTypeMismatch = errors.New("entity type mismatch")
)

// TypeError reports a mapping failure for a specific entity type
type TypeError struct {
	Type reflect.Type
	Err  error
}

// NewTypeError wraps err with the name of t
func NewTypeError(t reflect.Type, err error) *TypeError {
	return &TypeError{Type: t, Err: err}
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%v for type '%s'", e.Err, TypeName(e.Type))
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// TypeName returns a printable name for t
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
