package mapper

import (
	"fmt"

	"github.com/ugorji/go/codec"
)

// CBORCodec encodes T as CBOR and decodes CBOR bodies into T
type CBORCodec[T any] struct{}

func (CBORCodec[T]) Serialize(v any) ([]byte, error) {
	typed, ok := v.(T)
	if !ok {
		return nil, fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, TypeName(TypeOf[T]()), v)
	}
	var out []byte
	if err := codec.NewEncoderBytes(&out, &codec.CborHandle{}).Encode(typed); err != nil {
		return nil, fmt.Errorf("failed to encode cbor entity: %w", err)
	}
	return out, nil
}

func (CBORCodec[T]) ContentType() ContentType {
	return CBOR
}

func (CBORCodec[T]) Deserialize(_ *ContentType, data []byte) (any, error) {
	var out T
	if err := codec.NewDecoderBytes(data, &codec.CborHandle{}).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode cbor entity: %w", err)
	}
	return out, nil
}

// UseCBOR registers CBORCodec for T on m
func UseCBOR[T any](m *Mapper) *Mapper {
	return Register[T](m, CBORCodec[T]{}, CBORCodec[T]{})
}
