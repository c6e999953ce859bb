package requester

import (
	"fmt"
	"reflect"

	"github.com/brizzai/httpmapper/internal/headers"
	"github.com/brizzai/httpmapper/internal/mapper"
)

// Response is the immutable result of an exchange. Entities are decoded on every
// call; nothing is cached.
type Response struct {
	statusCode int
	status     string
	headers    *headers.Headers
	mapper     *mapper.Mapper
	body       []byte
}

// NewResponse creates a response. A nil body is stored as an empty one.
func NewResponse(statusCode int, status string, h *headers.Headers, m *mapper.Mapper, body []byte) *Response {
	if h == nil {
		h = headers.New()
	}
	if body == nil {
		body = []byte{}
	}
	return &Response{
		statusCode: statusCode,
		status:     status,
		headers:    h,
		mapper:     m,
		body:       body,
	}
}

// StatusCode returns the numeric status
func (r *Response) StatusCode() int {
	return r.statusCode
}

// Status returns the reason phrase, e.g. "OK"
func (r *Response) Status() string {
	return r.status
}

// Headers returns a copy of the response headers
func (r *Response) Headers() *headers.Headers {
	return r.headers.Clone()
}

// RawBody returns a copy of the response body
func (r *Response) RawBody() []byte {
	out := make([]byte, len(r.body))
	copy(out, r.body)
	return out
}

// IsSuccess reports whether the status is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// ContentType returns the declared content type, or nil when the response has none
func (r *Response) ContentType() *mapper.ContentType {
	if !r.headers.Has("Content-Type") {
		return nil
	}
	return mapper.ContentTypeOf(r.headers.GetLast("Content-Type", "")).Ptr()
}

// Entity decodes the body with the deserializer registered for t.
// Deserializer errors are returned as they are.
func (r *Response) Entity(t reflect.Type) (any, error) {
	if r.mapper == nil {
		return nil, mapper.NewTypeError(t, mapper.ErrNoDeserializer)
	}
	d, ok := r.mapper.Deserializer(t)
	if !ok {
		return nil, mapper.NewTypeError(t, mapper.ErrNoDeserializer)
	}
	return d.Deserialize(r.ContentType(), r.body)
}

// ContentEntity decodes the body with the deserializer registered for the declared
// content type
func (r *Response) ContentEntity() (any, error) {
	ct := r.ContentType()
	if ct == nil || r.mapper == nil {
		return nil, ErrUnknownContentType
	}
	d, ok := r.mapper.ContentDeserializer(*ct)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, ct)
	}
	return d.Deserialize(ct, r.body)
}

// EntityAs decodes the body of r as T
func EntityAs[T any](r *Response) (T, error) {
	var zero T
	v, err := r.Entity(mapper.TypeOf[T]())
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: deserializer returned %T", mapper.ErrTypeMismatch, v)
	}
	return typed, nil
}
