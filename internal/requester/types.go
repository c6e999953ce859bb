package requester

import (
	"errors"
	"time"
)

var (
	// ErrMissingMethod indicates a request was built without a method
	ErrMissingMethod = errors.New("no method was supplied")
	// ErrMissingURL indicates a request was built without a URL
	ErrMissingURL = errors.New("no URL was supplied")
	// ErrMissingMapper indicates a request was built without an entity mapper
	ErrMissingMapper = errors.New("no mapper was supplied")
	// ErrUnsupportedMethod indicates a method name outside the supported set
	ErrUnsupportedMethod = errors.New("unsupported method")
	// ErrUnknownContentType indicates a response whose content type has no
	// registered deserializer
	ErrUnknownContentType = errors.New("no deserializer for response content type")
)

// InputFunc lazily produces the request entity. A nil entity means no body.
type InputFunc func() (any, error)

// FailureFunc receives failures raised while performing an exchange
type FailureFunc func(err error)

// Observer is notified once per exchange. status is zero when no response was
// received.
type Observer interface {
	ObserveExchange(method, host string, status int, elapsed time.Duration, err error)
}
