package client

import (
	"context"

	"github.com/brizzai/httpmapper/internal/headers"
	"github.com/brizzai/httpmapper/internal/logger"
	"github.com/brizzai/httpmapper/internal/mapper"
	"github.com/brizzai/httpmapper/internal/requester"
	"go.uber.org/zap"
)

// ResponseHandler consumes a response. A returned error becomes the outcome of
// Execute.
type ResponseHandler func(resp *requester.Response) error

// FailureHandler consumes failures that would otherwise be returned by Execute
type FailureHandler func(err error)

// Dispatch accumulates per-request overrides and handlers. It is not safe for
// concurrent use and should be executed once.
type Dispatch struct {
	client      *Client
	method      requester.Method
	builder     *requester.Builder
	handlers    map[int]ResponseHandler
	remaining   ResponseHandler
	onException FailureHandler
	err         error
}

func newDispatch(c *Client, method requester.Method) *Dispatch {
	builder := requester.NewBuilder().
		WithMethod(method).
		WithMapper(c.Mapper()).
		WithHTTPClient(c.settings.httpClient).
		WithObserver(c.settings.observer)
	return &Dispatch{
		client:    c,
		method:    method,
		builder:   builder,
		handlers:  make(map[int]ResponseHandler),
		remaining: func(*requester.Response) error { return nil },
	}
}

// Method returns the request method
func (d *Dispatch) Method() requester.Method {
	return d.method
}

// Headers returns the request headers gathered so far
func (d *Dispatch) Headers() *headers.Headers {
	return d.builder.Headers()
}

// Err returns the resolution error recorded for this dispatch, if any
func (d *Dispatch) Err() error {
	return d.err
}

// WithInput sets the function producing the request entity
func (d *Dispatch) WithInput(input func() any) *Dispatch {
	if input == nil {
		d.builder.WithInput(nil)
		return d
	}
	return d.WithInputFunc(func() (any, error) {
		return input(), nil
	})
}

// WithInputFunc sets a request entity producer that may fail
func (d *Dispatch) WithInputFunc(input requester.InputFunc) *Dispatch {
	d.builder.WithInput(input)
	return d
}

// WithMapper overrides the entity mapper for this request
func (d *Dispatch) WithMapper(m *mapper.Mapper) *Dispatch {
	if m != nil {
		d.builder.WithMapper(m)
	}
	return d
}

// WithHeader adds a request header. Repeated names are sent as one
// comma-joined line.
func (d *Dispatch) WithHeader(name, value string) *Dispatch {
	d.builder.WithHeader(name, value)
	return d
}

// OnStatus registers the handler for an exact status code, replacing any earlier one
func (d *Dispatch) OnStatus(code int, handler ResponseHandler) *Dispatch {
	if handler != nil {
		d.handlers[code] = handler
	}
	return d
}

// OnRemaining registers the handler for statuses without an exact handler
func (d *Dispatch) OnRemaining(handler ResponseHandler) *Dispatch {
	if handler != nil {
		d.remaining = handler
	}
	return d
}

// OnException registers the failure handler. Once set, transport and handler
// failures go to it and Execute returns neither a response nor an error for them.
func (d *Dispatch) OnException(handler FailureHandler) *Dispatch {
	d.onException = handler
	return d
}

// Execute runs the decorators, performs the exchange and dispatches the response to
// the handler registered for its status code, or to the remaining handler.
//
// Without a failure handler, transport failures and handler errors are returned.
// With one, they are delivered to it and Execute returns nil, nil.
func (d *Dispatch) Execute(ctx context.Context) (*requester.Response, error) {
	if d.err != nil {
		return nil, d.err
	}

	for _, decorate := range d.client.settings.decorators {
		decorate(d)
	}

	var captured error
	if d.onException != nil {
		d.builder.OnFailure(requester.FailureFunc(d.onException))
	} else {
		d.builder.OnFailure(func(err error) {
			captured = err
		})
	}

	req, err := d.builder.Build()
	if err != nil {
		return nil, err
	}

	resp := req.Execute(ctx)
	if resp != nil {
		handler, exact := d.handlers[resp.StatusCode()]
		if !exact {
			handler = d.remaining
		}
		logger.Debug("dispatching response",
			zap.String("method", d.method.String()),
			zap.String("url", req.URL().String()),
			zap.Int("status", resp.StatusCode()),
			zap.Bool("exact_handler", exact),
		)
		if err := handler(resp); err != nil {
			if d.onException != nil {
				d.onException(err)
				return nil, nil
			}
			return nil, err
		}
	}

	if captured != nil {
		return nil, captured
	}
	return resp, nil
}
