package requester

import (
	"net/http"
	"net/url"
	"time"

	"github.com/brizzai/httpmapper/internal/headers"
	"github.com/brizzai/httpmapper/internal/logger"
	"github.com/brizzai/httpmapper/internal/mapper"
	"go.uber.org/zap"
)

// DefaultReadTimeout bounds a single exchange when no client is supplied
const DefaultReadTimeout = time.Hour

// Builder collects the parts of a request. It is consumed by Build.
type Builder struct {
	method    Method
	url       *url.URL
	headers   *headers.Headers
	input     InputFunc
	mapper    *mapper.Mapper
	onFailure FailureFunc
	client    *http.Client
	observer  Observer
}

// NewBuilder creates an empty request builder. Failures are logged unless OnFailure
// installs another sink.
func NewBuilder() *Builder {
	return &Builder{
		headers:   headers.New(),
		onFailure: logFailure,
	}
}

func logFailure(err error) {
	logger.Error("request failed", zap.Error(err))
}

// NewHTTPClient creates the transport client used for exchanges
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &http.Client{Timeout: timeout}
}

// WithMethod sets the request method
func (b *Builder) WithMethod(method Method) *Builder {
	b.method = method
	return b
}

// WithURL sets the fully resolved request URL
func (b *Builder) WithURL(u *url.URL) *Builder {
	b.url = u
	return b
}

// WithHeader adds a header value. Repeated names accumulate.
func (b *Builder) WithHeader(name, value string) *Builder {
	b.headers.Add(name, value)
	return b
}

// WithInput sets the function producing the request entity
func (b *Builder) WithInput(input InputFunc) *Builder {
	b.input = input
	return b
}

// WithMapper sets the entity mapper
func (b *Builder) WithMapper(m *mapper.Mapper) *Builder {
	b.mapper = m
	return b
}

// OnFailure sets the sink receiving exchange failures
func (b *Builder) OnFailure(fn FailureFunc) *Builder {
	if fn != nil {
		b.onFailure = fn
	}
	return b
}

// WithHTTPClient sets the transport client
func (b *Builder) WithHTTPClient(client *http.Client) *Builder {
	b.client = client
	return b
}

// WithObserver sets the exchange observer
func (b *Builder) WithObserver(o Observer) *Builder {
	b.observer = o
	return b
}

// Headers returns the headers gathered so far
func (b *Builder) Headers() *headers.Headers {
	return b.headers
}

// Build validates the collected parts and returns the request
func (b *Builder) Build() (*Request, error) {
	if b.method == "" {
		return nil, ErrMissingMethod
	}
	if b.url == nil {
		return nil, ErrMissingURL
	}
	if b.mapper == nil {
		return nil, ErrMissingMapper
	}
	client := b.client
	if client == nil {
		client = NewHTTPClient(DefaultReadTimeout)
	}
	return &Request{
		method:    b.method,
		url:       b.url,
		headers:   b.headers.Clone(),
		input:     b.input,
		mapper:    b.mapper,
		onFailure: b.onFailure,
		client:    client,
		observer:  b.observer,
	}, nil
}
