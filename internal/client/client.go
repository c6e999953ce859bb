// Package client exposes the request builder callers use to issue requests,
// decode entities and dispatch responses by status code.
package client

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/brizzai/httpmapper/internal/mapper"
	"github.com/brizzai/httpmapper/internal/requester"
)

var (
	// ErrInvalidURL indicates a request path that does not resolve to an absolute URL
	ErrInvalidURL = errors.New("invalid request URL")
	// ErrMissingPathParam indicates a route path parameter without a value
	ErrMissingPathParam = errors.New("missing path parameter")
)

// Decorator mutates every dispatch before it executes
type Decorator func(d *Dispatch)

// Settings holds the client-wide configuration shared by every dispatch
type Settings struct {
	baseURL    string
	mapper     *mapper.Mapper
	decorators []Decorator
	httpClient *http.Client
	observer   requester.Observer
}

// BaseURL returns the base URL without a trailing slash
func (s *Settings) BaseURL() string {
	return s.baseURL
}

// Decorators returns a copy of the registered decorators in registration order
func (s *Settings) Decorators() []Decorator {
	return append([]Decorator(nil), s.decorators...)
}

// Client creates dispatches against a base URL
type Client struct {
	settings *Settings
	mapper   *mapper.Mapper
}

// Builder configures a Client
type Builder struct {
	settings *Settings
}

// NewBuilder creates a client builder with an empty base URL
func NewBuilder() *Builder {
	return &Builder{settings: &Settings{}}
}

// WithBaseURL sets the URL request paths are appended to. One trailing slash is
// removed.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.settings.baseURL = strings.TrimSuffix(baseURL, "/")
	return b
}

// WithMapper sets the mapper used by every dispatch. Nil falls back to the
// client's own mapper.
func (b *Builder) WithMapper(m *mapper.Mapper) *Builder {
	b.settings.mapper = m
	return b
}

// WithDecorator appends a decorator. Decorators run in registration order.
func (b *Builder) WithDecorator(d Decorator) *Builder {
	if d != nil {
		b.settings.decorators = append(b.settings.decorators, d)
	}
	return b
}

// WithHTTPClient sets the transport client
func (b *Builder) WithHTTPClient(c *http.Client) *Builder {
	b.settings.httpClient = c
	return b
}

// WithObserver sets the exchange observer
func (b *Builder) WithObserver(o requester.Observer) *Builder {
	b.settings.observer = o
	return b
}

// Build creates the client
func (b *Builder) Build() *Client {
	settings := *b.settings
	settings.decorators = b.settings.Decorators()
	return &Client{
		settings: &settings,
		mapper:   mapper.New(),
	}
}

// Mapper returns the mapper used by dispatches of this client
func (c *Client) Mapper() *mapper.Mapper {
	if c.settings.mapper != nil {
		return c.settings.mapper
	}
	return c.mapper
}

// Settings returns the client settings
func (c *Client) Settings() *Settings {
	return c.settings
}

// Get starts a GET dispatch for path. Check Err on the result for resolution errors.
func (c *Client) Get(path string) *Dispatch {
	return c.Request(requester.MethodGet, path)
}

// Post starts a POST dispatch for path
func (c *Client) Post(path string) *Dispatch {
	return c.Request(requester.MethodPost, path)
}

// Put starts a PUT dispatch for path
func (c *Client) Put(path string) *Dispatch {
	return c.Request(requester.MethodPut, path)
}

// Patch starts a PATCH dispatch for path
func (c *Client) Patch(path string) *Dispatch {
	return c.Request(requester.MethodPatch, path)
}

// Head starts a HEAD dispatch for path
func (c *Client) Head(path string) *Dispatch {
	return c.Request(requester.MethodHead, path)
}

// Delete starts a DELETE dispatch for path
func (c *Client) Delete(path string) *Dispatch {
	return c.Request(requester.MethodDelete, path)
}

// Request starts a dispatch for method and path. A path that does not resolve to an
// absolute URL is reported right away by the dispatch's Err, before any handler is
// configured, and makes Execute fail with ErrInvalidURL.
func (c *Client) Request(method requester.Method, path string) *Dispatch {
	d := newDispatch(c, method)
	u, err := c.resolve(path)
	if err != nil {
		d.err = err
		return d
	}
	d.builder.WithURL(u)
	return d
}

// resolve joins path to the base URL, dropping one leading slash from path
func (c *Client) resolve(path string) (*url.URL, error) {
	path = strings.TrimPrefix(path, "/")
	raw := c.settings.baseURL + "/" + path

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	return u, nil
}
