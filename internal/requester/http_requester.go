package requester

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/brizzai/httpmapper/internal/headers"
	"github.com/brizzai/httpmapper/internal/logger"
	"github.com/brizzai/httpmapper/internal/mapper"
	"go.uber.org/zap"
)

// Request is a validated request description. Execute performs it once.
type Request struct {
	method    Method
	url       *url.URL
	headers   *headers.Headers
	input     InputFunc
	mapper    *mapper.Mapper
	onFailure FailureFunc
	client    *http.Client
	observer  Observer
}

// Method returns the request method
func (r *Request) Method() Method {
	return r.method
}

// URL returns the resolved request URL
func (r *Request) URL() *url.URL {
	return r.url
}

// Execute performs the exchange. Failures are handed to the failure sink and
// Execute returns nil.
func (r *Request) Execute(ctx context.Context) *Response {
	start := time.Now()
	resp, err := r.exchange(ctx)
	elapsed := time.Since(start)

	if r.observer != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode()
		}
		r.observer.ObserveExchange(r.method.String(), r.url.Host, status, elapsed, err)
	}

	if err != nil {
		logger.Debug("exchange failed",
			zap.String("method", r.method.String()),
			zap.String("url", r.url.String()),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		r.onFailure(err)
		return nil
	}

	logger.Debug("exchange completed",
		zap.String("method", r.method.String()),
		zap.String("url", r.url.String()),
		zap.Int("status", resp.StatusCode()),
		zap.Int("body_bytes", len(resp.body)),
		zap.Duration("elapsed", elapsed),
	)
	return resp
}

// exchange performs the network round trip. The response body is always closed.
func (r *Request) exchange(ctx context.Context) (resp *Response, err error) {
	entity, contentType, err := r.entity()
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if entity != nil {
		body = bytes.NewReader(entity)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method.String(), r.url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// Multi-valued headers go out as one comma-joined line
	for _, name := range r.headers.Names() {
		value := strings.Join(r.headers.Get(name), ",")
		if name == "host" {
			httpReq.Host = value
			continue
		}
		httpReq.Header.Set(name, value)
	}

	if entity != nil {
		if !r.headers.Has("Content-Type") {
			httpReq.Header.Set("Content-Type", contentType.String())
		}
		httpReq.ContentLength = int64(len(entity))
		httpReq.Header.Set("Content-Length", strconv.Itoa(len(entity)))
	}

	httpResp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil && err == nil {
			resp, err = nil, fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	raw := []byte{}
	if r.method.HasBody() {
		raw, err = io.ReadAll(httpResp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
	}

	return NewResponse(
		httpResp.StatusCode,
		statusText(httpResp),
		headers.FromHTTP(httpResp.Header),
		r.mapper,
		raw,
	), nil
}

// entity produces and serializes the request entity, if any
func (r *Request) entity() ([]byte, mapper.ContentType, error) {
	if r.input == nil {
		return nil, "", nil
	}
	v, err := r.input()
	if err != nil {
		return nil, "", fmt.Errorf("failed to produce request entity: %w", err)
	}
	if v == nil {
		return nil, "", nil
	}
	data, contentType, err := r.mapper.Serialize(v)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		data = []byte{}
	}
	return data, contentType, nil
}

// statusText returns the reason phrase without the leading status code
func statusText(resp *http.Response) string {
	code := strconv.Itoa(resp.StatusCode)
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, code)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
