package client

import (
	"net/http"

	"github.com/brizzai/httpmapper/internal/config"
	"github.com/brizzai/httpmapper/internal/mapper"
	"github.com/brizzai/httpmapper/internal/metrics"
	"go.uber.org/fx"
)

// Module provides a Client built from the client configuration
var Module = fx.Module("client",
	fx.Provide(NewFromConfig),
)

// NewFromConfig builds a client from cfg. Configured headers are applied first, then
// the user agent, then authentication. A nil collector disables exchange metrics.
func NewFromConfig(cfg *config.Config, m *mapper.Mapper, httpClient *http.Client, collector *metrics.Collector) (*Client, error) {
	auth, err := AuthDecorator(&cfg.Client)
	if err != nil {
		return nil, err
	}

	builder := NewBuilder().
		WithBaseURL(cfg.Client.BaseURL).
		WithMapper(m).
		WithHTTPClient(httpClient).
		WithDecorator(HeadersDecorator(cfg.Client.Headers)).
		WithDecorator(userAgentDecorator(cfg.Client.UserAgent)).
		WithDecorator(auth)

	// a typed nil would make the executor call into a nil collector
	if collector != nil {
		builder.WithObserver(collector)
	}
	return builder.Build(), nil
}

func userAgentDecorator(userAgent string) Decorator {
	if userAgent == "" {
		return nil
	}
	return setHeader("User-Agent", userAgent)
}
