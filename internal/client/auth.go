package client

import (
	"encoding/base64"
	"fmt"
	"sort"

	"github.com/brizzai/httpmapper/internal/config"
)

// AuthDecorator returns a decorator applying the configured authentication to
// every dispatch. AuthTypeNone yields a nil decorator.
func AuthDecorator(cfg *config.ClientConfig) (Decorator, error) {
	authConfig := cfg.AuthConfig
	switch cfg.AuthType {
	case config.AuthTypeNone, "":
		return nil, nil
	case config.AuthTypeBasic:
		credentials := authConfig["username"] + ":" + authConfig["password"]
		value := "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
		return setHeader("Authorization", value), nil
	case config.AuthTypeBearer, config.AuthTypeOAuth2:
		return setHeader("Authorization", "Bearer "+authConfig["token"]), nil
	case config.AuthTypeAPIKey:
		header := authConfig["header"]
		if header == "" {
			header = "X-API-Key"
		}
		return setHeader(header, authConfig["key"]), nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.AuthType)
	}
}

// HeadersDecorator returns a decorator adding the given headers, in name order, to
// every dispatch that does not already carry them
func HeadersDecorator(values map[string]string) Decorator {
	if len(values) == 0 {
		return nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(d *Dispatch) {
		for _, name := range names {
			if !d.Headers().Has(name) {
				d.WithHeader(name, values[name])
			}
		}
	}
}

// setHeader adds name unless the dispatch set it explicitly
func setHeader(name, value string) Decorator {
	return func(d *Dispatch) {
		if !d.Headers().Has(name) {
			d.WithHeader(name, value)
		}
	}
}
