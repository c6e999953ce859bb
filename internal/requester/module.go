package requester

import (
	"net/http"

	"github.com/brizzai/httpmapper/internal/config"
	"go.uber.org/fx"
)

// Module provides the transport client shared by every exchange
var Module = fx.Module("requester",
	fx.Provide(
		func(cfg *config.Config) *http.Client {
			return NewHTTPClient(cfg.Client.Timeout)
		},
	),
)
