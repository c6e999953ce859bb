package metrics

import (
	"github.com/brizzai/httpmapper/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Module provides a Collector on its own registry. The collector is nil when
// metrics are disabled.
var Module = fx.Module("metrics",
	fx.Provide(
		prometheus.NewRegistry,
		func(cfg *config.Config, registry *prometheus.Registry) *Collector {
			if !cfg.Metrics.Enabled {
				return nil
			}
			return NewCollector(registry, cfg.Metrics.Namespace)
		},
	),
)
