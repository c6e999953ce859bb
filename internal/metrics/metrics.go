// Package metrics exports Prometheus metrics for HTTP exchanges.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records exchange outcomes. It is safe for concurrent use.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	failuresTotal   *prometheus.CounterVec
}

// NewCollector registers the exchange metrics on registry under namespace
func NewCollector(registry prometheus.Registerer, namespace string) *Collector {
	factory := promauto.With(registry)
	return &Collector{
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of HTTP exchanges that produced a response",
			},
			[]string{"method", "host", "status_code"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP exchanges in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "host"},
		),
		failuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "failures_total",
				Help:      "Total number of HTTP exchanges that failed before a response was built",
			},
			[]string{"method", "host"},
		),
	}
}

// ObserveExchange records one exchange
func (c *Collector) ObserveExchange(method, host string, status int, elapsed time.Duration, err error) {
	c.requestDuration.WithLabelValues(method, host).Observe(elapsed.Seconds())
	if err != nil {
		c.failuresTotal.WithLabelValues(method, host).Inc()
		return
	}
	c.requestsTotal.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
}
