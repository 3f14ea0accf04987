package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for sentinel components.
type Registry struct {
	// Decision metrics
	Requests *prometheus.CounterVec
	Allowed  *prometheus.CounterVec
	Denied   *prometheus.CounterVec
	Degraded *prometheus.CounterVec

	// Shared-store metrics
	StoreLatency *prometheus.HistogramVec
	StoreUp      prometheus.Gauge
}

// DefaultRegistry is the default metrics registry used by sentinel components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sentinel",
				Subsystem: "ratelimit",
				Name:      "requests_total",
				Help:      "Total number of admission decisions requested",
			},
			[]string{"strategy"},
		),

		Allowed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sentinel",
				Subsystem: "ratelimit",
				Name:      "allowed_total",
				Help:      "Total number of allowed requests",
			},
			[]string{"strategy"},
		),

		Denied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sentinel",
				Subsystem: "ratelimit",
				Name:      "denied_total",
				Help:      "Total number of denied requests",
			},
			[]string{"strategy"},
		),

		Degraded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sentinel",
				Subsystem: "ratelimit",
				Name:      "degraded_total",
				Help:      "Total number of decisions resolved by the failure policy",
			},
			[]string{"strategy", "policy"},
		),

		StoreLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "sentinel",
				Subsystem: "store",
				Name:      "latency_seconds",
				Help:      "Shared-store round-trip latency per decision",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"strategy"},
		),

		StoreUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "sentinel",
				Subsystem: "store",
				Name:      "up",
				Help:      "Whether the last shared-store probe succeeded",
			},
		),
	}
}
