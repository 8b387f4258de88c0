package backend

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker/v2"
)

// Metrics records the outcome of every request made to the backend
type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	breakerState *prometheus.GaugeVec
}

// NewMetrics creates backend client metrics and registers them with reg. A nil
// Registerer produces working but unregistered metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inventory_portal",
				Subsystem: "backend",
				Name:      "requests_total",
				Help:      "Requests made to the inventory backend, by method and response code",
			},
			[]string{"method", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "inventory_portal",
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Latency of requests made to the inventory backend",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		breakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "inventory_portal",
				Subsystem: "backend",
				Name:      "circuit_breaker_state",
				Help:      "Current state of the backend circuit breaker (0=closed, 1=half-open, 2=open)",
			},
			[]string{"name"},
		),
	}
}

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
