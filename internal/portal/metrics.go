package portal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	logins   *prometheus.CounterVec
}

// NewMetrics creates portal metrics and registers them with reg; a nil Registerer
// leaves them unregistered
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inventory_portal",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Requests served by the portal, by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "inventory_portal",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Time taken to serve portal requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		logins: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inventory_portal",
				Subsystem: "session",
				Name:      "logins_total",
				Help:      "Login attempts made through the portal's login form, by result",
			},
			[]string{"result"},
		),
	}
}
