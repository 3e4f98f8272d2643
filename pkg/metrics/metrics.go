package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecast_requests_total",
			Help: "Total number of API requests per route and status code",
		},
		[]string{"route", "code"},
	)

	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ratecast_request_duration_seconds",
			Help:    "API request duration in seconds per route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	RateFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecast_rate_fetches_total",
			Help: "Rate plan lookups by outcome (ok, empty, error)",
		},
		[]string{"result"},
	)

	DegradedCalculationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratecast_degraded_calculations_total",
			Help: "Calculations where part of the result was replaced with zeros",
		},
	)

	ProjectsSavedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecast_projects_saved_total",
			Help: "Project writes by outcome (ok, error)",
		},
		[]string{"result"},
	)

	WebhookDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratecast_webhook_deliveries_total",
			Help: "Webhook deliveries by outcome (ok, error, disabled)",
		},
		[]string{"result"},
	)
)

// Result maps an error to the "ok"/"error" label used by the counters.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveRequest records a finished API request.
func ObserveRequest(route string, code int, started time.Time) {
	RequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
	RequestDurationSeconds.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
