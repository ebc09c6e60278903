package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector of the ledger. It is passed
// explicitly to the components that record into it.
type Metrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec

	eventsPublishedTotal *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics registers all collectors on registry, or on
// prometheus.DefaultRegisterer when registry is nil.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_operations_total",
				Help: "Total number of ledger mutations by operation and result",
			},
			[]string{"operation", "result"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ledger_operation_duration_seconds",
				Help:    "Time from enqueueing a ledger mutation to its commit or rollback",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"operation"},
		),

		eventsPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_events_published_total",
				Help: "Total number of audit events handed to the event bus",
			},
			[]string{"kind", "result"},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by operation, method and status",
			},
			[]string{"operation", "method", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "method"},
		),
	}
}

// RecordOperation records one processed mutation. result is a stable
// error kind such as "ok" or "permission_denied".
func (m *Metrics) RecordOperation(operation, result string, duration float64) {
	m.operationsTotal.WithLabelValues(operation, result).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration)
}

func (m *Metrics) RecordEventPublished(kind string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.eventsPublishedTotal.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) RecordHTTPRequest(operation, method string, statusCode int, duration float64) {
	m.httpRequestsTotal.WithLabelValues(operation, method, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(operation, method).Observe(duration)
}
