package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeFulfilled = "fulfilled"
	OutcomeRejected  = "rejected"
)

// Recorder collects metrics about task sync operations
type Recorder struct {
	gatherer prometheus.Gatherer

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	inFlight          prometheus.Gauge
}

// NewRecorder creates the operation collectors and registers them on registry
func NewRecorder(registry *prometheus.Registry) *Recorder {
	r := &Recorder{
		gatherer: registry,
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tasksync_operations_total",
				Help: "Total number of settled task sync operations",
			},
			[]string{"operation", "outcome"},
		),
		operationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tasksync_operation_duration_seconds",
				Help:    "Time from dispatch to settlement of task sync operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "tasksync_operations_in_flight",
				Help: "Number of dispatched task sync operations not yet settled",
			},
		),
	}

	registry.MustRegister(r.operationsTotal, r.operationDuration, r.inFlight)
	return r
}

// Dispatched records the start of an operation
func (r *Recorder) Dispatched() {
	r.inFlight.Inc()
}

// Settled records the terminal transition of an operation
func (r *Recorder) Settled(operation, outcome string, elapsed time.Duration) {
	r.inFlight.Dec()
	r.operationsTotal.WithLabelValues(operation, outcome).Inc()
	r.operationDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
