package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	sourceFetches *prometheus.CounterVec
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	errorsTotal   *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a recorder registered on reg (prometheus.DefaultRegisterer in production).
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		sourceFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_source_fetch_total",
				Help: "Upstream fetches by source and outcome (ok, fallback, fail)",
			},
			[]string{"source", "outcome"},
		),
		cycles: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_cycles_total",
				Help: "Snapshot cycles by result",
			},
			[]string{"result"},
		),
		cycleDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "macropulse_cycle_duration_seconds",
				Help:    "Wall time of a full snapshot cycle",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "macropulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "macropulse_instrument_price",
				Help: "Last recorded value per instrument key",
			},
			[]string{"instrument"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "macropulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSourceFetch counts one fetch outcome for a source.
func (r *Recorder) RecordSourceFetch(source, outcome string) {
	r.sourceFetches.WithLabelValues(source, outcome).Inc()
}

// ObserveCycle records a finished cycle.
func (r *Recorder) ObserveCycle(seconds float64, result string) {
	r.cycles.WithLabelValues(result).Inc()
	r.cycleDuration.Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordInstrumentValue records the last value for an instrument key.
func (r *Recorder) RecordInstrumentValue(key string, value float64) {
	r.lastPrice.WithLabelValues(key).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
