package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	AnalystLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "macropulse",
			Subsystem: "analyst",
			Name:      "latency_seconds",
			Help:      "Latency of generative model calls",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 45},
		},
		[]string{"model"},
	)

	AnalystVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "macropulse",
			Subsystem: "analyst",
			Name:      "verdicts_total",
			Help:      "Verdicts by outcome (ok, call_error, malformed)",
		},
		[]string{"outcome"},
	)
)

// Register adds the analyst collectors to reg once per process.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		reg.MustRegister(AnalystLatency, AnalystVerdicts)
	})
}
