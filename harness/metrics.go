package harness

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports measurement results as Prometheus series.
type Metrics struct {
	registry    *prometheus.Registry
	nsPerOp     *prometheus.GaugeVec
	allocsPerOp *prometheus.GaugeVec
	failures    *prometheus.CounterVec
}

// NewMetrics registers the benchmark series on a private registry.
func NewMetrics() *Metrics {
	labels := []string{"strategy", "empty_count"}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		nsPerOp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "errbench_ns_per_op",
				Help: "Nanoseconds per aggregation of the whole dataset",
			},
			labels,
		),
		allocsPerOp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "errbench_allocs_per_op",
				Help: "Heap allocations per aggregation of the whole dataset",
			},
			labels,
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "errbench_failures_total",
				Help: "Measured configurations whose aggregation reported failure",
			},
			labels,
		),
	}

	m.registry.MustRegister(m.nsPerOp, m.allocsPerOp, m.failures)

	return m
}

// Observe records r.
func (m *Metrics) Observe(r *Result) {
	empty := strconv.Itoa(r.EmptyCount)

	m.nsPerOp.WithLabelValues(r.Strategy, empty).Set(r.NsPerOp)
	m.allocsPerOp.WithLabelValues(r.Strategy, empty).Set(float64(r.AllocsPerOp))

	failures := m.failures.WithLabelValues(r.Strategy, empty)
	if r.Failed {
		failures.Inc()
	}
}

// Registry returns the registry holding the benchmark series.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all series to path in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
