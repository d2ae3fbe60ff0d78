package complaint

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the complaint subsystem.
type Metrics struct {
	CreatesTotal   *prometheus.CounterVec
	CreatedByLevel *prometheus.CounterVec
	Listed         *prometheus.HistogramVec
}

// NewMetrics registers and returns complaint metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		CreatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locono_complaint_creates_total",
			Help: "Total complaint submissions by result.",
		}, []string{"result"}),
		CreatedByLevel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "locono_complaints_created_total",
			Help: "Total complaints filed by display level.",
		}, []string{"level"}),
		Listed: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "locono_complaints_listed",
			Help:    "Complaints returned per listing.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10), // 1 .. 512
		}, []string{"view"}),
	}

	reg.MustRegister(
		m.CreatesTotal,
		m.CreatedByLevel,
		m.Listed,
	)

	return m
}
