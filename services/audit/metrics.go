package audit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the pipeline's Prometheus collectors.
type Metrics struct {
	StageDuration *prometheus.HistogramVec
	Outcomes      *prometheus.CounterVec
	Degraded      prometheus.Counter
}

// NewMetrics registers the collectors on reg. A nil reg yields unregistered
// collectors, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "audit_stage_duration_seconds",
				Help:    "Duration of each audit pipeline stage in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"stage"},
		),
		Outcomes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "audit_outcomes_total",
				Help: "Total number of audit requests by terminal outcome",
			},
			[]string{"outcome"},
		),
		Degraded: f.NewCounter(prometheus.CounterOpts{
			Name: "audit_classifier_degraded_total",
			Help: "Total number of intent classifications that failed open to search",
		}),
	}
}
