// Package metrics holds the Prometheus instruments for the regulator service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the Prometheus metrics for the regulator.
type Metrics struct {
	AssessmentsTotal      *prometheus.CounterVec
	UpstreamFailuresTotal *prometheus.CounterVec
	SummaryFallbacksTotal prometheus.Counter
	AssessmentDuration    prometheus.Histogram
}

// New registers all instruments against reg and returns them. Tests pass a
// fresh registry so parallel servers don't collide on registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AssessmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orcaguard_assessments_total",
			Help: "Total number of risk assessments by outcome",
		}, []string{"outcome"}),
		UpstreamFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orcaguard_upstream_failures_total",
			Help: "Total number of data feed failures by feed and kind",
		}, []string{"feed", "kind"}),
		SummaryFallbacksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "orcaguard_summary_fallbacks_total",
			Help: "Total number of degraded summaries returned because the generative proxy failed",
		}),
		AssessmentDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "orcaguard_assessment_duration_seconds",
			Help:    "Wall-clock duration of complete risk assessments",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
