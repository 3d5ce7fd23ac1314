// Package metrics provides observability for the assignment pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the assignment feature.
type Metrics struct {
	AssignmentsTotal   *prometheus.CounterVec
	AssignmentDuration prometheus.Histogram
	SignalFetchLatency *prometheus.HistogramVec
	CacheRequests      *prometheus.CounterVec
}

// New creates and registers all assignment metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		AssignmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compass_assignments_total",
			Help: "Assignments created, by assigned persona and time window.",
		}, []string{"persona", "time_window"}),
		AssignmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "compass_assignment_duration_seconds",
			Help:    "End-to-end latency of one assignment run.",
			Buckets: prometheus.DefBuckets,
		}),
		SignalFetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_signal_fetch_seconds",
			Help:    "Latency of external signal collaborator calls, by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		CacheRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "compass_assignment_cache_requests_total",
			Help: "Latest-assignment cache lookups, by result.",
		}, []string{"result"}),
	}
}

// ObserveAssignment records one finished assignment run.
func (m *Metrics) ObserveAssignment(persona, timeWindow string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.AssignmentsTotal.WithLabelValues(persona, timeWindow).Inc()
	m.AssignmentDuration.Observe(elapsed.Seconds())
}

// ObserveSignalFetch records one external collaborator round trip.
func (m *Metrics) ObserveSignalFetch(source string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SignalFetchLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

// RecordCacheHit and RecordCacheMiss track latest-assignment cache efficacy.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues("hit").Inc()
}

func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues("miss").Inc()
}
