package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	assignments      *prometheus.CounterVec
	reservationsLost prometheus.Counter
	releases         *prometheus.CounterVec
	assignLatency    prometheus.Histogram
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "leadrouter" if empty)
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "leadrouter"
	}
	p := &PrometheusCollector{reg: reg, namespace: namespace}
	p.ensureRegistered()
	return p
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.assignments = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "results_total",
			Help:      "Total lead assignments by outcome (assigned, queued, dispatched).",
		}, []string{"outcome"})

		p.reservationsLost = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "reservations_lost_total",
			Help:      "Total reservations refused because the candidate filled up after ranking.",
		})

		p.releases = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "ledger",
			Name:      "releases_total",
			Help:      "Total operator slots released by reason (completed, removed, lead_deleted).",
		}, []string{"reason"})

		p.assignLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "assignment",
			Name:      "latency_seconds",
			Help:      "Latency of AssignLead in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		})

		p.reg.MustRegister(p.assignments, p.reservationsLost, p.releases, p.assignLatency)
	})
}

// RecordAssignment increments the assignment counter for outcome.
func (p *PrometheusCollector) RecordAssignment(outcome string) {
	p.ensureRegistered()
	p.assignments.WithLabelValues(outcome).Inc()
}

// RecordReservationLost increments the lost reservation counter.
func (p *PrometheusCollector) RecordReservationLost() {
	p.ensureRegistered()
	p.reservationsLost.Inc()
}

// RecordRelease increments the release counter for reason.
func (p *PrometheusCollector) RecordRelease(reason string) {
	p.ensureRegistered()
	p.releases.WithLabelValues(reason).Inc()
}

// ObserveAssignLatency records one AssignLead duration.
func (p *PrometheusCollector) ObserveAssignLatency(seconds float64) {
	p.ensureRegistered()
	p.assignLatency.Observe(seconds)
}
