package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordAssignment(OutcomeAssigned)
	p.RecordAssignment(OutcomeAssigned)
	p.RecordAssignment(OutcomeQueued)
	p.RecordReservationLost()
	p.RecordRelease(ReleaseCompleted)
	p.ObserveAssignLatency(0.01)

	require.Equal(t, 2.0, testutil.ToFloat64(p.assignments.WithLabelValues(OutcomeAssigned)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.assignments.WithLabelValues(OutcomeQueued)))
	require.Equal(t, 1.0, testutil.ToFloat64(p.reservationsLost))
	require.Equal(t, 1.0, testutil.ToFloat64(p.releases.WithLabelValues(ReleaseCompleted)))

	count, err := testutil.GatherAndCount(reg, "test_assignment_latency_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNopMetrics_DoesNotPanic(t *testing.T) {
	var c Collector = NewNop()
	require.NotPanics(t, func() {
		c.RecordAssignment(OutcomeAssigned)
		c.RecordReservationLost()
		c.RecordRelease(ReleaseRemoved)
		c.ObserveAssignLatency(1)
	})
}
