package metrics

// NopMetrics implements a no-op metrics collector.
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordAssignment discards the assignment metric.
func (n *NopMetrics) RecordAssignment(_ string) {}

// RecordReservationLost discards the lost reservation metric.
func (n *NopMetrics) RecordReservationLost() {}

// RecordRelease discards the release metric.
func (n *NopMetrics) RecordRelease(_ string) {}

// ObserveAssignLatency discards the latency metric.
func (n *NopMetrics) ObserveAssignLatency(_ float64) {}
