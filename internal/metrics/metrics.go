// Package metrics records assignment engine outcomes.
package metrics

// Assignment outcomes.
const (
	OutcomeAssigned   = "assigned"
	OutcomeQueued     = "queued"
	OutcomeDispatched = "dispatched"
)

// Release reasons.
const (
	ReleaseCompleted   = "completed"
	ReleaseRemoved     = "removed"
	ReleaseLeadDeleted = "lead_deleted"
)

// Collector receives engine events. Implementations must be safe for
// concurrent use.
type Collector interface {
	// RecordAssignment counts one finished AssignLead or dispatch by outcome.
	RecordAssignment(outcome string)
	// RecordReservationLost counts a candidate that filled up between ranking and reserve.
	RecordReservationLost()
	// RecordRelease counts one freed operator slot by reason.
	RecordRelease(reason string)
	// ObserveAssignLatency records the wall time of one AssignLead in seconds.
	ObserveAssignLatency(seconds float64)
}
