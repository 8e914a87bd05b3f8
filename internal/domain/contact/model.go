package contact

import "time"

// Status is the lifecycle stage of a contact.
type Status string

const (
	// StatusInQueue means no operator was available when the lead arrived.
	StatusInQueue Status = "in_queue"
	// StatusNew means an operator holds the contact but hasn't started on it.
	StatusNew Status = "new"
	// StatusInProgress means the operator is working the contact.
	StatusInProgress Status = "in_progress"
	// StatusDone is terminal.
	StatusDone Status = "done"
)

// Contact is one arrival of a lead through a source.
//
// OperatorID is set exactly when an assignment reserved a slot for the
// contact. Finished contacts keep it as history but no longer count as load.
type Contact struct {
	ID         int64     `json:"id"`
	LeadID     int64     `json:"lead_id"`
	SourceID   int64     `json:"source_id"`
	OperatorID *int64    `json:"operator_id,omitempty"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HoldsSlot reports whether the contact occupies one unit of its operator's load.
func (c Contact) HoldsSlot() bool {
	return c.OperatorID != nil && c.Status.Open()
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInQueue, StatusNew, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Open reports whether a contact in this status counts towards operator load.
func (s Status) Open() bool {
	return s == StatusNew || s == StatusInProgress
}
