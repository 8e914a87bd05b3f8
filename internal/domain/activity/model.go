package activity

import "time"

// Type represents the kind of assignment event
type Type string

const (
	TypeLeadAssigned      Type = "lead_assigned"
	TypeLeadQueued        Type = "lead_queued"
	TypeReservationLost   Type = "reservation_lost"
	TypeContactCompleted  Type = "contact_completed"
	TypeContactRemoved    Type = "contact_removed"
	TypeContactDispatched Type = "contact_dispatched"
	TypeStatusChanged     Type = "status_changed"
	TypeLeadDeleted       Type = "lead_deleted"
)

// Entry represents an event in the assignment log
type Entry struct {
	ID         int64     `json:"id"`
	Type       Type      `json:"type"`
	LeadID     *int64    `json:"lead_id,omitempty"`
	ContactID  *int64    `json:"contact_id,omitempty"`
	OperatorID *int64    `json:"operator_id,omitempty"`
	SourceID   *int64    `json:"source_id,omitempty"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}
