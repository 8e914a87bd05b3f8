package lead

import "time"

const (
	// MaxExternalIDLength bounds the external identifier.
	MaxExternalIDLength = 50
	// MaxNameLength bounds the lead display name.
	MaxNameLength = 50
)

// Lead is an end customer identified by an external id (phone, chat id, email).
// A lead can arrive through several sources over time.
type Lead struct {
	ID         int64     `json:"id"`
	ExternalID string    `json:"external_id"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
