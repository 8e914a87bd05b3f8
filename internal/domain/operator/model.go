package operator

import "time"

const (
	// DefaultMaxLoad is the capacity given to operators created without one.
	DefaultMaxLoad = 10
	// MaxNameLength bounds operator names.
	MaxNameLength = 50
)

// Operator is a human agent who handles contacts.
//
// CurrentLoad counts contacts in status new or in_progress assigned to the
// operator. It is owned by the capacity ledger; admin updates never touch it.
type Operator struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	MaxLoad     int       `json:"max_load"`
	CurrentLoad int       `json:"current_load"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Available reports whether the operator can take another contact.
func (o Operator) Available() bool {
	return o.Active && o.CurrentLoad < o.MaxLoad
}

// FreeSlots returns the remaining capacity.
func (o Operator) FreeSlots() int {
	if o.CurrentLoad >= o.MaxLoad {
		return 0
	}
	return o.MaxLoad - o.CurrentLoad
}
