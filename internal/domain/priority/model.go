package priority

import "time"

// Priority makes an operator eligible for a source with a non-negative weight.
// Each (operator, source) pair has at most one priority.
type Priority struct {
	ID         int64     `json:"id"`
	OperatorID int64     `json:"operator_id"`
	SourceID   int64     `json:"source_id"`
	Weight     int       `json:"weight"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
