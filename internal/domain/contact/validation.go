package contact

import "fmt"

// ValidateTransition validates a requested status change.
//
// Dispatching a queued contact to an operator (in_queue -> new) is an
// assignment and goes through the engine, not through this check.
func ValidateTransition(from, to Status) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, to)
	}
	valid := false
	switch from {
	case StatusNew:
		valid = to == StatusInProgress || to == StatusDone
	case StatusInProgress:
		valid = to == StatusDone
	case StatusInQueue:
		valid = to == StatusDone
	}
	if !valid {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
