package priority

import "errors"

var (
	// ErrPriorityNotFound indicates the priority doesn't exist.
	ErrPriorityNotFound = errors.New("priority not found")
	// ErrInvalidInput indicates invalid priority input.
	ErrInvalidInput = errors.New("invalid priority input")
	// ErrOperatorNotFound indicates the referenced operator doesn't exist.
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrSourceNotFound indicates the referenced source doesn't exist.
	ErrSourceNotFound = errors.New("source not found")
)
