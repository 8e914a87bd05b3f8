package operator

import "errors"

var (
	// ErrOperatorNotFound indicates the operator doesn't exist.
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrInvalidInput indicates invalid operator input.
	ErrInvalidInput = errors.New("invalid operator input")
	// ErrLoadAboveCapacity indicates a max_load below the operator's current load.
	ErrLoadAboveCapacity = errors.New("max_load below current load")
	// ErrForbiddenDelete indicates the operator still holds open contacts.
	ErrForbiddenDelete = errors.New("operator has open contacts")
)
