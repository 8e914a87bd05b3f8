package contact

import "errors"

var (
	// ErrContactNotFound indicates the contact doesn't exist.
	ErrContactNotFound = errors.New("contact not found")
	// ErrInvalidTransition indicates a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid contact status transition")
	// ErrInvalidInput indicates invalid contact input.
	ErrInvalidInput = errors.New("invalid contact input")
)
