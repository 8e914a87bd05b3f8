package source

import "errors"

var (
	// ErrSourceNotFound indicates the source doesn't exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrInvalidInput indicates invalid source input.
	ErrInvalidInput = errors.New("invalid source input")
	// ErrForbiddenDelete indicates contacts from the source are still being handled.
	ErrForbiddenDelete = errors.New("source has open contacts")
)
