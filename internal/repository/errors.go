package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint rejects a write
	ErrConflict = errors.New("conflict: entity already exists")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvariantViolation is returned when a stored row breaks a load invariant.
	// It indicates a bug or manual tampering and is never retried.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrDatabase wraps storage failures (lock timeouts, dropped connections).
	// Callers may retry the whole operation.
	ErrDatabase = errors.New("database error")
)
