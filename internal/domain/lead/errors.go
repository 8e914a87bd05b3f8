package lead

import "errors"

var (
	// ErrLeadNotFound indicates the lead doesn't exist.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrInvalidInput indicates invalid lead input.
	ErrInvalidInput = errors.New("invalid lead input")
	// ErrDuplicateExternalID indicates another lead already uses the external id.
	ErrDuplicateExternalID = errors.New("lead with this external id already exists")
	// ErrSourceNotFound indicates the source to link doesn't exist.
	ErrSourceNotFound = errors.New("source not found")
)
