package mcp

import (
	"errors"
	"fmt"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// APIError is the error payload returned by a failed tool call.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to tool error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, source.ErrSourceNotFound), errors.Is(err, lead.ErrSourceNotFound):
		return &APIError{Code: "SOURCE_NOT_FOUND", Message: "source not found", RecoveryHint: "Check the source id"}
	case errors.Is(err, operator.ErrOperatorNotFound):
		return &APIError{Code: "OPERATOR_NOT_FOUND", Message: "operator not found", RecoveryHint: "Check the operator id"}
	case errors.Is(err, contact.ErrContactNotFound):
		return &APIError{Code: "CONTACT_NOT_FOUND", Message: "contact not found", RecoveryHint: "Check the contact id"}
	case errors.Is(err, lead.ErrLeadNotFound):
		return &APIError{Code: "LEAD_NOT_FOUND", Message: "lead not found"}
	case errors.Is(err, contact.ErrInvalidTransition):
		return &APIError{Code: "INVALID_TRANSITION", Message: "contact status cannot change that way", RecoveryHint: "Only new or in_progress contacts can be completed, only queued contacts dispatched"}
	case errors.Is(err, lead.ErrInvalidInput), errors.Is(err, contact.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, repository.ErrDatabase):
		return &APIError{Code: "UNAVAILABLE", Message: "storage unavailable", RecoveryHint: "Retry later"}
	default:
		return nil
	}
}

// toolError turns a service error into the error a tool handler returns.
// Unmapped errors are hidden behind a generic code.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return &APIError{Code: "INTERNAL", Message: "internal error"}
}
