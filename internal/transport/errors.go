package transport

import (
	"errors"
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// ErrBadRequest indicates a malformed path, query or body.
var ErrBadRequest = errors.New("bad request")

var (
	notFoundErrors = []error{
		operator.ErrOperatorNotFound,
		source.ErrSourceNotFound,
		priority.ErrPriorityNotFound,
		priority.ErrOperatorNotFound,
		priority.ErrSourceNotFound,
		lead.ErrLeadNotFound,
		lead.ErrSourceNotFound,
		contact.ErrContactNotFound,
		repository.ErrNotFound,
	}
	badRequestErrors = []error{
		ErrBadRequest,
		listing.ErrInvalidOptions,
		operator.ErrInvalidInput,
		source.ErrInvalidInput,
		priority.ErrInvalidInput,
		lead.ErrInvalidInput,
		contact.ErrInvalidInput,
		activity.ErrInvalidInput,
		repository.ErrInvalidInput,
	}
	forbiddenErrors = []error{
		operator.ErrForbiddenDelete,
		source.ErrForbiddenDelete,
	}
	conflictErrors = []error{
		operator.ErrLoadAboveCapacity,
		lead.ErrDuplicateExternalID,
		contact.ErrInvalidTransition,
		repository.ErrConflict,
		repository.ErrForeignKeyViolation,
	}
)

// StatusFor maps a service error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	case isAny(err, forbiddenErrors):
		return http.StatusForbidden
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case errors.Is(err, repository.ErrDatabase):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
