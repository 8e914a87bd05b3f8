package operator

import "github.com/ko2fey/test-task-mini-crm/internal/domain/listing"

// SortFields enumerates the fields operators may be ordered by.
var SortFields = []string{"id", "name", "max_load", "current_load", "active", "created_at", "updated_at"}

// ListOptions provides filtering options for listing operators.
type ListOptions struct {
	Active *bool
	listing.Options
}
