package lead

import "github.com/ko2fey/test-task-mini-crm/internal/domain/listing"

// SortFields enumerates the fields leads may be ordered by.
var SortFields = []string{"id", "external_id", "name", "created_at"}

// ListOptions provides filtering options for listing leads.
type ListOptions struct {
	ExternalID *string
	SourceID   *int64
	listing.Options
}
