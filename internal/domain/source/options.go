package source

import "github.com/ko2fey/test-task-mini-crm/internal/domain/listing"

// SortFields enumerates the fields sources may be ordered by.
var SortFields = []string{"id", "name", "created_at"}

// ListOptions provides filtering options for listing sources.
type ListOptions struct {
	listing.Options
}
