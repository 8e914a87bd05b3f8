package priority

import "github.com/ko2fey/test-task-mini-crm/internal/domain/listing"

// SortFields enumerates the fields priorities may be ordered by.
var SortFields = []string{"id", "operator_id", "source_id", "weight", "created_at", "updated_at"}

// ListOptions provides filtering options for listing priorities.
type ListOptions struct {
	OperatorID *int64
	SourceID   *int64
	listing.Options
}
