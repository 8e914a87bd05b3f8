package contact

import (
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
)

// SortFields enumerates the fields contacts may be ordered by.
var SortFields = []string{"id", "status", "lead_id", "source_id", "operator_id", "created_at", "updated_at"}

// ListOptions filters contacts. Every set field is one equality or range
// comparison, combined with AND.
type ListOptions struct {
	Status      *Status
	SourceID    *int64
	OperatorID  *int64
	LeadID      *int64
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	listing.Options
}
