package assignment

import (
	"context"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
)

// Ledger owns operator load counters. Both calls lock the operator row and
// join the transaction carried by ctx, if any.
type Ledger interface {
	// TryReserve takes one slot. It reports false when the operator is
	// inactive or full at lock time; that is an outcome, not an error.
	TryReserve(ctx context.Context, operatorID int64) (bool, error)
	// Release frees one slot. Releasing at zero load is an invariant violation.
	Release(ctx context.Context, operatorID int64) error
}

// OperatorDirectory lists operators that look available for a source.
type OperatorDirectory interface {
	CandidatesFor(ctx context.Context, sourceID int64) ([]operator.Operator, error)
}

// PriorityIndex reads operator weights per source.
type PriorityIndex interface {
	WeightOf(ctx context.Context, operatorID, sourceID int64) (int, bool, error)
}

// SourceGetter resolves sources.
type SourceGetter interface {
	Get(ctx context.Context, id int64) (*source.Source, error)
}

// LeadResolver deduplicates leads by external id.
type LeadResolver interface {
	Resolve(ctx context.Context, externalID string, name *string) (*lead.Lead, error)
	LinkSource(ctx context.Context, leadID, sourceID int64) error
}

// LeadStore reads and removes leads.
type LeadStore interface {
	Get(ctx context.Context, id int64) (*lead.Lead, error)
	Delete(ctx context.Context, id int64) error
}

// ContactStore persists contacts.
type ContactStore interface {
	Create(ctx context.Context, c *contact.Contact) error
	Get(ctx context.Context, id int64) (*contact.Contact, error)
	GetForUpdate(ctx context.Context, id int64) (*contact.Contact, error)
	SetState(ctx context.Context, id int64, status contact.Status, operatorID *int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	ListOpenByLead(ctx context.Context, leadID int64) ([]contact.Contact, error)
}

// ActivityRecorder appends to the assignment log without failing the caller.
type ActivityRecorder interface {
	Record(ctx context.Context, entry *activity.Entry)
}
