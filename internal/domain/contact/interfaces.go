package contact

import (
	"context"
	"time"
)

// Repository provides persistence operations for contacts.
type Repository interface {
	Create(ctx context.Context, c *Contact) error
	Get(ctx context.Context, id int64) (*Contact, error)
	// GetForUpdate reads the contact and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*Contact, error)
	SetState(ctx context.Context, id int64, status Status, operatorID *int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]Contact, int, error)
	// ListOpenByLead locks and returns the lead's contacts in new or in_progress.
	ListOpenByLead(ctx context.Context, leadID int64) ([]Contact, error)
	CountOpenByOperator(ctx context.Context, operatorID int64) (int, error)
	CountOpenBySource(ctx context.Context, sourceID int64) (int, error)
}
