package lead

import (
	"context"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
)

// Repository provides persistence operations for leads.
type Repository interface {
	// Create inserts the lead; a taken external id yields repository.ErrConflict.
	Create(ctx context.Context, l *Lead) error
	Get(ctx context.Context, id int64) (*Lead, error)
	GetByExternalID(ctx context.Context, externalID string) (*Lead, error)
	Update(ctx context.Context, l *Lead) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]Lead, int, error)
	// LinkSource records that the lead arrived via the source; existing links are kept.
	LinkSource(ctx context.Context, leadID, sourceID int64) error
	ListSources(ctx context.Context, leadID int64) ([]source.Source, error)
}
