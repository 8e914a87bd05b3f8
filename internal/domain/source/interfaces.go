package source

import (
	"context"

	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Repository provides persistence operations for sources.
type Repository interface {
	Create(ctx context.Context, src *Source) error
	Get(ctx context.Context, id int64) (*Source, error)
	Update(ctx context.Context, src *Source) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]Source, int, error)
}

// OpenContactCounter counts contacts from a source still held by an operator.
type OpenContactCounter interface {
	CountOpenBySource(ctx context.Context, sourceID int64) (int, error)
}

// Transactor is the transaction runner used for guarded deletes.
type Transactor = repository.Transactor
