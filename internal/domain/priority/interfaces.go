package priority

import (
	"context"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
)

// Repository provides persistence operations for priorities.
type Repository interface {
	// Upsert inserts the pair or updates its weight in place, filling p.ID.
	Upsert(ctx context.Context, p *Priority) error
	Get(ctx context.Context, id int64) (*Priority, error)
	// WeightOf returns ok=false when the operator is not eligible for the source.
	WeightOf(ctx context.Context, operatorID, sourceID int64) (int, bool, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]Priority, int, error)
}

// OperatorGetter resolves operators for existence checks.
type OperatorGetter interface {
	Get(ctx context.Context, id int64) (*operator.Operator, error)
}

// SourceGetter resolves sources for existence checks.
type SourceGetter interface {
	Get(ctx context.Context, id int64) (*source.Source, error)
}
