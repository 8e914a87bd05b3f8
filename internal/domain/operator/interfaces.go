package operator

import (
	"context"

	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Repository provides persistence operations for operators.
type Repository interface {
	Create(ctx context.Context, op *Operator) error
	Get(ctx context.Context, id int64) (*Operator, error)
	GetForUpdate(ctx context.Context, id int64) (*Operator, error)
	Update(ctx context.Context, op *Operator) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts ListOptions) ([]Operator, int, error)
	CandidatesFor(ctx context.Context, sourceID int64) ([]Operator, error)
}

// OpenContactCounter counts contacts still occupying an operator.
type OpenContactCounter interface {
	CountOpenByOperator(ctx context.Context, operatorID int64) (int, error)
}

// Transactor is the transaction runner used for guarded mutations.
type Transactor = repository.Transactor
