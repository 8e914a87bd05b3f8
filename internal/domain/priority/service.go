package priority

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Service is the priority index: who may take leads from which source, and how eagerly.
type Service struct {
	repo      Repository
	operators OperatorGetter
	sources   SourceGetter
	logger    *slog.Logger
}

// NewService creates a new priority service.
func NewService(repo Repository, operators OperatorGetter, sources SourceGetter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, operators: operators, sources: sources, logger: logger}
}

// UpsertRequest sets the weight of an operator for a source.
type UpsertRequest struct {
	OperatorID int64
	SourceID   int64
	Weight     int
}

// Upsert creates the pair or updates its weight, never duplicating it.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (*Priority, error) {
	if req.Weight < 0 {
		return nil, fmt.Errorf("%w: weight must be non-negative", ErrInvalidInput)
	}
	if _, err := s.operators.Get(ctx, req.OperatorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, fmt.Errorf("checking operator: %w", err)
	}
	if _, err := s.sources.Get(ctx, req.SourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("checking source: %w", err)
	}

	now := time.Now().UTC()
	p := &Priority{
		OperatorID: req.OperatorID,
		SourceID:   req.SourceID,
		Weight:     req.Weight,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Upsert(ctx, p); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: operator or source removed concurrently", ErrInvalidInput)
		}
		return nil, fmt.Errorf("upserting priority: %w", err)
	}
	s.logger.Debug("priority set", "operator_id", p.OperatorID, "source_id", p.SourceID, "weight", p.Weight)
	return p, nil
}

// WeightOf reads the weight of the pair; ok=false means not eligible.
func (s *Service) WeightOf(ctx context.Context, operatorID, sourceID int64) (int, bool, error) {
	return s.repo.WeightOf(ctx, operatorID, sourceID)
}

// Get fetches a priority by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Priority, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPriorityNotFound
		}
		return nil, fmt.Errorf("getting priority: %w", err)
	}
	return p, nil
}

// Delete removes a priority; the operator stops being eligible for that source.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPriorityNotFound
		}
		return fmt.Errorf("deleting priority: %w", err)
	}
	return nil
}

// List returns a page of priorities.
func (s *Service) List(ctx context.Context, opts ListOptions) (*listing.Page[Priority], error) {
	normalized, err := opts.Options.Normalize(SortFields)
	if err != nil {
		return nil, err
	}
	opts.Options = normalized

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing priorities: %w", err)
	}
	return listing.NewPage(items, total, opts.Options), nil
}
