package contact

import (
	"context"
	"errors"
	"fmt"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Service exposes contact reads. Every mutation that can touch operator load
// goes through the assignment engine.
type Service struct {
	repo Repository
}

// NewService creates a new contact service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get fetches a contact by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Contact, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	return c, nil
}

// List returns a filtered page of contacts.
func (s *Service) List(ctx context.Context, opts ListOptions) (*listing.Page[Contact], error) {
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *opts.Status)
	}
	normalized, err := opts.Options.Normalize(SortFields)
	if err != nil {
		return nil, err
	}
	opts.Options = normalized

	contacts, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return listing.NewPage(contacts, total, opts.Options), nil
}
