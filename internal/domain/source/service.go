package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Service handles source operations.
type Service struct {
	repo     Repository
	contacts OpenContactCounter
	tx       Transactor
	logger   *slog.Logger
}

// NewService creates a new source service.
func NewService(repo Repository, contacts OpenContactCounter, tx Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, contacts: contacts, tx: tx, logger: logger}
}

// Create registers a new source.
func (s *Service) Create(ctx context.Context, name string) (*Source, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	src := &Source{Name: name, CreatedAt: time.Now().UTC()}
	if err := s.repo.Create(ctx, src); err != nil {
		return nil, fmt.Errorf("creating source: %w", err)
	}
	return src, nil
}

// Get fetches a source by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Source, error) {
	src, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("getting source: %w", err)
	}
	return src, nil
}

// Rename changes the source name.
func (s *Service) Rename(ctx context.Context, id int64, name string) (*Source, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	src.Name = name
	if err := s.repo.Update(ctx, src); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSourceNotFound
		}
		return nil, fmt.Errorf("updating source: %w", err)
	}
	return src, nil
}

// Delete removes a source unless an operator is still working one of its
// contacts. Priorities, lead links and remaining contacts cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		open, err := s.contacts.CountOpenBySource(ctx, id)
		if err != nil {
			return fmt.Errorf("counting open contacts: %w", err)
		}
		if err := CanDelete(id, open); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrSourceNotFound
			}
			return fmt.Errorf("deleting source: %w", err)
		}
		s.logger.Info("source deleted", "source_id", id)
		return nil
	})
}

// List returns a page of sources.
func (s *Service) List(ctx context.Context, opts ListOptions) (*listing.Page[Source], error) {
	normalized, err := opts.Options.Normalize(SortFields)
	if err != nil {
		return nil, err
	}
	opts.Options = normalized

	sources, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return listing.NewPage(sources, total, opts.Options), nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, MaxNameLength)
	}
	return name, nil
}
