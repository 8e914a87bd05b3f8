package lead

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Service handles lead operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new lead service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines lead creation inputs.
type CreateRequest struct {
	ExternalID string
	Name       *string
}

// Create creates a new lead. The external id must be unused.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Lead, error) {
	l, err := newLead(req.ExternalID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, l); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateExternalID
		}
		return nil, fmt.Errorf("creating lead: %w", err)
	}
	return l, nil
}

// Resolve returns the lead with externalID, creating it if missing.
//
// Two concurrent arrivals of a new lead race on the unique external id; the
// loser re-reads the winner's row instead of failing.
func (s *Service) Resolve(ctx context.Context, externalID string, name *string) (*Lead, error) {
	l, err := newLead(externalID, name)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByExternalID(ctx, l.ExternalID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("finding lead: %w", err)
	}

	err = s.repo.Create(ctx, l)
	if err == nil {
		s.logger.Debug("lead created", "lead_id", l.ID, "external_id", l.ExternalID)
		return l, nil
	}
	if !errors.Is(err, repository.ErrConflict) {
		return nil, fmt.Errorf("creating lead: %w", err)
	}

	existing, err = s.repo.GetByExternalID(ctx, l.ExternalID)
	if err != nil {
		return nil, fmt.Errorf("re-reading lead after conflict: %w", err)
	}
	return existing, nil
}

// LinkSource associates the lead with a source. Repeated links are no-ops.
func (s *Service) LinkSource(ctx context.Context, leadID, sourceID int64) error {
	if err := s.repo.LinkSource(ctx, leadID, sourceID); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return fmt.Errorf("%w: lead %d or source %d", ErrSourceNotFound, leadID, sourceID)
		}
		return fmt.Errorf("linking lead source: %w", err)
	}
	return nil
}

// Get fetches a lead by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Lead, error) {
	l, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("getting lead: %w", err)
	}
	return l, nil
}

// Rename changes or clears the display name.
func (s *Service) Rename(ctx context.Context, id int64, name *string) (*Lead, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	l, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Name = name
	if err := s.repo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("updating lead: %w", err)
	}
	return l, nil
}

// List returns a page of leads.
func (s *Service) List(ctx context.Context, opts ListOptions) (*listing.Page[Lead], error) {
	normalized, err := opts.Options.Normalize(SortFields)
	if err != nil {
		return nil, err
	}
	opts.Options = normalized

	leads, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	return listing.NewPage(leads, total, opts.Options), nil
}

// ListSources returns every source the lead has arrived through.
func (s *Service) ListSources(ctx context.Context, leadID int64) ([]source.Source, error) {
	if _, err := s.Get(ctx, leadID); err != nil {
		return nil, err
	}
	sources, err := s.repo.ListSources(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("listing lead sources: %w", err)
	}
	return sources, nil
}

func newLead(externalID string, name *string) (*Lead, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" || utf8.RuneCountInString(externalID) > MaxExternalIDLength {
		return nil, fmt.Errorf("%w: external_id must be 1-%d characters", ErrInvalidInput, MaxExternalIDLength)
	}
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}
	return &Lead{
		ExternalID: externalID,
		Name:       name,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

func validateName(name *string) (*string, error) {
	if name == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > MaxNameLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, MaxNameLength)
	}
	return &trimmed, nil
}
