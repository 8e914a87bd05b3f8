package operator

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

// Service handles operator directory operations.
type Service struct {
	repo     Repository
	contacts OpenContactCounter
	tx       Transactor
	logger   *slog.Logger
}

// NewService creates a new operator service.
func NewService(repo Repository, contacts OpenContactCounter, tx Transactor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, contacts: contacts, tx: tx, logger: logger}
}

// CreateRequest defines operator creation inputs.
type CreateRequest struct {
	Name    string
	MaxLoad *int
	Active  *bool
}

// UpdateRequest defines admin-editable operator fields.
type UpdateRequest struct {
	ID      int64
	Name    *string
	MaxLoad *int
}

// Create registers a new operator with an empty load.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Operator, error) {
	name, err := validateName(req.Name)
	if err != nil {
		return nil, err
	}
	maxLoad := DefaultMaxLoad
	if req.MaxLoad != nil {
		maxLoad = *req.MaxLoad
	}
	if maxLoad <= 0 {
		return nil, fmt.Errorf("%w: max_load must be positive", ErrInvalidInput)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	now := time.Now().UTC()
	op := &Operator{
		Name:      name,
		MaxLoad:   maxLoad,
		Active:    active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("creating operator: %w", err)
	}
	return op, nil
}

// Get fetches an operator by ID.
func (s *Service) Get(ctx context.Context, id int64) (*Operator, error) {
	op, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, "getting operator")
	}
	return op, nil
}

// Update changes name and capacity. The operator row is locked so the
// capacity check sees the load the ledger sees.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*Operator, error) {
	var name string
	if req.Name != nil {
		n, err := validateName(*req.Name)
		if err != nil {
			return nil, err
		}
		name = n
	}

	var updated *Operator
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		op, err := s.repo.GetForUpdate(ctx, req.ID)
		if err != nil {
			return mapNotFound(err, "locking operator")
		}
		if req.Name != nil {
			op.Name = name
		}
		if req.MaxLoad != nil {
			guard := CanSetMaxLoad(CapacityContext{
				OperatorID:  op.ID,
				CurrentLoad: op.CurrentLoad,
				NewMaxLoad:  *req.MaxLoad,
			})
			if *req.MaxLoad <= 0 {
				return guard.Error(ErrInvalidInput)
			}
			if err := guard.Error(ErrLoadAboveCapacity); err != nil {
				return err
			}
			op.MaxLoad = *req.MaxLoad
		}
		op.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, op); err != nil {
			return fmt.Errorf("updating operator: %w", err)
		}
		updated = op
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Activate makes the operator eligible for new contacts.
func (s *Service) Activate(ctx context.Context, id int64) (*Operator, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate stops new assignments. Contacts already held keep their slots.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Operator, error) {
	return s.setActive(ctx, id, false)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) (*Operator, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, mapNotFound(err, "setting operator activity")
	}
	s.logger.Info("operator activity changed", "operator_id", id, "active", active)
	return s.Get(ctx, id)
}

// Delete removes an operator that holds no open contacts. Its priorities and
// finished contacts are removed with it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetForUpdate(ctx, id); err != nil {
			return mapNotFound(err, "locking operator")
		}
		open, err := s.contacts.CountOpenByOperator(ctx, id)
		if err != nil {
			return fmt.Errorf("counting open contacts: %w", err)
		}
		if err := CanDelete(DeleteContext{OperatorID: id, OpenContacts: open}).Error(ErrForbiddenDelete); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return mapNotFound(err, "deleting operator")
		}
		return nil
	})
}

// List returns a page of operators.
func (s *Service) List(ctx context.Context, opts ListOptions) (*listing.Page[Operator], error) {
	normalized, err := opts.Options.Normalize(SortFields)
	if err != nil {
		return nil, err
	}
	opts.Options = normalized

	ops, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing operators: %w", err)
	}
	return listing.NewPage(ops, total, opts.Options), nil
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidInput, MaxNameLength)
	}
	return name, nil
}

func mapNotFound(err error, op string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrOperatorNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
