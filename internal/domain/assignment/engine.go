// Package assignment routes incoming leads to operators and keeps operator
// load in step with contact lifecycle.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/metrics"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
	"github.com/ko2fey/test-task-mini-crm/internal/tracing"
)

// DefaultMaxReserveAttempts tries only the best candidate. A lost race
// queues the contact.
const DefaultMaxReserveAttempts = 1

// Config wires the engine's collaborators.
type Config struct {
	Tx         repository.Transactor
	Sources    SourceGetter
	Operators  OperatorDirectory
	Priorities PriorityIndex
	Leads      LeadResolver
	LeadStore  LeadStore
	Contacts   ContactStore
	Ledger     Ledger
	Activity   ActivityRecorder
	Metrics    metrics.Collector
	Logger     *slog.Logger
	// MaxReserveAttempts bounds how many ranked candidates are tried.
	MaxReserveAttempts int
}

// Engine selects operators and accounts for their load.
type Engine struct {
	tx          repository.Transactor
	sources     SourceGetter
	operators   OperatorDirectory
	priorities  PriorityIndex
	leads       LeadResolver
	leadStore   LeadStore
	contacts    ContactStore
	ledger      Ledger
	activity    ActivityRecorder
	metrics     metrics.Collector
	logger      *slog.Logger
	maxAttempts int
}

// NewEngine creates an assignment engine.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		tx:          cfg.Tx,
		sources:     cfg.Sources,
		operators:   cfg.Operators,
		priorities:  cfg.Priorities,
		leads:       cfg.Leads,
		leadStore:   cfg.LeadStore,
		contacts:    cfg.Contacts,
		ledger:      cfg.Ledger,
		activity:    cfg.Activity,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		maxAttempts: cfg.MaxReserveAttempts,
	}
	if e.metrics == nil {
		e.metrics = metrics.NewNop()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.activity == nil {
		e.activity = nopRecorder{}
	}
	if e.maxAttempts < 1 {
		e.maxAttempts = DefaultMaxReserveAttempts
	}
	return e
}

// AssignRequest describes one lead arrival.
type AssignRequest struct {
	ExternalID string
	Name       *string
	SourceID   int64
}

// AssignResult is the outcome of an assignment. Operator is nil when the
// contact was queued; otherwise it is the ranking snapshot of the chosen
// operator including the reserved slot.
type AssignResult struct {
	Lead     *lead.Lead         `json:"lead,omitempty"`
	Contact  *contact.Contact   `json:"contact"`
	Operator *operator.Operator `json:"operator,omitempty"`
}

// Queued reports whether no operator could take the contact.
func (r AssignResult) Queued() bool {
	return r.Operator == nil
}

// AssignLead resolves the lead, links it to the source, and creates a contact
// held by the best available operator, or queued when none is available.
//
// Lead resolution and linking commit on their own and are idempotent. The
// reservation and the contact insert share one transaction.
func (e *Engine) AssignLead(ctx context.Context, req AssignRequest) (res *AssignResult, err error) {
	started := time.Now()
	ctx, span := tracing.StartSpan(ctx, "assignment.AssignLead")
	span.SetInt64("source_id", req.SourceID)
	defer func() { tracing.EndSpan(span, err) }()

	if err := e.requireSource(ctx, req.SourceID); err != nil {
		return nil, err
	}
	ld, err := e.leads.Resolve(ctx, req.ExternalID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := e.leads.LinkSource(ctx, ld.ID, req.SourceID); err != nil {
		return nil, err
	}

	ranked, err := e.rank(ctx, req.SourceID)
	if err != nil {
		return nil, err
	}

	var (
		chosen *Candidate
		lost   []int64
		c      *contact.Contact
	)
	err = e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		chosen, lost, err = e.reserve(txCtx, ranked)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		c = &contact.Contact{
			LeadID:    ld.ID,
			SourceID:  req.SourceID,
			Status:    contact.StatusInQueue,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if chosen != nil {
			opID := chosen.Operator.ID
			c.OperatorID = &opID
			c.Status = contact.StatusNew
		}
		if err := e.contacts.Create(txCtx, c); err != nil {
			return fmt.Errorf("creating contact: %w", err)
		}
		return nil
	})
	e.recordLost(ctx, lost, ld.ID, req.SourceID)
	if err != nil {
		return nil, err
	}

	res = &AssignResult{Lead: ld, Contact: c}
	if chosen != nil {
		op := chosen.Operator
		op.CurrentLoad++
		res.Operator = &op
		e.metrics.RecordAssignment(metrics.OutcomeAssigned)
		span.SetInt64("operator_id", op.ID).SetString("outcome", metrics.OutcomeAssigned)
		e.logger.Info("lead assigned", "lead_id", ld.ID, "contact_id", c.ID, "operator_id", op.ID, "source_id", req.SourceID, "status", c.Status)
		e.activity.Record(ctx, &activity.Entry{
			Type:       activity.TypeLeadAssigned,
			LeadID:     &ld.ID,
			ContactID:  &c.ID,
			OperatorID: &op.ID,
			SourceID:   &req.SourceID,
			Summary:    fmt.Sprintf("contact %d assigned to operator %d (%s)", c.ID, op.ID, op.Name),
		})
	} else {
		e.metrics.RecordAssignment(metrics.OutcomeQueued)
		span.SetString("outcome", metrics.OutcomeQueued)
		e.logger.Info("lead queued", "lead_id", ld.ID, "contact_id", c.ID, "source_id", req.SourceID, "candidates", len(ranked))
		e.activity.Record(ctx, &activity.Entry{
			Type:      activity.TypeLeadQueued,
			LeadID:    &ld.ID,
			ContactID: &c.ID,
			SourceID:  &req.SourceID,
			Summary:   fmt.Sprintf("contact %d queued, no operator available", c.ID),
		})
	}
	e.metrics.ObserveAssignLatency(time.Since(started).Seconds())
	return res, nil
}

// ListAvailableOperators ranks the operators who could take a lead from the
// source right now, best first. Nothing is reserved.
func (e *Engine) ListAvailableOperators(ctx context.Context, sourceID int64) ([]Candidate, error) {
	if err := e.requireSource(ctx, sourceID); err != nil {
		return nil, err
	}
	return e.rank(ctx, sourceID)
}

// Complete finishes a contact and frees its operator's slot.
func (e *Engine) Complete(ctx context.Context, contactID int64) (*contact.Contact, error) {
	return e.UpdateStatus(ctx, contactID, contact.StatusDone)
}

// UpdateStatus moves a contact along its lifecycle. Reaching done releases
// the slot in the same transaction as the status change.
func (e *Engine) UpdateStatus(ctx context.Context, contactID int64, status contact.Status) (updated *contact.Contact, err error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.UpdateStatus")
	span.SetInt64("contact_id", contactID).SetString("status", string(status))
	defer func() { tracing.EndSpan(span, err) }()

	var (
		from     contact.Status
		released bool
	)
	err = e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		c, err := e.lockContact(txCtx, contactID)
		if err != nil {
			return err
		}
		if err := contact.ValidateTransition(c.Status, status); err != nil {
			return err
		}
		if status == contact.StatusDone && c.HoldsSlot() {
			if err := e.release(txCtx, *c.OperatorID); err != nil {
				return err
			}
			released = true
		}
		now := time.Now().UTC()
		if err := e.contacts.SetState(txCtx, c.ID, status, c.OperatorID, now); err != nil {
			return fmt.Errorf("updating contact: %w", err)
		}
		from = c.Status
		c.Status = status
		c.UpdatedAt = now
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	entryType := activity.TypeStatusChanged
	if status == contact.StatusDone {
		entryType = activity.TypeContactCompleted
	}
	if released {
		e.metrics.RecordRelease(metrics.ReleaseCompleted)
		e.logger.Debug("slot released", "operator_id", *updated.OperatorID, "contact_id", contactID, "reason", metrics.ReleaseCompleted)
	}
	e.logger.Info("contact status changed", "contact_id", contactID, "from", from, "to", status)
	e.activity.Record(ctx, &activity.Entry{
		Type:       entryType,
		LeadID:     &updated.LeadID,
		ContactID:  &updated.ID,
		OperatorID: updated.OperatorID,
		SourceID:   &updated.SourceID,
		Summary:    fmt.Sprintf("contact %d %s -> %s", contactID, from, status),
	})
	return updated, nil
}

// Remove deletes a contact, freeing its operator's slot if it held one.
func (e *Engine) Remove(ctx context.Context, contactID int64) (err error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.Remove")
	span.SetInt64("contact_id", contactID)
	defer func() { tracing.EndSpan(span, err) }()

	var removed *contact.Contact
	var released bool
	err = e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		c, err := e.lockContact(txCtx, contactID)
		if err != nil {
			return err
		}
		if c.HoldsSlot() {
			if err := e.release(txCtx, *c.OperatorID); err != nil {
				return err
			}
			released = true
		}
		if err := e.contacts.Delete(txCtx, c.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return contact.ErrContactNotFound
			}
			return fmt.Errorf("deleting contact: %w", err)
		}
		removed = c
		return nil
	})
	if err != nil {
		return err
	}

	if released {
		e.metrics.RecordRelease(metrics.ReleaseRemoved)
		e.logger.Debug("slot released", "operator_id", *removed.OperatorID, "contact_id", contactID, "reason", metrics.ReleaseRemoved)
	}
	e.logger.Info("contact removed", "contact_id", contactID, "status", removed.Status)
	e.activity.Record(ctx, &activity.Entry{
		Type:       activity.TypeContactRemoved,
		LeadID:     &removed.LeadID,
		ContactID:  &removed.ID,
		OperatorID: removed.OperatorID,
		SourceID:   &removed.SourceID,
		Summary:    fmt.Sprintf("contact %d removed in status %s", contactID, removed.Status),
	})
	return nil
}

// DispatchQueued retries selection for a queued contact. If an operator is
// available the contact moves to new; otherwise it stays queued and the
// result has no operator.
func (e *Engine) DispatchQueued(ctx context.Context, contactID int64) (res *AssignResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.DispatchQueued")
	span.SetInt64("contact_id", contactID)
	defer func() { tracing.EndSpan(span, err) }()

	current, err := e.contacts.Get(ctx, contactID)
	if err != nil {
		return nil, mapContactErr(err)
	}
	if current.Status != contact.StatusInQueue {
		return nil, fmt.Errorf("%w: contact %d is %s", contact.ErrInvalidTransition, contactID, current.Status)
	}

	ranked, err := e.rank(ctx, current.SourceID)
	if err != nil {
		return nil, err
	}

	var (
		chosen *Candidate
		lost   []int64
		c      *contact.Contact
	)
	err = e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		c, err = e.lockContact(txCtx, contactID)
		if err != nil {
			return err
		}
		if c.Status != contact.StatusInQueue {
			return fmt.Errorf("%w: contact %d is %s", contact.ErrInvalidTransition, contactID, c.Status)
		}
		chosen, lost, err = e.reserve(txCtx, ranked)
		if err != nil || chosen == nil {
			return err
		}
		now := time.Now().UTC()
		opID := chosen.Operator.ID
		if err := e.contacts.SetState(txCtx, c.ID, contact.StatusNew, &opID, now); err != nil {
			return fmt.Errorf("updating contact: %w", err)
		}
		c.Status = contact.StatusNew
		c.OperatorID = &opID
		c.UpdatedAt = now
		return nil
	})
	e.recordLost(ctx, lost, current.LeadID, current.SourceID)
	if err != nil {
		return nil, err
	}

	res = &AssignResult{Contact: c}
	if chosen == nil {
		e.logger.Debug("queued contact still waiting", "contact_id", contactID, "candidates", len(ranked))
		return res, nil
	}

	op := chosen.Operator
	op.CurrentLoad++
	res.Operator = &op
	e.metrics.RecordAssignment(metrics.OutcomeDispatched)
	e.logger.Info("queued contact dispatched", "contact_id", contactID, "operator_id", op.ID)
	e.activity.Record(ctx, &activity.Entry{
		Type:       activity.TypeContactDispatched,
		LeadID:     &c.LeadID,
		ContactID:  &c.ID,
		OperatorID: &op.ID,
		SourceID:   &c.SourceID,
		Summary:    fmt.Sprintf("queued contact %d dispatched to operator %d (%s)", c.ID, op.ID, op.Name),
	})
	return res, nil
}

// DeleteLead removes a lead with its contacts and links, releasing every
// slot its open contacts held in the same transaction.
func (e *Engine) DeleteLead(ctx context.Context, leadID int64) (err error) {
	ctx, span := tracing.StartSpan(ctx, "assignment.DeleteLead")
	span.SetInt64("lead_id", leadID)
	defer func() { tracing.EndSpan(span, err) }()

	released := 0
	err = e.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := e.leadStore.Get(txCtx, leadID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return lead.ErrLeadNotFound
			}
			return fmt.Errorf("getting lead: %w", err)
		}
		open, err := e.contacts.ListOpenByLead(txCtx, leadID)
		if err != nil {
			return fmt.Errorf("listing open contacts: %w", err)
		}
		for _, c := range open {
			if !c.HoldsSlot() {
				continue
			}
			if err := e.release(txCtx, *c.OperatorID); err != nil {
				return err
			}
			released++
		}
		if err := e.leadStore.Delete(txCtx, leadID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return lead.ErrLeadNotFound
			}
			return fmt.Errorf("deleting lead: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i := 0; i < released; i++ {
		e.metrics.RecordRelease(metrics.ReleaseLeadDeleted)
	}
	e.logger.Info("lead deleted", "lead_id", leadID, "released", released)
	e.activity.Record(ctx, &activity.Entry{
		Type:    activity.TypeLeadDeleted,
		LeadID:  &leadID,
		Summary: fmt.Sprintf("lead %d deleted, %d slots released", leadID, released),
	})
	return nil
}

// rank scores the directory's candidates for a source. Operators without a
// priority for the source are skipped.
func (e *Engine) rank(ctx context.Context, sourceID int64) ([]Candidate, error) {
	ops, err := e.operators.CandidatesFor(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("listing candidates: %w", err)
	}
	candidates := make([]Candidate, 0, len(ops))
	for _, op := range ops {
		if !op.Available() {
			continue
		}
		weight, ok, err := e.priorities.WeightOf(ctx, op.ID, sourceID)
		if err != nil {
			return nil, fmt.Errorf("reading weight of operator %d: %w", op.ID, err)
		}
		if !ok {
			continue
		}
		candidates = append(candidates, NewCandidate(op, weight))
	}
	return Rank(candidates), nil
}

// reserve walks the ranking and takes a slot from the first candidate that
// still has one, trying at most maxAttempts candidates. It returns the ids of
// candidates that filled up after ranking.
func (e *Engine) reserve(ctx context.Context, ranked []Candidate) (*Candidate, []int64, error) {
	var lost []int64
	attempts := min(e.maxAttempts, len(ranked))
	for i := 0; i < attempts; i++ {
		cand := ranked[i]
		ok, err := e.ledger.TryReserve(ctx, cand.Operator.ID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, lost, fmt.Errorf("reserving operator %d: %w", cand.Operator.ID, err)
		}
		if ok {
			return &cand, lost, nil
		}
		lost = append(lost, cand.Operator.ID)
	}
	return nil, lost, nil
}

func (e *Engine) release(ctx context.Context, operatorID int64) error {
	if err := e.ledger.Release(ctx, operatorID); err != nil {
		return fmt.Errorf("releasing operator %d: %w", operatorID, err)
	}
	return nil
}

func (e *Engine) recordLost(ctx context.Context, lost []int64, leadID, sourceID int64) {
	for _, opID := range lost {
		e.metrics.RecordReservationLost()
		e.logger.Warn("reservation lost", "operator_id", opID, "lead_id", leadID, "source_id", sourceID)
		e.activity.Record(ctx, &activity.Entry{
			Type:       activity.TypeReservationLost,
			LeadID:     &leadID,
			OperatorID: &opID,
			SourceID:   &sourceID,
			Summary:    fmt.Sprintf("operator %d filled up before reservation", opID),
		})
	}
}

func (e *Engine) requireSource(ctx context.Context, sourceID int64) error {
	if _, err := e.sources.Get(ctx, sourceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return source.ErrSourceNotFound
		}
		return fmt.Errorf("checking source: %w", err)
	}
	return nil
}

func (e *Engine) lockContact(ctx context.Context, contactID int64) (*contact.Contact, error) {
	c, err := e.contacts.GetForUpdate(ctx, contactID)
	if err != nil {
		return nil, mapContactErr(err)
	}
	return c, nil
}

func mapContactErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return contact.ErrContactNotFound
	}
	return fmt.Errorf("getting contact: %w", err)
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, *activity.Entry) {}
