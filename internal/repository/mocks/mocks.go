package mocks

import (
	"context"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/stretchr/testify/mock"
)

// Transactor runs fn inline, passing ctx through.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

// OperatorRepository is a mock for operator.Repository.
type OperatorRepository struct {
	mock.Mock
}

func (m *OperatorRepository) Create(ctx context.Context, op *operator.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *OperatorRepository) Get(ctx context.Context, id int64) (*operator.Operator, error) {
	args := m.Called(ctx, id)
	if op, ok := args.Get(0).(*operator.Operator); ok {
		return op, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OperatorRepository) GetForUpdate(ctx context.Context, id int64) (*operator.Operator, error) {
	args := m.Called(ctx, id)
	if op, ok := args.Get(0).(*operator.Operator); ok {
		return op, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *OperatorRepository) Update(ctx context.Context, op *operator.Operator) error {
	args := m.Called(ctx, op)
	return args.Error(0)
}

func (m *OperatorRepository) SetActive(ctx context.Context, id int64, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *OperatorRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *OperatorRepository) List(ctx context.Context, opts operator.ListOptions) ([]operator.Operator, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]operator.Operator); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *OperatorRepository) CandidatesFor(ctx context.Context, sourceID int64) ([]operator.Operator, error) {
	args := m.Called(ctx, sourceID)
	if list, ok := args.Get(0).([]operator.Operator); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// SourceRepository is a mock for source.Repository.
type SourceRepository struct {
	mock.Mock
}

func (m *SourceRepository) Create(ctx context.Context, src *source.Source) error {
	args := m.Called(ctx, src)
	return args.Error(0)
}

func (m *SourceRepository) Get(ctx context.Context, id int64) (*source.Source, error) {
	args := m.Called(ctx, id)
	if src, ok := args.Get(0).(*source.Source); ok {
		return src, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SourceRepository) Update(ctx context.Context, src *source.Source) error {
	args := m.Called(ctx, src)
	return args.Error(0)
}

func (m *SourceRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *SourceRepository) List(ctx context.Context, opts source.ListOptions) ([]source.Source, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]source.Source); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// PriorityRepository is a mock for priority.Repository.
type PriorityRepository struct {
	mock.Mock
}

func (m *PriorityRepository) Upsert(ctx context.Context, p *priority.Priority) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PriorityRepository) Get(ctx context.Context, id int64) (*priority.Priority, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*priority.Priority); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *PriorityRepository) WeightOf(ctx context.Context, operatorID, sourceID int64) (int, bool, error) {
	args := m.Called(ctx, operatorID, sourceID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *PriorityRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *PriorityRepository) List(ctx context.Context, opts priority.ListOptions) ([]priority.Priority, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]priority.Priority); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

// LeadRepository is a mock for lead.Repository.
type LeadRepository struct {
	mock.Mock
}

func (m *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *LeadRepository) Get(ctx context.Context, id int64) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if l, ok := args.Get(0).(*lead.Lead); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) GetByExternalID(ctx context.Context, externalID string) (*lead.Lead, error) {
	args := m.Called(ctx, externalID)
	if l, ok := args.Get(0).(*lead.Lead); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *LeadRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *LeadRepository) List(ctx context.Context, opts lead.ListOptions) ([]lead.Lead, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]lead.Lead); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *LeadRepository) LinkSource(ctx context.Context, leadID, sourceID int64) error {
	args := m.Called(ctx, leadID, sourceID)
	return args.Error(0)
}

func (m *LeadRepository) ListSources(ctx context.Context, leadID int64) ([]source.Source, error) {
	args := m.Called(ctx, leadID)
	if list, ok := args.Get(0).([]source.Source); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ContactRepository is a mock for contact.Repository.
type ContactRepository struct {
	mock.Mock
}

func (m *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ContactRepository) Get(ctx context.Context, id int64) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*contact.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContactRepository) GetForUpdate(ctx context.Context, id int64) (*contact.Contact, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*contact.Contact); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContactRepository) SetState(ctx context.Context, id int64, status contact.Status, operatorID *int64, at time.Time) error {
	args := m.Called(ctx, id, status, operatorID, at)
	return args.Error(0)
}

func (m *ContactRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ContactRepository) List(ctx context.Context, opts contact.ListOptions) ([]contact.Contact, int, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]contact.Contact); ok {
		return list, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *ContactRepository) ListOpenByLead(ctx context.Context, leadID int64) ([]contact.Contact, error) {
	args := m.Called(ctx, leadID)
	if list, ok := args.Get(0).([]contact.Contact); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ContactRepository) CountOpenByOperator(ctx context.Context, operatorID int64) (int, error) {
	args := m.Called(ctx, operatorID)
	return args.Int(0), args.Error(1)
}

func (m *ContactRepository) CountOpenBySource(ctx context.Context, sourceID int64) (int, error) {
	args := m.Called(ctx, sourceID)
	return args.Int(0), args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Ledger is a mock for the capacity ledger.
type Ledger struct {
	mock.Mock
}

func (m *Ledger) TryReserve(ctx context.Context, operatorID int64) (bool, error) {
	args := m.Called(ctx, operatorID)
	return args.Bool(0), args.Error(1)
}

func (m *Ledger) Release(ctx context.Context, operatorID int64) error {
	args := m.Called(ctx, operatorID)
	return args.Error(0)
}
