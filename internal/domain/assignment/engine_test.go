package assignment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
	"github.com/ko2fey/test-task-mini-crm/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type engineFixture struct {
	engine     *assignment.Engine
	tx         *mocks.Transactor
	sources    *mocks.SourceRepository
	operators  *mocks.OperatorRepository
	priorities *mocks.PriorityRepository
	leads      *mocks.LeadRepository
	contacts   *mocks.ContactRepository
	ledger     *mocks.Ledger
}

func newEngineFixture(t *testing.T, maxAttempts int) *engineFixture {
	t.Helper()
	f := &engineFixture{
		tx:         &mocks.Transactor{},
		sources:    &mocks.SourceRepository{},
		operators:  &mocks.OperatorRepository{},
		priorities: &mocks.PriorityRepository{},
		leads:      &mocks.LeadRepository{},
		contacts:   &mocks.ContactRepository{},
		ledger:     &mocks.Ledger{},
	}
	f.engine = assignment.NewEngine(assignment.Config{
		Tx:                 f.tx,
		Sources:            f.sources,
		Operators:          f.operators,
		Priorities:         f.priorities,
		Leads:              lead.NewService(f.leads, nil),
		LeadStore:          f.leads,
		Contacts:           f.contacts,
		Ledger:             f.ledger,
		MaxReserveAttempts: maxAttempts,
	})
	return f
}

func (f *engineFixture) expectSource(id int64) {
	f.sources.On("Get", mock.Anything, id).Return(&source.Source{ID: id, Name: "Telegram bot"}, nil)
}

func (f *engineFixture) expectExistingLead(externalID string, id int64) {
	f.leads.On("GetByExternalID", mock.Anything, externalID).Return(&lead.Lead{ID: id, ExternalID: externalID}, nil)
}

func (f *engineFixture) expectContactCreate(id int64) {
	f.contacts.On("Create", mock.Anything, mock.AnythingOfType("*contact.Contact")).
		Run(func(args mock.Arguments) { args.Get(1).(*contact.Contact).ID = id }).
		Return(nil)
}

func op(id int64, load int) operator.Operator {
	return operator.Operator{ID: id, Name: "op", MaxLoad: 10, CurrentLoad: load, Active: true}
}

func TestEngine_AssignLeadPicksBestCandidate(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t, 1)
	f.expectSource(1)
	f.leads.On("GetByExternalID", mock.Anything, "+79990001122").Return((*lead.Lead)(nil), repository.ErrNotFound)
	f.leads.On("Create", mock.Anything, mock.AnythingOfType("*lead.Lead")).
		Run(func(args mock.Arguments) { args.Get(1).(*lead.Lead).ID = 11 }).
		Return(nil)
	f.leads.On("LinkSource", mock.Anything, int64(11), int64(1)).Return(nil)
	// op1 scores 10/2 = 5, op2 scores 5/1 = 5; op2 has the lower load.
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 2), op(2, 0)}, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(1), int64(1)).Return(10, true, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(2), int64(1)).Return(5, true, nil)
	f.ledger.On("TryReserve", mock.Anything, int64(2)).Return(true, nil)
	f.expectContactCreate(100)

	res, err := f.engine.AssignLead(ctx, assignment.AssignRequest{ExternalID: "+79990001122", SourceID: 1})
	require.NoError(t, err)
	require.False(t, res.Queued())
	require.Equal(t, int64(2), res.Operator.ID)
	require.Equal(t, 1, res.Operator.CurrentLoad)
	require.Equal(t, int64(100), res.Contact.ID)
	require.Equal(t, contact.StatusNew, res.Contact.Status)
	require.Equal(t, int64(2), *res.Contact.OperatorID)
	require.Equal(t, int64(11), res.Lead.ID)
	require.Equal(t, 1, f.tx.Calls)
	f.ledger.AssertNotCalled(t, "TryReserve", mock.Anything, int64(1))
}

func TestEngine_AssignLeadQueuesWithoutCandidates(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.expectSource(1)
	f.expectExistingLead("ext", 5)
	f.leads.On("LinkSource", mock.Anything, int64(5), int64(1)).Return(nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{}, nil)
	f.expectContactCreate(7)

	res, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "ext", SourceID: 1})
	require.NoError(t, err)
	require.True(t, res.Queued())
	require.Equal(t, contact.StatusInQueue, res.Contact.Status)
	require.Nil(t, res.Contact.OperatorID)
	f.ledger.AssertNotCalled(t, "TryReserve", mock.Anything, mock.Anything)
	f.leads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEngine_AssignLeadSkipsOperatorsWithoutWeight(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.expectSource(1)
	f.expectExistingLead("ext", 5)
	f.leads.On("LinkSource", mock.Anything, int64(5), int64(1)).Return(nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 0), op(2, 3)}, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(1), int64(1)).Return(0, false, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(2), int64(1)).Return(1, true, nil)
	f.ledger.On("TryReserve", mock.Anything, int64(2)).Return(true, nil)
	f.expectContactCreate(7)

	res, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "ext", SourceID: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Operator.ID)
}

func TestEngine_AssignLeadLostRaceQueuesByDefault(t *testing.T) {
	f := newEngineFixture(t, 0)
	f.expectSource(1)
	f.expectExistingLead("ext", 5)
	f.leads.On("LinkSource", mock.Anything, int64(5), int64(1)).Return(nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 0), op(2, 0)}, nil)
	f.priorities.On("WeightOf", mock.Anything, mock.Anything, int64(1)).Return(10, true, nil)
	f.ledger.On("TryReserve", mock.Anything, int64(1)).Return(false, nil)
	f.expectContactCreate(7)

	res, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "ext", SourceID: 1})
	require.NoError(t, err)
	require.True(t, res.Queued())
	f.ledger.AssertNotCalled(t, "TryReserve", mock.Anything, int64(2))
}

func TestEngine_AssignLeadRetriesNextCandidateWhenConfigured(t *testing.T) {
	f := newEngineFixture(t, 3)
	f.expectSource(1)
	f.expectExistingLead("ext", 5)
	f.leads.On("LinkSource", mock.Anything, int64(5), int64(1)).Return(nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 0), op(2, 0)}, nil)
	f.priorities.On("WeightOf", mock.Anything, mock.Anything, int64(1)).Return(10, true, nil)
	f.ledger.On("TryReserve", mock.Anything, int64(1)).Return(false, nil).Once()
	f.ledger.On("TryReserve", mock.Anything, int64(2)).Return(true, nil).Once()
	f.expectContactCreate(7)

	res, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "ext", SourceID: 1})
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Operator.ID)
	f.ledger.AssertExpectations(t)
}

func TestEngine_AssignLeadUnknownSource(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.sources.On("Get", mock.Anything, int64(42)).Return((*source.Source)(nil), repository.ErrNotFound)

	_, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "ext", SourceID: 42})
	require.ErrorIs(t, err, source.ErrSourceNotFound)
	f.leads.AssertNotCalled(t, "GetByExternalID", mock.Anything, mock.Anything)
}

func TestEngine_AssignLeadInvalidExternalID(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.expectSource(1)

	_, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "  ", SourceID: 1})
	require.ErrorIs(t, err, lead.ErrInvalidInput)
}

func TestEngine_AssignLeadContactFailureSurfaces(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.expectSource(1)
	f.expectExistingLead("ext", 5)
	f.leads.On("LinkSource", mock.Anything, int64(5), int64(1)).Return(nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 0)}, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(1), int64(1)).Return(10, true, nil)
	f.ledger.On("TryReserve", mock.Anything, int64(1)).Return(true, nil)
	f.contacts.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDatabase)

	_, err := f.engine.AssignLead(context.Background(), assignment.AssignRequest{ExternalID: "ext", SourceID: 1})
	require.ErrorIs(t, err, repository.ErrDatabase)
}

func TestEngine_CompleteReleasesSlot(t *testing.T) {
	opID := int64(3)
	f := newEngineFixture(t, 1)
	f.contacts.On("GetForUpdate", mock.Anything, int64(9)).
		Return(&contact.Contact{ID: 9, LeadID: 1, SourceID: 1, OperatorID: &opID, Status: contact.StatusInProgress}, nil)
	f.ledger.On("Release", mock.Anything, opID).Return(nil).Once()
	f.contacts.On("SetState", mock.Anything, int64(9), contact.StatusDone, &opID, mock.Anything).Return(nil)

	c, err := f.engine.Complete(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, contact.StatusDone, c.Status)
	require.Equal(t, opID, *c.OperatorID)
	f.ledger.AssertExpectations(t)
}

func TestEngine_CompleteTwiceFails(t *testing.T) {
	opID := int64(3)
	f := newEngineFixture(t, 1)
	f.contacts.On("GetForUpdate", mock.Anything, int64(9)).
		Return(&contact.Contact{ID: 9, OperatorID: &opID, Status: contact.StatusDone}, nil)

	_, err := f.engine.Complete(context.Background(), 9)
	require.ErrorIs(t, err, contact.ErrInvalidTransition)
	f.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestEngine_StartWorkKeepsSlot(t *testing.T) {
	opID := int64(3)
	f := newEngineFixture(t, 1)
	f.contacts.On("GetForUpdate", mock.Anything, int64(9)).
		Return(&contact.Contact{ID: 9, OperatorID: &opID, Status: contact.StatusNew}, nil)
	f.contacts.On("SetState", mock.Anything, int64(9), contact.StatusInProgress, &opID, mock.Anything).Return(nil)

	c, err := f.engine.UpdateStatus(context.Background(), 9, contact.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, contact.StatusInProgress, c.Status)
	f.ledger.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestEngine_CompleteReleaseInvariantViolation(t *testing.T) {
	opID := int64(3)
	f := newEngineFixture(t, 1)
	f.contacts.On("GetForUpdate", mock.Anything, int64(9)).
		Return(&contact.Contact{ID: 9, OperatorID: &opID, Status: contact.StatusNew}, nil)
	f.ledger.On("Release", mock.Anything, opID).Return(repository.ErrInvariantViolation)

	_, err := f.engine.Complete(context.Background(), 9)
	require.ErrorIs(t, err, repository.ErrInvariantViolation)
	f.contacts.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_CompleteMissingContact(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.contacts.On("GetForUpdate", mock.Anything, int64(9)).Return((*contact.Contact)(nil), repository.ErrNotFound)

	_, err := f.engine.Complete(context.Background(), 9)
	require.ErrorIs(t, err, contact.ErrContactNotFound)
}

func TestEngine_RemoveReleasesOnlyHeldSlots(t *testing.T) {
	opID := int64(3)
	f := newEngineFixture(t, 1)
	f.contacts.On("GetForUpdate", mock.Anything, int64(1)).
		Return(&contact.Contact{ID: 1, OperatorID: &opID, Status: contact.StatusNew}, nil)
	f.contacts.On("GetForUpdate", mock.Anything, int64(2)).
		Return(&contact.Contact{ID: 2, Status: contact.StatusInQueue}, nil)
	f.contacts.On("GetForUpdate", mock.Anything, int64(3)).
		Return(&contact.Contact{ID: 3, OperatorID: &opID, Status: contact.StatusDone}, nil)
	f.contacts.On("Delete", mock.Anything, mock.Anything).Return(nil)
	f.ledger.On("Release", mock.Anything, opID).Return(nil).Once()

	require.NoError(t, f.engine.Remove(context.Background(), 1))
	require.NoError(t, f.engine.Remove(context.Background(), 2))
	require.NoError(t, f.engine.Remove(context.Background(), 3))
	f.ledger.AssertNumberOfCalls(t, "Release", 1)
	f.contacts.AssertNumberOfCalls(t, "Delete", 3)
}

func TestEngine_DispatchQueuedAssigns(t *testing.T) {
	f := newEngineFixture(t, 1)
	queued := &contact.Contact{ID: 4, LeadID: 2, SourceID: 1, Status: contact.StatusInQueue}
	f.contacts.On("Get", mock.Anything, int64(4)).Return(queued, nil)
	f.contacts.On("GetForUpdate", mock.Anything, int64(4)).
		Return(&contact.Contact{ID: 4, LeadID: 2, SourceID: 1, Status: contact.StatusInQueue}, nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(8, 1)}, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(8), int64(1)).Return(3, true, nil)
	f.ledger.On("TryReserve", mock.Anything, int64(8)).Return(true, nil)
	f.contacts.On("SetState", mock.Anything, int64(4), contact.StatusNew, mock.Anything, mock.Anything).Return(nil)

	res, err := f.engine.DispatchQueued(context.Background(), 4)
	require.NoError(t, err)
	require.False(t, res.Queued())
	require.Equal(t, contact.StatusNew, res.Contact.Status)
	require.Equal(t, int64(8), *res.Contact.OperatorID)
}

func TestEngine_DispatchQueuedStillWaiting(t *testing.T) {
	f := newEngineFixture(t, 1)
	queued := &contact.Contact{ID: 4, SourceID: 1, Status: contact.StatusInQueue}
	f.contacts.On("Get", mock.Anything, int64(4)).Return(queued, nil)
	f.contacts.On("GetForUpdate", mock.Anything, int64(4)).Return(queued, nil)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{}, nil)

	res, err := f.engine.DispatchQueued(context.Background(), 4)
	require.NoError(t, err)
	require.True(t, res.Queued())
	require.Equal(t, contact.StatusInQueue, res.Contact.Status)
	f.contacts.AssertNotCalled(t, "SetState", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_DispatchRejectsAssignedContact(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.contacts.On("Get", mock.Anything, int64(4)).Return(&contact.Contact{ID: 4, Status: contact.StatusNew}, nil)

	_, err := f.engine.DispatchQueued(context.Background(), 4)
	require.ErrorIs(t, err, contact.ErrInvalidTransition)
}

func TestEngine_DeleteLeadReleasesOpenContacts(t *testing.T) {
	op1, op2 := int64(1), int64(2)
	f := newEngineFixture(t, 1)
	f.leads.On("Get", mock.Anything, int64(5)).Return(&lead.Lead{ID: 5}, nil)
	f.contacts.On("ListOpenByLead", mock.Anything, int64(5)).Return([]contact.Contact{
		{ID: 1, OperatorID: &op1, Status: contact.StatusNew},
		{ID: 2, OperatorID: &op2, Status: contact.StatusInProgress},
	}, nil)
	f.ledger.On("Release", mock.Anything, op1).Return(nil).Once()
	f.ledger.On("Release", mock.Anything, op2).Return(nil).Once()
	f.leads.On("Delete", mock.Anything, int64(5)).Return(nil)

	require.NoError(t, f.engine.DeleteLead(context.Background(), 5))
	f.ledger.AssertExpectations(t)
	f.leads.AssertExpectations(t)
}

func TestEngine_DeleteLeadMissing(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.leads.On("Get", mock.Anything, int64(5)).Return((*lead.Lead)(nil), repository.ErrNotFound)

	require.ErrorIs(t, f.engine.DeleteLead(context.Background(), 5), lead.ErrLeadNotFound)
}

func TestEngine_ListAvailableOperatorsRanks(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.expectSource(1)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 1), op(2, 0), op(3, 0)}, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(1), int64(1)).Return(10, true, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(2), int64(1)).Return(10, true, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(3), int64(1)).Return(7, true, nil)

	ranked, err := f.engine.ListAvailableOperators(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	require.Equal(t, int64(2), ranked[0].Operator.ID)
	require.Equal(t, int64(1), ranked[1].Operator.ID)
	require.Equal(t, int64(3), ranked[2].Operator.ID)
	f.ledger.AssertNotCalled(t, "TryReserve", mock.Anything, mock.Anything)
}

func TestEngine_ListAvailableOperatorsWeightError(t *testing.T) {
	f := newEngineFixture(t, 1)
	f.expectSource(1)
	f.operators.On("CandidatesFor", mock.Anything, int64(1)).Return([]operator.Operator{op(1, 0)}, nil)
	f.priorities.On("WeightOf", mock.Anything, int64(1), int64(1)).Return(0, false, errors.New("boom"))

	_, err := f.engine.ListAvailableOperators(context.Background(), 1)
	require.Error(t, err)
}
