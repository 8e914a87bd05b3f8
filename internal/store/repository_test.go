package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

func sourceListAll() source.ListOptions {
	return source.ListOptions{Options: listing.Options{Limit: listing.MaxLimit}}
}

func createOperator(t *testing.T, db *DB, name string, maxLoad int) *operator.Operator {
	t.Helper()
	now := time.Now().UTC()
	op := &operator.Operator{Name: name, MaxLoad: maxLoad, Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewOperatorRepository(db).Create(context.Background(), op))
	return op
}

func createSource(t *testing.T, db *DB, name string) *source.Source {
	t.Helper()
	src := &source.Source{Name: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, NewSourceRepository(db).Create(context.Background(), src))
	return src
}

func createLead(t *testing.T, db *DB, externalID string) *lead.Lead {
	t.Helper()
	l := &lead.Lead{ExternalID: externalID, CreatedAt: time.Now().UTC()}
	require.NoError(t, NewLeadRepository(db).Create(context.Background(), l))
	return l
}

func setWeight(t *testing.T, db *DB, operatorID, sourceID int64, weight int) *priority.Priority {
	t.Helper()
	now := time.Now().UTC()
	p := &priority.Priority{OperatorID: operatorID, SourceID: sourceID, Weight: weight, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewPriorityRepository(db).Upsert(context.Background(), p))
	return p
}

func createContact(t *testing.T, db *DB, leadID, sourceID int64, operatorID *int64, status contact.Status) *contact.Contact {
	t.Helper()
	now := time.Now().UTC()
	c := &contact.Contact{LeadID: leadID, SourceID: sourceID, OperatorID: operatorID, Status: status, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewContactRepository(db).Create(context.Background(), c))
	return c
}

func TestOperatorRepository_CRUD(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewOperatorRepository(db)

	op := createOperator(t, db, "Anna", 3)
	require.NotZero(t, op.ID)

	got, err := repo.Get(ctx, op.ID)
	require.NoError(t, err)
	require.Equal(t, "Anna", got.Name)
	require.Equal(t, 3, got.MaxLoad)
	require.Equal(t, 0, got.CurrentLoad)
	require.True(t, got.Active)

	got.Name = "Anna K"
	got.MaxLoad = 5
	got.CurrentLoad = 4 // ignored by Update
	require.NoError(t, repo.Update(ctx, got))

	got, err = repo.Get(ctx, op.ID)
	require.NoError(t, err)
	require.Equal(t, "Anna K", got.Name)
	require.Equal(t, 5, got.MaxLoad)
	require.Equal(t, 0, got.CurrentLoad)

	require.NoError(t, repo.SetActive(ctx, op.ID, false))
	require.NoError(t, repo.SetActive(ctx, op.ID, false), "unchanged value still matches the row")
	got, err = repo.Get(ctx, op.ID)
	require.NoError(t, err)
	require.False(t, got.Active)

	require.NoError(t, repo.Delete(ctx, op.ID))
	_, err = repo.Get(ctx, op.ID)
	require.Equal(t, repository.ErrNotFound, err)
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, op.ID))
	require.Equal(t, repository.ErrNotFound, repo.SetActive(ctx, op.ID, true))
}

func TestOperatorRepository_ListFiltersAndPages(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewOperatorRepository(db)

	for _, name := range []string{"c", "a", "b"} {
		createOperator(t, db, name, 2)
	}
	inactive := createOperator(t, db, "d", 2)
	require.NoError(t, repo.SetActive(ctx, inactive.ID, false))

	active := true
	ops, total, err := repo.List(ctx, operator.ListOptions{
		Active:  &active,
		Options: listing.Options{Limit: 2, OrderBy: "name"},
	})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, ops, 2)
	require.Equal(t, "a", ops[0].Name)
	require.Equal(t, "b", ops[1].Name)

	ops, _, err = repo.List(ctx, operator.ListOptions{
		Active:  &active,
		Options: listing.Options{Page: 2, Limit: 2, OrderBy: "name"},
	})
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, "c", ops[0].Name)

	_, _, err = repo.List(ctx, operator.ListOptions{Options: listing.Options{OrderBy: "name; DROP TABLE operators"}})
	require.ErrorIs(t, err, listing.ErrInvalidOptions)
}

func TestOperatorRepository_CandidatesFor(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewOperatorRepository(db)
	ledger := NewLedger(db)

	src := createSource(t, db, "bot")
	other := createSource(t, db, "form")

	eligible := createOperator(t, db, "eligible", 2)
	full := createOperator(t, db, "full", 1)
	inactive := createOperator(t, db, "inactive", 2)
	elsewhere := createOperator(t, db, "elsewhere", 2)
	createOperator(t, db, "unprioritized", 2)

	setWeight(t, db, eligible.ID, src.ID, 10)
	setWeight(t, db, full.ID, src.ID, 10)
	setWeight(t, db, inactive.ID, src.ID, 10)
	setWeight(t, db, elsewhere.ID, other.ID, 10)

	ok, err := ledger.TryReserve(ctx, full.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, repo.SetActive(ctx, inactive.ID, false))

	ops, err := repo.CandidatesFor(ctx, src.ID)
	require.NoError(t, err)
	require.Len(t, ops, 1)
	require.Equal(t, eligible.ID, ops[0].ID)
}

func TestPriorityRepository_UpsertKeepsOnePair(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewPriorityRepository(db)

	op := createOperator(t, db, "a", 2)
	src := createSource(t, db, "bot")

	first := setWeight(t, db, op.ID, src.ID, 10)
	second := setWeight(t, db, op.ID, src.ID, 30)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 30, second.Weight)

	weight, ok, err := repo.WeightOf(ctx, op.ID, src.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 30, weight)

	_, ok, err = repo.WeightOf(ctx, op.ID, src.ID+100)
	require.NoError(t, err)
	require.False(t, ok)

	list, total, err := repo.List(ctx, priority.ListOptions{OperatorID: &op.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, list, 1)

	now := time.Now().UTC()
	err = repo.Upsert(ctx, &priority.Priority{OperatorID: op.ID, SourceID: 999, Weight: 1, CreatedAt: now, UpdatedAt: now})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	require.NoError(t, repo.Delete(ctx, first.ID))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, first.ID))
}

func TestLeadRepository_UniqueAndLinks(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewLeadRepository(db)

	l := createLead(t, db, "+79990001122")
	err := repo.Create(ctx, &lead.Lead{ExternalID: "+79990001122", CreatedAt: time.Now().UTC()})
	require.ErrorIs(t, err, repository.ErrConflict)

	got, err := repo.GetByExternalID(ctx, "+79990001122")
	require.NoError(t, err)
	require.Equal(t, l.ID, got.ID)
	require.Nil(t, got.Name)

	name := "Ivan"
	got.Name = &name
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.Get(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, "Ivan", *got.Name)

	bot := createSource(t, db, "bot")
	form := createSource(t, db, "form")
	require.NoError(t, repo.LinkSource(ctx, l.ID, bot.ID))
	require.NoError(t, repo.LinkSource(ctx, l.ID, bot.ID), "repeated link is a no-op")
	require.NoError(t, repo.LinkSource(ctx, l.ID, form.ID))
	require.ErrorIs(t, repo.LinkSource(ctx, l.ID, 999), repository.ErrForeignKeyViolation)

	sources, err := repo.ListSources(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, sources, 2)

	leads, total, err := repo.List(ctx, lead.ListOptions{SourceID: &form.ID})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, l.ID, leads[0].ID)

	_, err = repo.GetByExternalID(ctx, "nobody")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestContactRepository_StateAndCounts(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewContactRepository(db)

	op := createOperator(t, db, "a", 5)
	src := createSource(t, db, "bot")
	l := createLead(t, db, "lead-1")

	held := createContact(t, db, l.ID, src.ID, &op.ID, contact.StatusNew)
	working := createContact(t, db, l.ID, src.ID, &op.ID, contact.StatusInProgress)
	createContact(t, db, l.ID, src.ID, &op.ID, contact.StatusDone)
	queued := createContact(t, db, l.ID, src.ID, nil, contact.StatusInQueue)

	n, err := repo.CountOpenByOperator(ctx, op.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	n, err = repo.CountOpenBySource(ctx, src.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	open, err := repo.ListOpenByLead(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, open, 2)
	require.Equal(t, held.ID, open[0].ID)
	require.Equal(t, working.ID, open[1].ID)

	at := time.Now().UTC()
	require.NoError(t, repo.SetState(ctx, queued.ID, contact.StatusNew, &op.ID, at))
	got, err := repo.Get(ctx, queued.ID)
	require.NoError(t, err)
	require.Equal(t, contact.StatusNew, got.Status)
	require.Equal(t, op.ID, *got.OperatorID)

	status := contact.StatusNew
	list, total, err := repo.List(ctx, contact.ListOptions{Status: &status, OperatorID: &op.ID})
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Len(t, list, 2)

	future := time.Now().Add(time.Hour).UTC()
	_, total, err = repo.List(ctx, contact.ListOptions{CreatedFrom: &future})
	require.NoError(t, err)
	require.Zero(t, total)

	require.NoError(t, repo.Delete(ctx, queued.ID))
	_, err = repo.Get(ctx, queued.ID)
	require.Equal(t, repository.ErrNotFound, err)
	require.Equal(t, repository.ErrNotFound, repo.SetState(ctx, queued.ID, contact.StatusDone, nil, at))
}

func TestContactRepository_RejectsUnknownStatus(t *testing.T) {
	db := NewTestDB(t)
	src := createSource(t, db, "bot")
	l := createLead(t, db, "lead-1")

	now := time.Now().UTC()
	err := NewContactRepository(db).Create(context.Background(), &contact.Contact{
		LeadID: l.ID, SourceID: src.ID, Status: "lost", CreatedAt: now, UpdatedAt: now,
	})
	require.ErrorIs(t, err, repository.ErrInvariantViolation)
}

func TestSourceRepository_DeleteCascades(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	sources := NewSourceRepository(db)

	op := createOperator(t, db, "a", 5)
	src := createSource(t, db, "bot")
	l := createLead(t, db, "lead-1")
	setWeight(t, db, op.ID, src.ID, 5)
	require.NoError(t, NewLeadRepository(db).LinkSource(ctx, l.ID, src.ID))
	c := createContact(t, db, l.ID, src.ID, nil, contact.StatusInQueue)

	require.NoError(t, sources.Delete(ctx, src.ID))

	_, err := NewContactRepository(db).Get(ctx, c.ID)
	require.Equal(t, repository.ErrNotFound, err)
	_, ok, err := NewPriorityRepository(db).WeightOf(ctx, op.ID, src.ID)
	require.NoError(t, err)
	require.False(t, ok)
	linked, err := NewLeadRepository(db).ListSources(ctx, l.ID)
	require.NoError(t, err)
	require.Empty(t, linked)
}

func TestActivityRepository_LogAndList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	contactID, operatorID := int64(7), int64(3)
	base := time.Now().UTC().Add(-time.Minute)
	for i, typ := range []activity.Type{activity.TypeLeadAssigned, activity.TypeStatusChanged, activity.TypeContactCompleted} {
		entry := &activity.Entry{
			Type:       typ,
			ContactID:  &contactID,
			OperatorID: &operatorID,
			Summary:    string(typ),
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Log(ctx, entry))
		require.NotZero(t, entry.ID)
	}
	require.NoError(t, repo.Log(ctx, &activity.Entry{Type: activity.TypeLeadQueued, Summary: "other"}))

	entries, err := repo.List(ctx, activity.ListOptions{ContactID: &contactID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, activity.TypeContactCompleted, entries[0].Type)
	require.Equal(t, activity.TypeStatusChanged, entries[1].Type)
	require.Nil(t, entries[0].LeadID)

	typ := activity.TypeLeadQueued
	entries, err = repo.List(ctx, activity.ListOptions{Type: &typ})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}
