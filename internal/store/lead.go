package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

const leadColumns = `id, external_id, name, created_at`

// LeadRepository implements lead.Repository.
type LeadRepository struct {
	db *DB
}

// NewLeadRepository creates a new LeadRepository
func NewLeadRepository(db *DB) *LeadRepository {
	return &LeadRepository{db: db}
}

// Create inserts the lead and fills l.ID. A taken external id yields ErrConflict.
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO leads (external_id, name, created_at) VALUES (?, ?, ?)`,
		l.ExternalID, l.Name, l.CreatedAt)
	if err != nil {
		return wrapErr("create lead", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return wrapErr("read lead id", err)
	}
	l.ID = id
	return nil
}

// Get retrieves a lead by ID.
func (r *LeadRepository) Get(ctx context.Context, id int64) (*lead.Lead, error) {
	return r.getBy(ctx, "id = ?", id)
}

// GetByExternalID retrieves a lead by its external identifier.
func (r *LeadRepository) GetByExternalID(ctx context.Context, externalID string) (*lead.Lead, error) {
	return r.getBy(ctx, "external_id = ?", externalID)
}

func (r *LeadRepository) getBy(ctx context.Context, cond string, arg any) (*lead.Lead, error) {
	l, err := scanLead(r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE `+cond, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get lead", err)
	}
	return l, nil
}

// Update writes the display name.
func (r *LeadRepository) Update(ctx context.Context, l *lead.Lead) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE leads SET name = ? WHERE id = ?`, l.Name, l.ID)
	if err != nil {
		return wrapErr("update lead", err)
	}
	return requireRow(result, "update lead")
}

// Delete removes the lead with its source links and contacts.
func (r *LeadRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete lead", err)
	}
	return requireRow(result, "delete lead")
}

// List returns one page of leads.
func (r *LeadRepository) List(ctx context.Context, opts lead.ListOptions) ([]lead.Lead, int, error) {
	f := &filter{}
	if opts.ExternalID != nil {
		f.add("external_id = ?", *opts.ExternalID)
	}
	if opts.SourceID != nil {
		f.add("id IN (SELECT lead_id FROM lead_sources WHERE source_id = ?)", *opts.SourceID)
	}

	total, err := r.db.count(ctx, "leads", f)
	if err != nil {
		return nil, 0, wrapErr("count leads", err)
	}
	tail, pageArgs, err := orderPage(opts.Options, lead.SortFields, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads`+f.where()+tail,
		append(f.args, pageArgs...)...)
	if err != nil {
		return nil, 0, wrapErr("list leads", err)
	}
	defer rows.Close()

	leads := []lead.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, wrapErr("scan lead", err)
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("iterate leads", err)
	}
	return leads, total, nil
}

// LinkSource records that the lead arrived via the source. An existing link
// is left untouched.
func (r *LeadRepository) LinkSource(ctx context.Context, leadID, sourceID int64) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO lead_sources (lead_id, source_id, created_at) VALUES (?, ?, ?)`,
		leadID, sourceID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return wrapErr("link lead source", err)
	}
	return nil
}

// ListSources returns the sources the lead arrived through, in link order.
func (r *LeadRepository) ListSources(ctx context.Context, leadID int64) ([]source.Source, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT s.id, s.name, s.created_at
		FROM sources s
		JOIN lead_sources ls ON ls.source_id = s.id
		WHERE ls.lead_id = ?
		ORDER BY ls.created_at, s.id
	`, leadID)
	if err != nil {
		return nil, wrapErr("list lead sources", err)
	}
	defer rows.Close()
	return collectSources(rows)
}

func scanLead(row rowScanner) (*lead.Lead, error) {
	var l lead.Lead
	var name sql.NullString
	if err := row.Scan(&l.ID, &l.ExternalID, &name, &l.CreatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		l.Name = &name.String
	}
	return &l, nil
}
