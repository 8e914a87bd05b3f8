package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

const contactColumns = `id, lead_id, source_id, operator_id, status, created_at, updated_at`

// openStatuses are the statuses that occupy an operator slot.
var openStatuses = []any{string(contact.StatusNew), string(contact.StatusInProgress)}

// ContactRepository implements contact.Repository.
type ContactRepository struct {
	db *DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts the contact and fills c.ID.
func (r *ContactRepository) Create(ctx context.Context, c *contact.Contact) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO contacts (lead_id, source_id, operator_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.LeadID, c.SourceID, c.OperatorID, string(c.Status), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return wrapErr("create contact", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return wrapErr("read contact id", err)
	}
	c.ID = id
	return nil
}

// Get retrieves a contact by ID.
func (r *ContactRepository) Get(ctx context.Context, id int64) (*contact.Contact, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate retrieves a contact and locks its row for the surrounding transaction.
func (r *ContactRepository) GetForUpdate(ctx context.Context, id int64) (*contact.Contact, error) {
	return r.get(ctx, id, r.db.forUpdate())
}

func (r *ContactRepository) get(ctx context.Context, id int64, lock string) (*contact.Contact, error) {
	c, err := scanContact(r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`+lock, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get contact", err)
	}
	return c, nil
}

// SetState writes status and operator together.
func (r *ContactRepository) SetState(ctx context.Context, id int64, status contact.Status, operatorID *int64, at time.Time) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE contacts SET status = ?, operator_id = ?, updated_at = ? WHERE id = ?`,
		string(status), operatorID, at, id)
	if err != nil {
		return wrapErr("update contact", err)
	}
	return requireRow(result, "update contact")
}

// Delete removes a contact.
func (r *ContactRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete contact", err)
	}
	return requireRow(result, "delete contact")
}

// List returns one page of contacts matching every set filter.
func (r *ContactRepository) List(ctx context.Context, opts contact.ListOptions) ([]contact.Contact, int, error) {
	f := &filter{}
	if opts.Status != nil {
		f.add("status = ?", string(*opts.Status))
	}
	if opts.SourceID != nil {
		f.add("source_id = ?", *opts.SourceID)
	}
	if opts.OperatorID != nil {
		f.add("operator_id = ?", *opts.OperatorID)
	}
	if opts.LeadID != nil {
		f.add("lead_id = ?", *opts.LeadID)
	}
	if opts.CreatedFrom != nil {
		f.add("created_at >= ?", opts.CreatedFrom.UTC())
	}
	if opts.CreatedTo != nil {
		f.add("created_at <= ?", opts.CreatedTo.UTC())
	}
	if opts.UpdatedFrom != nil {
		f.add("updated_at >= ?", opts.UpdatedFrom.UTC())
	}
	if opts.UpdatedTo != nil {
		f.add("updated_at <= ?", opts.UpdatedTo.UTC())
	}

	total, err := r.db.count(ctx, "contacts", f)
	if err != nil {
		return nil, 0, wrapErr("count contacts", err)
	}
	tail, pageArgs, err := orderPage(opts.Options, contact.SortFields, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts`+f.where()+tail,
		append(f.args, pageArgs...)...)
	if err != nil {
		return nil, 0, wrapErr("list contacts", err)
	}
	defer rows.Close()

	contacts, err := collectContacts(rows)
	if err != nil {
		return nil, 0, err
	}
	return contacts, total, nil
}

// ListOpenByLead locks and returns the lead's contacts that hold a slot.
func (r *ContactRepository) ListOpenByLead(ctx context.Context, leadID int64) ([]contact.Contact, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts
		WHERE lead_id = ? AND status IN (?, ?) AND operator_id IS NOT NULL
		ORDER BY id`+r.db.forUpdate(),
		append([]any{leadID}, openStatuses...)...)
	if err != nil {
		return nil, wrapErr("list open contacts", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// CountOpenByOperator counts contacts occupying the operator.
func (r *ContactRepository) CountOpenByOperator(ctx context.Context, operatorID int64) (int, error) {
	return r.countOpen(ctx, "operator_id", operatorID)
}

// CountOpenBySource counts held contacts that arrived through the source.
func (r *ContactRepository) CountOpenBySource(ctx context.Context, sourceID int64) (int, error) {
	return r.countOpen(ctx, "source_id", sourceID)
}

func (r *ContactRepository) countOpen(ctx context.Context, column string, id int64) (int, error) {
	f := &filter{}
	f.add(column+" = ?", id)
	f.add("operator_id IS NOT NULL AND status IN (?, ?)", openStatuses...)
	n, err := r.db.count(ctx, "contacts", f)
	if err != nil {
		return 0, wrapErr("count open contacts", err)
	}
	return n, nil
}

func scanContact(row rowScanner) (*contact.Contact, error) {
	var c contact.Contact
	var operatorID sql.NullInt64
	var status string
	if err := row.Scan(&c.ID, &c.LeadID, &c.SourceID, &operatorID, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Status = contact.Status(status)
	if operatorID.Valid {
		c.OperatorID = &operatorID.Int64
	}
	return &c, nil
}

func collectContacts(rows *sql.Rows) ([]contact.Contact, error) {
	contacts := []contact.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, wrapErr("scan contact", err)
		}
		contacts = append(contacts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate contacts", err)
	}
	return contacts, nil
}
