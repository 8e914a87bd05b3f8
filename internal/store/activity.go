package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
)

// ActivityRepository implements activity.Repository.
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new assignment log entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	result, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO assignment_log (
			event_type, lead_id, contact_id, operator_id, source_id, summary, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		string(entry.Type),
		entry.LeadID,
		entry.ContactID,
		entry.OperatorID,
		entry.SourceID,
		entry.Summary,
		createdAt,
	)
	if err != nil {
		return wrapErr("log activity", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		entry.ID = id
	}
	entry.CreatedAt = createdAt
	return nil
}

// List returns entries matching the filters, newest first
func (r *ActivityRepository) List(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error) {
	f := &filter{}
	if opts.LeadID != nil {
		f.add("lead_id = ?", *opts.LeadID)
	}
	if opts.ContactID != nil {
		f.add("contact_id = ?", *opts.ContactID)
	}
	if opts.OperatorID != nil {
		f.add("operator_id = ?", *opts.OperatorID)
	}
	if opts.Type != nil {
		f.add("event_type = ?", string(*opts.Type))
	}

	query := `
		SELECT id, event_type, lead_id, contact_id, operator_id, source_id, summary, created_at
		FROM assignment_log` + f.where() + ` ORDER BY created_at DESC, id DESC`
	args := f.args
	if opts.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, max(opts.Offset, 0))
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list activity", err)
	}
	defer rows.Close()

	entries := []activity.Entry{}
	for rows.Next() {
		var entry activity.Entry
		var eventType string
		var leadID, contactID, operatorID, sourceID sql.NullInt64
		if err := rows.Scan(
			&entry.ID,
			&eventType,
			&leadID,
			&contactID,
			&operatorID,
			&sourceID,
			&entry.Summary,
			&entry.CreatedAt,
		); err != nil {
			return nil, wrapErr("scan activity entry", err)
		}
		entry.Type = activity.Type(eventType)
		entry.LeadID = nullableID(leadID)
		entry.ContactID = nullableID(contactID)
		entry.OperatorID = nullableID(operatorID)
		entry.SourceID = nullableID(sourceID)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate activity rows", err)
	}
	return entries, nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
