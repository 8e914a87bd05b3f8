package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

const priorityColumns = `id, operator_id, source_id, weight, created_at, updated_at`

// PriorityRepository implements priority.Repository.
type PriorityRepository struct {
	db *DB
}

// NewPriorityRepository creates a new PriorityRepository
func NewPriorityRepository(db *DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

// Upsert inserts the pair or updates its weight in place, then reloads the
// stored row into p so ID and CreatedAt reflect the original insert.
func (r *PriorityRepository) Upsert(ctx context.Context, p *priority.Priority) error {
	query := `
		INSERT INTO operator_source_priorities (operator_id, source_id, weight, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (operator_id, source_id)
		DO UPDATE SET weight = excluded.weight, updated_at = excluded.updated_at
	`
	if r.db.dialect == MySQL {
		query = `
			INSERT INTO operator_source_priorities (operator_id, source_id, weight, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE weight = VALUES(weight), updated_at = VALUES(updated_at)
		`
	}

	if _, err := r.db.conn(ctx).ExecContext(ctx, query,
		p.OperatorID, p.SourceID, p.Weight, p.CreatedAt, p.UpdatedAt); err != nil {
		return wrapErr("upsert priority", err)
	}

	stored, err := scanPriority(r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+priorityColumns+` FROM operator_source_priorities WHERE operator_id = ? AND source_id = ?`,
		p.OperatorID, p.SourceID))
	if err != nil {
		return wrapErr("reload priority", err)
	}
	*p = *stored
	return nil
}

// Get retrieves a priority by ID.
func (r *PriorityRepository) Get(ctx context.Context, id int64) (*priority.Priority, error) {
	p, err := scanPriority(r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+priorityColumns+` FROM operator_source_priorities WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get priority", err)
	}
	return p, nil
}

// WeightOf reads the weight of the pair. ok is false when no priority exists.
func (r *PriorityRepository) WeightOf(ctx context.Context, operatorID, sourceID int64) (int, bool, error) {
	var weight int
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT weight FROM operator_source_priorities WHERE operator_id = ? AND source_id = ?`,
		operatorID, sourceID,
	).Scan(&weight)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, wrapErr("read weight", err)
	}
	return weight, true, nil
}

// Delete removes a priority.
func (r *PriorityRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM operator_source_priorities WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete priority", err)
	}
	return requireRow(result, "delete priority")
}

// List returns one page of priorities.
func (r *PriorityRepository) List(ctx context.Context, opts priority.ListOptions) ([]priority.Priority, int, error) {
	f := &filter{}
	if opts.OperatorID != nil {
		f.add("operator_id = ?", *opts.OperatorID)
	}
	if opts.SourceID != nil {
		f.add("source_id = ?", *opts.SourceID)
	}

	total, err := r.db.count(ctx, "operator_source_priorities", f)
	if err != nil {
		return nil, 0, wrapErr("count priorities", err)
	}
	tail, pageArgs, err := orderPage(opts.Options, priority.SortFields, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+priorityColumns+` FROM operator_source_priorities`+f.where()+tail,
		append(f.args, pageArgs...)...)
	if err != nil {
		return nil, 0, wrapErr("list priorities", err)
	}
	defer rows.Close()

	list := []priority.Priority{}
	for rows.Next() {
		p, err := scanPriority(rows)
		if err != nil {
			return nil, 0, wrapErr("scan priority", err)
		}
		list = append(list, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapErr("iterate priorities", err)
	}
	return list, total, nil
}

func scanPriority(row rowScanner) (*priority.Priority, error) {
	var p priority.Priority
	if err := row.Scan(&p.ID, &p.OperatorID, &p.SourceID, &p.Weight, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
