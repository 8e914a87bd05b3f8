package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

const operatorColumns = `id, name, max_load, current_load, active, created_at, updated_at`

// OperatorRepository implements operator.Repository.
type OperatorRepository struct {
	db *DB
}

// NewOperatorRepository creates a new OperatorRepository
func NewOperatorRepository(db *DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Create inserts the operator with zero load and fills op.ID.
func (r *OperatorRepository) Create(ctx context.Context, op *operator.Operator) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO operators (name, max_load, current_load, active, created_at, updated_at)
		VALUES (?, ?, 0, ?, ?, ?)
	`, op.Name, op.MaxLoad, op.Active, op.CreatedAt, op.UpdatedAt)
	if err != nil {
		return wrapErr("create operator", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return wrapErr("read operator id", err)
	}
	op.ID = id
	op.CurrentLoad = 0
	return nil
}

// Get retrieves an operator by ID.
func (r *OperatorRepository) Get(ctx context.Context, id int64) (*operator.Operator, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate retrieves an operator and locks its row for the surrounding transaction.
func (r *OperatorRepository) GetForUpdate(ctx context.Context, id int64) (*operator.Operator, error) {
	return r.get(ctx, id, r.db.forUpdate())
}

func (r *OperatorRepository) get(ctx context.Context, id int64, lock string) (*operator.Operator, error) {
	row := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+operatorColumns+` FROM operators WHERE id = ?`+lock, id)
	op, err := scanOperator(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get operator", err)
	}
	return op, nil
}

// Update writes name and max_load. current_load belongs to the ledger and is
// never written here.
func (r *OperatorRepository) Update(ctx context.Context, op *operator.Operator) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `
		UPDATE operators SET name = ?, max_load = ?, updated_at = ? WHERE id = ?
	`, op.Name, op.MaxLoad, op.UpdatedAt, op.ID)
	if err != nil {
		return wrapErr("update operator", err)
	}
	return requireRow(result, "update operator")
}

// SetActive flips the availability flag.
func (r *OperatorRepository) SetActive(ctx context.Context, id int64, active bool) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE operators SET active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), id)
	if err != nil {
		return wrapErr("set operator activity", err)
	}
	return requireRow(result, "set operator activity")
}

// Delete removes the operator. Priorities and contacts cascade.
func (r *OperatorRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM operators WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete operator", err)
	}
	return requireRow(result, "delete operator")
}

// List returns one page of operators and the total matching count.
func (r *OperatorRepository) List(ctx context.Context, opts operator.ListOptions) ([]operator.Operator, int, error) {
	f := &filter{}
	if opts.Active != nil {
		f.add("active = ?", *opts.Active)
	}

	total, err := r.db.count(ctx, "operators", f)
	if err != nil {
		return nil, 0, wrapErr("count operators", err)
	}

	tail, pageArgs, err := orderPage(opts.Options, operator.SortFields, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+operatorColumns+` FROM operators`+f.where()+tail,
		append(f.args, pageArgs...)...)
	if err != nil {
		return nil, 0, wrapErr("list operators", err)
	}
	defer rows.Close()

	ops, err := collectOperators(rows)
	if err != nil {
		return nil, 0, err
	}
	return ops, total, nil
}

// CandidatesFor returns active operators with free capacity that hold a
// priority for the source. The snapshot is unlocked; the ledger re-checks.
func (r *OperatorRepository) CandidatesFor(ctx context.Context, sourceID int64) ([]operator.Operator, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT o.id, o.name, o.max_load, o.current_load, o.active, o.created_at, o.updated_at
		FROM operators o
		JOIN operator_source_priorities p ON p.operator_id = o.id
		WHERE p.source_id = ? AND o.active = ? AND o.current_load < o.max_load
		ORDER BY o.id
	`, sourceID, true)
	if err != nil {
		return nil, wrapErr("list candidates", err)
	}
	defer rows.Close()
	return collectOperators(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOperator(row rowScanner) (*operator.Operator, error) {
	var op operator.Operator
	if err := row.Scan(
		&op.ID,
		&op.Name,
		&op.MaxLoad,
		&op.CurrentLoad,
		&op.Active,
		&op.CreatedAt,
		&op.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &op, nil
}

func collectOperators(rows *sql.Rows) ([]operator.Operator, error) {
	ops := []operator.Operator{}
	for rows.Next() {
		op, err := scanOperator(rows)
		if err != nil {
			return nil, wrapErr("scan operator", err)
		}
		ops = append(ops, *op)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate operators", err)
	}
	return ops, nil
}

// requireRow turns an update that matched nothing into ErrNotFound.
func requireRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
