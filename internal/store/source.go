package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// SourceRepository implements source.Repository.
type SourceRepository struct {
	db *DB
}

// NewSourceRepository creates a new SourceRepository
func NewSourceRepository(db *DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// Create inserts the source and fills src.ID.
func (r *SourceRepository) Create(ctx context.Context, src *source.Source) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`INSERT INTO sources (name, created_at) VALUES (?, ?)`, src.Name, src.CreatedAt)
	if err != nil {
		return wrapErr("create source", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return wrapErr("read source id", err)
	}
	src.ID = id
	return nil
}

// Get retrieves a source by ID.
func (r *SourceRepository) Get(ctx context.Context, id int64) (*source.Source, error) {
	var src source.Source
	err := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT id, name, created_at FROM sources WHERE id = ?`, id,
	).Scan(&src.ID, &src.Name, &src.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("get source", err)
	}
	return &src, nil
}

// Update renames the source.
func (r *SourceRepository) Update(ctx context.Context, src *source.Source) error {
	result, err := r.db.conn(ctx).ExecContext(ctx,
		`UPDATE sources SET name = ? WHERE id = ?`, src.Name, src.ID)
	if err != nil {
		return wrapErr("update source", err)
	}
	return requireRow(result, "update source")
}

// Delete removes the source; priorities, lead links and contacts cascade.
func (r *SourceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.conn(ctx).ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete source", err)
	}
	return requireRow(result, "delete source")
}

// List returns one page of sources.
func (r *SourceRepository) List(ctx context.Context, opts source.ListOptions) ([]source.Source, int, error) {
	f := &filter{}
	total, err := r.db.count(ctx, "sources", f)
	if err != nil {
		return nil, 0, wrapErr("count sources", err)
	}
	tail, pageArgs, err := orderPage(opts.Options, source.SortFields, "")
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT id, name, created_at FROM sources`+tail, pageArgs...)
	if err != nil {
		return nil, 0, wrapErr("list sources", err)
	}
	defer rows.Close()

	sources, err := collectSources(rows)
	if err != nil {
		return nil, 0, err
	}
	return sources, total, nil
}

func collectSources(rows *sql.Rows) ([]source.Source, error) {
	sources := []source.Source{}
	for rows.Next() {
		var src source.Source
		if err := rows.Scan(&src.ID, &src.Name, &src.CreatedAt); err != nil {
			return nil, wrapErr("scan source", err)
		}
		sources = append(sources, src)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("iterate sources", err)
	}
	return sources, nil
}
