package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
)

// filter accumulates AND-ed WHERE conditions and their arguments.
type filter struct {
	conds []string
	args  []any
}

func (f *filter) add(cond string, args ...any) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, args...)
}

func (f *filter) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}

// orderPage renders ORDER BY, LIMIT and OFFSET. OrderBy is interpolated, so
// it is normalized against allowed here too; id breaks ties so pages are stable.
func orderPage(opts listing.Options, allowed []string, prefix string) (string, []any, error) {
	opts, err := opts.Normalize(allowed)
	if err != nil {
		return "", nil, err
	}
	dir := "ASC"
	if opts.OrderType == listing.Desc {
		dir = "DESC"
	}
	clause := fmt.Sprintf(" ORDER BY %s%s %s", prefix, opts.OrderBy, dir)
	if opts.OrderBy != "id" {
		clause += fmt.Sprintf(", %sid %s", prefix, dir)
	}
	clause += " LIMIT ? OFFSET ?"
	return clause, []any{opts.Limit, opts.Offset()}, nil
}

// count runs SELECT COUNT(*) over from with the filter applied.
func (db *DB) count(ctx context.Context, from string, f *filter) (int, error) {
	var n int
	if err := db.conn(ctx).QueryRowContext(ctx, "SELECT COUNT(*) FROM "+from+f.where(), f.args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
