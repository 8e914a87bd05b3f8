package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// Ledger keeps operator load counters. Every change reads the operator row
// under lock, checks it, and writes it back inside one transaction.
type Ledger struct {
	db *DB
}

// NewLedger creates a new Ledger
func NewLedger(db *DB) *Ledger {
	return &Ledger{db: db}
}

type loadRow struct {
	active      bool
	currentLoad int
	maxLoad     int
}

func (l *Ledger) lock(ctx context.Context, operatorID int64) (*loadRow, error) {
	var row loadRow
	err := l.db.conn(ctx).QueryRowContext(ctx,
		`SELECT active, current_load, max_load FROM operators WHERE id = ?`+l.db.forUpdate(),
		operatorID,
	).Scan(&row.active, &row.currentLoad, &row.maxLoad)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, wrapErr("lock operator", err)
	}
	if row.maxLoad <= 0 || row.currentLoad < 0 || row.currentLoad > row.maxLoad {
		return nil, fmt.Errorf("%w: operator %d has load %d of %d",
			repository.ErrInvariantViolation, operatorID, row.currentLoad, row.maxLoad)
	}
	return &row, nil
}

// TryReserve takes one slot if the operator is active and below capacity.
func (l *Ledger) TryReserve(ctx context.Context, operatorID int64) (bool, error) {
	reserved := false
	err := l.db.WithinTx(ctx, func(ctx context.Context) error {
		row, err := l.lock(ctx, operatorID)
		if err != nil {
			return err
		}
		if !row.active || row.currentLoad >= row.maxLoad {
			return nil
		}
		result, err := l.db.conn(ctx).ExecContext(ctx, `
			UPDATE operators SET current_load = current_load + 1, updated_at = ?
			WHERE id = ? AND current_load < max_load
		`, time.Now().UTC(), operatorID)
		if err != nil {
			return wrapErr("reserve slot", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return wrapErr("reserve slot", err)
		}
		reserved = n == 1
		return nil
	})
	return reserved, err
}

// Release frees one slot. A release at zero load means the counters have
// drifted from the contacts and is reported, never clamped.
func (l *Ledger) Release(ctx context.Context, operatorID int64) error {
	return l.db.WithinTx(ctx, func(ctx context.Context) error {
		row, err := l.lock(ctx, operatorID)
		if err != nil {
			return err
		}
		if row.currentLoad <= 0 {
			return fmt.Errorf("%w: operator %d released at zero load", repository.ErrInvariantViolation, operatorID)
		}
		if _, err := l.db.conn(ctx).ExecContext(ctx, `
			UPDATE operators SET current_load = current_load - 1, updated_at = ? WHERE id = ?
		`, time.Now().UTC(), operatorID); err != nil {
			return wrapErr("release slot", err)
		}
		return nil
	})
}
