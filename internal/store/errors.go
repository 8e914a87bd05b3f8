package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"github.com/ko2fey/test-task-mini-crm/internal/repository"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlCheckViolated    = 3819
	mysqlLockWaitTimeout  = 1205
	mysqlDeadlockDetected = 1213
)

// classify maps a driver error onto a repository sentinel.
func classify(err error) error {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return repository.ErrConflict
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return repository.ErrForeignKeyViolation
		case mysqlCheckViolated:
			return repository.ErrInvariantViolation
		case mysqlLockWaitTimeout, mysqlDeadlockDetected:
			return repository.ErrDatabase
		default:
			return repository.ErrDatabase
		}
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return repository.ErrConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return repository.ErrForeignKeyViolation
	case strings.Contains(msg, "CHECK constraint failed"):
		return repository.ErrInvariantViolation
	default:
		return repository.ErrDatabase
	}
}

// wrapErr annotates err with the failed operation and its sentinel.
func wrapErr(op string, err error) error {
	return fmt.Errorf("failed to %s: %w: %w", op, classify(err), err)
}

func isUniqueViolation(err error) bool {
	return err != nil && errors.Is(classify(err), repository.ErrConflict)
}
