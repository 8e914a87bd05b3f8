package repository

import "context"

// Transactor runs fn inside a single storage transaction.
//
// The transaction travels in the context handed to fn; repositories called
// with that context join it instead of opening their own. Nested calls join
// the outer transaction. A nil error from fn commits, anything else rolls back.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
