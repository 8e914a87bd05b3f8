package operator

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error wrapping sentinel if not allowed.
func (r GuardResult) Error(sentinel error) error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", sentinel, r.Reason)
}

// DeleteContext provides context for the delete guard.
type DeleteContext struct {
	OperatorID   int64
	OpenContacts int
}

// CanDelete evaluates whether an operator can be deleted.
// Rules:
// - No contact in status new or in_progress may reference the operator
func CanDelete(ctx DeleteContext) GuardResult {
	if ctx.OpenContacts > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("operator %d has %d open contacts", ctx.OperatorID, ctx.OpenContacts),
		}
	}
	return GuardResult{Allowed: true}
}

// CapacityContext provides context for capacity changes.
type CapacityContext struct {
	OperatorID  int64
	CurrentLoad int
	NewMaxLoad  int
}

// CanSetMaxLoad evaluates whether max_load can be changed.
// Rules:
// - max_load must be positive
// - max_load must not drop below the current load
func CanSetMaxLoad(ctx CapacityContext) GuardResult {
	if ctx.NewMaxLoad <= 0 {
		return GuardResult{
			Allowed: false,
			Reason:  "max_load must be positive",
		}
	}
	if ctx.NewMaxLoad < ctx.CurrentLoad {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("operator %d holds %d contacts, max_load %d is too low", ctx.OperatorID, ctx.CurrentLoad, ctx.NewMaxLoad),
		}
	}
	return GuardResult{Allowed: true}
}
