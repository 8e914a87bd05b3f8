package source

import "fmt"

// CanDelete reports why a source with open contacts cannot be deleted.
// Queued and finished contacts do not block deletion; they cascade.
func CanDelete(sourceID int64, openContacts int) error {
	if openContacts > 0 {
		return fmt.Errorf("%w: source %d has %d open contacts", ErrForbiddenDelete, sourceID, openContacts)
	}
	return nil
}
