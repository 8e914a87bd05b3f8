package activity

// ListOptions provides filtering options for listing activity. Entries are
// returned newest first.
type ListOptions struct {
	LeadID     *int64
	ContactID  *int64
	OperatorID *int64
	Type       *Type
	Limit      int
	Offset     int
}
