package transport

import (
	"context"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
)

// AssignmentEngine defines the load-affecting operations.
type AssignmentEngine interface {
	AssignLead(ctx context.Context, req assignment.AssignRequest) (*assignment.AssignResult, error)
	ListAvailableOperators(ctx context.Context, sourceID int64) ([]assignment.Candidate, error)
	Complete(ctx context.Context, contactID int64) (*contact.Contact, error)
	UpdateStatus(ctx context.Context, contactID int64, status contact.Status) (*contact.Contact, error)
	Remove(ctx context.Context, contactID int64) error
	DispatchQueued(ctx context.Context, contactID int64) (*assignment.AssignResult, error)
	DeleteLead(ctx context.Context, leadID int64) error
}

// OperatorService defines operator directory operations.
type OperatorService interface {
	Create(ctx context.Context, req operator.CreateRequest) (*operator.Operator, error)
	Get(ctx context.Context, id int64) (*operator.Operator, error)
	Update(ctx context.Context, req operator.UpdateRequest) (*operator.Operator, error)
	Activate(ctx context.Context, id int64) (*operator.Operator, error)
	Deactivate(ctx context.Context, id int64) (*operator.Operator, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts operator.ListOptions) (*listing.Page[operator.Operator], error)
}

// SourceService defines source operations.
type SourceService interface {
	Create(ctx context.Context, name string) (*source.Source, error)
	Get(ctx context.Context, id int64) (*source.Source, error)
	Rename(ctx context.Context, id int64, name string) (*source.Source, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts source.ListOptions) (*listing.Page[source.Source], error)
}

// PriorityService defines priority index operations.
type PriorityService interface {
	Upsert(ctx context.Context, req priority.UpsertRequest) (*priority.Priority, error)
	Get(ctx context.Context, id int64) (*priority.Priority, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, opts priority.ListOptions) (*listing.Page[priority.Priority], error)
}

// LeadService defines lead operations that don't touch load.
type LeadService interface {
	Create(ctx context.Context, req lead.CreateRequest) (*lead.Lead, error)
	Get(ctx context.Context, id int64) (*lead.Lead, error)
	Rename(ctx context.Context, id int64, name *string) (*lead.Lead, error)
	List(ctx context.Context, opts lead.ListOptions) (*listing.Page[lead.Lead], error)
	ListSources(ctx context.Context, leadID int64) ([]source.Source, error)
}

// ContactService defines contact reads.
type ContactService interface {
	Get(ctx context.Context, id int64) (*contact.Contact, error)
	List(ctx context.Context, opts contact.ListOptions) (*listing.Page[contact.Contact], error)
}

// ActivityService defines assignment log reads.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Services contains all domain services exposed over HTTP.
type Services struct {
	Engine     AssignmentEngine
	Operators  OperatorService
	Sources    SourceService
	Priorities PriorityService
	Leads      LeadService
	Contacts   ContactService
	Activity   ActivityService
}
