package mcp

import (
	"context"
	"log/slog"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// OperatorView is the operator as tools report it.
type OperatorView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Active      bool   `json:"active"`
	CurrentLoad int    `json:"current_load"`
	MaxLoad     int    `json:"max_load"`
}

// ContactView is the contact as tools report it.
type ContactView struct {
	ID         int64  `json:"id"`
	LeadID     int64  `json:"lead_id"`
	SourceID   int64  `json:"source_id"`
	OperatorID *int64 `json:"operator_id,omitempty"`
	Status     string `json:"status"`
}

// CandidateView is one ranked operator for a source.
type CandidateView struct {
	Operator OperatorView `json:"operator"`
	Weight   int          `json:"weight"`
	Score    float64      `json:"score"`
}

type AssignLeadInput struct {
	ExternalID string `json:"external_id" jsonschema:"stable identifier of the lead in the source channel"`
	SourceID   int64  `json:"source_id" jsonschema:"id of the source the lead arrived through"`
	Name       string `json:"name,omitempty" jsonschema:"display name, used only when the lead is new"`
}

type AssignOutput struct {
	Queued   bool          `json:"queued"`
	LeadID   int64         `json:"lead_id"`
	Contact  ContactView   `json:"contact"`
	Operator *OperatorView `json:"operator,omitempty"`
}

type ContactInput struct {
	ContactID int64 `json:"contact_id" jsonschema:"id of the contact"`
}

type ContactOutput struct {
	Contact ContactView `json:"contact"`
}

type RemoveOutput struct {
	Removed int64 `json:"removed"`
}

type SourceInput struct {
	SourceID int64 `json:"source_id" jsonschema:"id of the source"`
}

type CandidatesOutput struct {
	Candidates []CandidateView `json:"candidates"`
}

type OperatorInput struct {
	OperatorID int64 `json:"operator_id" jsonschema:"id of the operator"`
}

type OperatorOutput struct {
	Operator OperatorView `json:"operator"`
}

func registerTools(server *sdkmcp.Server, svc Services, logger *slog.Logger) {
	fail := func(tool string, err error) error {
		if MapError(err) == nil {
			logger.Error("tool failed", "tool", tool, "error", err)
		}
		return toolError(err)
	}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assign_lead",
		Description: "Route an arriving lead to the best available operator for its source, or queue it.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssignLeadInput) (*sdkmcp.CallToolResult, AssignOutput, error) {
		req := assignment.AssignRequest{ExternalID: in.ExternalID, SourceID: in.SourceID}
		if in.Name != "" {
			req.Name = &in.Name
		}
		res, err := svc.Engine.AssignLead(ctx, req)
		if err != nil {
			return nil, AssignOutput{}, fail("assign_lead", err)
		}
		return nil, assignOutput(res), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_contact",
		Description: "Mark a contact done and free its operator's slot.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ContactInput) (*sdkmcp.CallToolResult, ContactOutput, error) {
		c, err := svc.Engine.Complete(ctx, in.ContactID)
		if err != nil {
			return nil, ContactOutput{}, fail("complete_contact", err)
		}
		return nil, ContactOutput{Contact: contactView(c)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "remove_contact",
		Description: "Delete a contact. An open contact releases its operator's slot.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ContactInput) (*sdkmcp.CallToolResult, RemoveOutput, error) {
		if err := svc.Engine.Remove(ctx, in.ContactID); err != nil {
			return nil, RemoveOutput{}, fail("remove_contact", err)
		}
		return nil, RemoveOutput{Removed: in.ContactID}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "dispatch_queued",
		Description: "Retry assignment of a queued contact. It stays queued if nobody has room.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ContactInput) (*sdkmcp.CallToolResult, AssignOutput, error) {
		res, err := svc.Engine.DispatchQueued(ctx, in.ContactID)
		if err != nil {
			return nil, AssignOutput{}, fail("dispatch_queued", err)
		}
		return nil, assignOutput(res), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_available_operators",
		Description: "Rank the operators who could take a lead from the source right now, best first. Reserves nothing.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SourceInput) (*sdkmcp.CallToolResult, CandidatesOutput, error) {
		ranked, err := svc.Engine.ListAvailableOperators(ctx, in.SourceID)
		if err != nil {
			return nil, CandidatesOutput{}, fail("list_available_operators", err)
		}
		out := CandidatesOutput{Candidates: make([]CandidateView, 0, len(ranked))}
		for _, c := range ranked {
			out.Candidates = append(out.Candidates, CandidateView{
				Operator: operatorView(&c.Operator),
				Weight:   c.Weight,
				Score:    c.Score,
			})
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_operator",
		Description: "Get an operator with its current load and capacity.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in OperatorInput) (*sdkmcp.CallToolResult, OperatorOutput, error) {
		op, err := svc.Operators.Get(ctx, in.OperatorID)
		if err != nil {
			return nil, OperatorOutput{}, fail("get_operator", err)
		}
		return nil, OperatorOutput{Operator: operatorView(op)}, nil
	})
}

func assignOutput(res *assignment.AssignResult) AssignOutput {
	out := AssignOutput{Queued: res.Queued(), Contact: contactView(res.Contact)}
	if res.Lead != nil {
		out.LeadID = res.Lead.ID
	} else if res.Contact != nil {
		out.LeadID = res.Contact.LeadID
	}
	if res.Operator != nil {
		view := operatorView(res.Operator)
		out.Operator = &view
	}
	return out
}

func contactView(c *contact.Contact) ContactView {
	if c == nil {
		return ContactView{}
	}
	return ContactView{
		ID:         c.ID,
		LeadID:     c.LeadID,
		SourceID:   c.SourceID,
		OperatorID: c.OperatorID,
		Status:     string(c.Status),
	}
}

func operatorView(op *operator.Operator) OperatorView {
	return OperatorView{
		ID:          op.ID,
		Name:        op.Name,
		Active:      op.Active,
		CurrentLoad: op.CurrentLoad,
		MaxLoad:     op.MaxLoad,
	}
}
