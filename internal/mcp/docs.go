package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `leadrouter distributes incoming leads across operators by source priority and load.

Core concepts:
- Source: a channel a lead arrives through (a bot, a group).
- Operator: a person with a max_load. current_load counts the contacts they hold.
- Priority: a weight per (operator, source) pair. Only pairs with a priority are eligible.
- Contact: one lead arriving through one source. Status new/in_progress holds a slot; done frees it; in_queue means nobody had capacity.

Workflow:
1) list_available_operators(source_id) to see who would take a lead right now, best first.
2) assign_lead(external_id, source_id) to route an arrival. A queued result means no operator had room.
3) complete_contact(contact_id) when the operator is done, remove_contact(contact_id) to drop a contact.
4) dispatch_queued(contact_id) retries a queued contact once capacity frees up.

Docs:
- leadrouter://docs/routing (how an operator is chosen)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "leadrouter://docs/routing",
		Name:        "docs_routing",
		Title:       "How leads are routed",
		Description: "Selection order, tie-breaks and what happens when every operator is full.",
		Content: `# Routing

## Eligibility

An operator is a candidate for a source when all of these hold:

- a priority row exists for (operator, source), weight 0 included
- the operator is active
- current_load < max_load

## Ranking

Candidates are ordered by weight / max(current_load, 1), highest first.
Ties go to the lower current_load, then to the lower operator id.
Ranking is an estimate; the slot is taken by a conditional update, so a
candidate that filled up in the meantime is skipped.

## Queueing

When no candidate accepts, the contact is stored with status in_queue and
no operator. Queued contacts are not dispatched automatically; call
dispatch_queued once an operator frees a slot.

## Load

Every change of current_load happens in the same transaction as the
contact change that causes it. Completing, removing or deleting an open
contact releases its slot exactly once.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      doc.URI,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
