package transport

import (
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/assignment"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
)

type assignLeadBody struct {
	ExternalID string  `json:"external_id"`
	Name       *string `json:"name"`
	SourceID   int64   `json:"source_id"`
}

type updateStatusBody struct {
	Status contact.Status `json:"status"`
}

// writeContactPage lists contacts with the query filters, then lets scope
// pin the filter a nested route implies.
func (s *Server) writeContactPage(w http.ResponseWriter, r *http.Request, scope func(*contact.ListOptions)) {
	q := newQuery(r)
	opts := contact.ListOptions{
		SourceID:    q.optInt64("source_id"),
		OperatorID:  q.optInt64("operator_id"),
		LeadID:      q.optInt64("lead_id"),
		CreatedFrom: q.optTime("created_from"),
		CreatedTo:   q.optTime("created_to"),
		UpdatedFrom: q.optTime("updated_from"),
		UpdatedTo:   q.optTime("updated_to"),
		Options:     q.listing(),
	}
	if status := q.optString("status"); status != nil {
		st := contact.Status(*status)
		opts.Status = &st
	}
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	if scope != nil {
		scope(&opts)
	}

	page, err := s.svc.Contacts.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	s.writeContactPage(w, r, nil)
}

// assignLead registers a lead arrival. The contact is created either way, so
// a queued outcome is still 201.
func (s *Server) assignLead(w http.ResponseWriter, r *http.Request) {
	var body assignLeadBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.SourceID <= 0 {
		s.fail(w, r, badRequest("source_id is required"))
		return
	}
	res, err := s.svc.Engine.AssignLead(r.Context(), assignment.AssignRequest{
		ExternalID: body.ExternalID,
		Name:       body.Name,
		SourceID:   body.SourceID,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Contacts.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) updateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body updateStatusBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Engine.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) completeContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	c, err := s.svc.Engine.Complete(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) dispatchContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.svc.Engine.DispatchQueued(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) removeContact(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Engine.Remove(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeNoContent(w)
}
