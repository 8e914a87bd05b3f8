package transport

import (
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/lead"
)

type createLeadBody struct {
	ExternalID string  `json:"external_id"`
	Name       *string `json:"name"`
}

type renameLeadBody struct {
	Name *string `json:"name"`
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := lead.ListOptions{
		ExternalID: q.optString("external_id"),
		SourceID:   q.optInt64("source_id"),
		Options:    q.listing(),
	}
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	page, err := s.svc.Leads.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createLead(w http.ResponseWriter, r *http.Request) {
	var body createLeadBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.svc.Leads.Create(r.Context(), lead.CreateRequest{ExternalID: body.ExternalID, Name: body.Name})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (s *Server) getLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.svc.Leads.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) renameLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body renameLeadBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	l, err := s.svc.Leads.Rename(r.Context(), id, body.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// deleteLead goes through the engine so held slots are released.
func (s *Server) deleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Engine.DeleteLead(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeNoContent(w)
}

func (s *Server) listLeadContacts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Leads.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeContactPage(w, r, func(opts *contact.ListOptions) { opts.LeadID = &id })
}

func (s *Server) listLeadSources(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sources, err := s.svc.Leads.ListSources(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sources)
}
