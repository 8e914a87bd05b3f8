package transport

import (
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/source"
)

type sourceBody struct {
	Name string `json:"name"`
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := source.ListOptions{Options: q.listing()}
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	page, err := s.svc.Sources.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createSource(w http.ResponseWriter, r *http.Request) {
	var body sourceBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	src, err := s.svc.Sources.Create(r.Context(), body.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, src)
}

func (s *Server) getSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	src, err := s.svc.Sources.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

func (s *Server) renameSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body sourceBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	src, err := s.svc.Sources.Rename(r.Context(), id, body.Name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, src)
}

func (s *Server) deleteSource(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Sources.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeNoContent(w)
}

func (s *Server) listSourceContacts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Sources.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeContactPage(w, r, func(opts *contact.ListOptions) { opts.SourceID = &id })
}

// listCandidates ranks the operators who could take a lead from the source
// right now. Nothing is reserved.
func (s *Server) listCandidates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	candidates, err := s.svc.Engine.ListAvailableOperators(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, candidates)
}
