package transport

import (
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/contact"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/operator"
	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
)

type createOperatorBody struct {
	Name    string `json:"name"`
	MaxLoad *int   `json:"max_load"`
	Active  *bool  `json:"active"`
}

type updateOperatorBody struct {
	Name    *string `json:"name"`
	MaxLoad *int    `json:"max_load"`
}

func (s *Server) listOperators(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := operator.ListOptions{Active: q.optBool("active"), Options: q.listing()}
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	page, err := s.svc.Operators.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createOperator(w http.ResponseWriter, r *http.Request) {
	var body createOperatorBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	op, err := s.svc.Operators.Create(r.Context(), operator.CreateRequest{
		Name:    body.Name,
		MaxLoad: body.MaxLoad,
		Active:  body.Active,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, op)
}

func (s *Server) getOperator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	op, err := s.svc.Operators.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (s *Server) updateOperator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body updateOperatorBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	op, err := s.svc.Operators.Update(r.Context(), operator.UpdateRequest{
		ID:      id,
		Name:    body.Name,
		MaxLoad: body.MaxLoad,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (s *Server) deleteOperator(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Operators.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeNoContent(w)
}

func (s *Server) activateOperator(w http.ResponseWriter, r *http.Request) {
	s.setOperatorActive(w, r, true)
}

func (s *Server) deactivateOperator(w http.ResponseWriter, r *http.Request) {
	s.setOperatorActive(w, r, false)
}

func (s *Server) setOperatorActive(w http.ResponseWriter, r *http.Request, active bool) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var op *operator.Operator
	if active {
		op, err = s.svc.Operators.Activate(r.Context(), id)
	} else {
		op, err = s.svc.Operators.Deactivate(r.Context(), id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}

func (s *Server) listOperatorPriorities(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Operators.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	q := newQuery(r)
	opts := priority.ListOptions{OperatorID: &id, Options: q.listing()}
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	page, err := s.svc.Priorities.List(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) listOperatorContacts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if _, err := s.svc.Operators.Get(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	s.writeContactPage(w, r, func(opts *contact.ListOptions) { opts.OperatorID = &id })
}
