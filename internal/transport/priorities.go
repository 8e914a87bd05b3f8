package transport

import (
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/priority"
)

type priorityBody struct {
	OperatorID int64 `json:"operator_id"`
	SourceID   int64 `json:"source_id"`
	Weight     *int  `json:"weight"`
}

func (s *Server) listPriorities(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := priority.ListOptions{
		OperatorID: q.optInt64("operator_id"),
		SourceID:   q.optInt64("source_id"),
		Options:    q.listing(),
	}
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

// upsertPriority creates the pair or replaces its weight.
func (s *Server) upsertPriority(w http.ResponseWriter, r *http.Request) {
	var body priorityBody
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Weight == nil {
		s.fail(w, r, badRequest("weight is required"))
		return
	}
	p, err := s.svc.Priorities.Upsert(r.Context(), priority.UpsertRequest{
		OperatorID: body.OperatorID,
		SourceID:   body.SourceID,
		Weight:     *body.Weight,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) getPriority(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.svc.Priorities.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePriority(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.svc.Priorities.Delete(r.Context(), id); err != nil {
		s.fail(w, r, err)
		return
	}
	writeNoContent(w)
}
