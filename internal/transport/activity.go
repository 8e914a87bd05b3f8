package transport

import (
	"net/http"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/activity"
)

func (s *Server) listActivity(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	opts := activity.ListOptions{
		LeadID:     q.optInt64("lead_id"),
		ContactID:  q.optInt64("contact_id"),
		OperatorID: q.optInt64("operator_id"),
		Limit:      q.int("limit"),
		Offset:     q.int("offset"),
	}
	if typ := q.optString("type"); typ != nil {
		t := activity.Type(*typ)
		opts.Type = &t
	}
	if q.err != nil {
		s.fail(w, r, q.err)
		return
	}
	entries, err := s.svc.Activity.GetRecentActivity(r.Context(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
