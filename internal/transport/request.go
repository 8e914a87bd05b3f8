package transport

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ko2fey/test-task-mini-crm/internal/domain/listing"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("empty body")
		}
		return badRequest("invalid json: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid %s %q", name, raw)
	}
	return id, nil
}

// query wraps URL query parsing and keeps the first error.
type query struct {
	values map[string][]string
	err    error
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query()}
}

func (q *query) get(name string) string {
	if v := q.values[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (q *query) int(name string) int {
	raw := q.get(name)
	if raw == "" || q.err != nil {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.err = badRequest("invalid %s %q", name, raw)
	}
	return v
}

func (q *query) optInt64(name string) *int64 {
	raw := q.get(name)
	if raw == "" || q.err != nil {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.err = badRequest("invalid %s %q", name, raw)
		return nil
	}
	return &v
}

func (q *query) optBool(name string) *bool {
	raw := q.get(name)
	if raw == "" || q.err != nil {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.err = badRequest("invalid %s %q", name, raw)
		return nil
	}
	return &v
}

func (q *query) optString(name string) *string {
	raw := q.get(name)
	if raw == "" {
		return nil
	}
	return &raw
}

// optTime accepts RFC 3339 timestamps.
func (q *query) optTime(name string) *time.Time {
	raw := q.get(name)
	if raw == "" || q.err != nil {
		return nil
	}
	v, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		q.err = badRequest("invalid %s %q, want RFC 3339", name, raw)
		return nil
	}
	v = v.UTC()
	return &v
}

// listing reads page, limit, order_by and order_type. Defaults and bounds
// are applied by the services.
func (q *query) listing() listing.Options {
	return listing.Options{
		Page:      q.int("page"),
		Limit:     q.int("limit"),
		OrderBy:   q.get("order_by"),
		OrderType: listing.OrderType(q.get("order_type")),
	}
}
