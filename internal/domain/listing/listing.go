// Package listing holds pagination and sorting options shared by list views.
package listing

import (
	"errors"
	"slices"
	"strings"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// OrderType is the sort direction.
type OrderType string

const (
	Asc  OrderType = "asc"
	Desc OrderType = "desc"
)

// ErrInvalidOptions indicates an unknown sort field, direction, or a bad page.
var ErrInvalidOptions = errors.New("invalid list options")

// Options describes one page of a sorted list.
type Options struct {
	Page      int
	Limit     int
	OrderBy   string
	OrderType OrderType
}

// Normalize fills defaults and validates against the enumerated sort fields.
// The first allowed field is the default sort.
func (o Options) Normalize(allowed []string) (Options, error) {
	if o.Page == 0 {
		o.Page = 1
	}
	if o.Page < 1 {
		return o, ErrInvalidOptions
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit < 1 || o.Limit > MaxLimit {
		return o, ErrInvalidOptions
	}
	o.OrderBy = strings.TrimSpace(o.OrderBy)
	if o.OrderBy == "" && len(allowed) > 0 {
		o.OrderBy = allowed[0]
	}
	if !slices.Contains(allowed, o.OrderBy) {
		return o, ErrInvalidOptions
	}
	switch o.OrderType {
	case "":
		o.OrderType = Asc
	case Asc, Desc:
	default:
		return o, ErrInvalidOptions
	}
	return o, nil
}

// Offset returns the row offset of the page.
func (o Options) Offset() int {
	if o.Page < 1 {
		return 0
	}
	return (o.Page - 1) * o.Limit
}

// Page is one page of results plus the echo of its options.
type Page[T any] struct {
	Objects    []T       `json:"objects"`
	TotalCount int       `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	OrderBy    string    `json:"order_by"`
	OrderType  OrderType `json:"order_type"`
}

// NewPage builds a page result, never returning a nil slice.
func NewPage[T any](objects []T, total int, opts Options) *Page[T] {
	if objects == nil {
		objects = []T{}
	}
	return &Page[T]{
		Objects:    objects,
		TotalCount: total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		OrderBy:    opts.OrderBy,
		OrderType:  opts.OrderType,
	}
}
