package table

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mahmoud2391997/masters-clinics-dashboard-sub000/internal/config"
)

// Query is a parsed table request: free-text filter, sort field and
// direction, offset pagination.
type Query struct {
	Search string
	Sort   string
	Desc   bool
	Limit  int
	Offset int
}

// ParseQuery reads q, sort, order, limit and offset URL parameters,
// clamping the page size to the configured bounds.
func ParseQuery(values url.Values) Query {
	q := Query{
		Search: strings.TrimSpace(values.Get("q")),
		Sort:   values.Get("sort"),
		Desc:   strings.EqualFold(values.Get("order"), "desc"),
		Limit:  config.DefaultPageLimit,
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = min(limit, config.MaxPageLimit)
	}
	if offset, err := strconv.Atoi(values.Get("offset")); err == nil && offset > 0 {
		q.Offset = offset
	}
	return q
}

// Page is one page of a filtered list. Total counts the filtered rows,
// not the page.
type Page[T any] struct {
	Items  []T `json:"data"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Apply filters, sorts and paginates items in memory. text extracts the
// searchable string of a row; sortVal extracts the comparable value for
// a sort field and may return "" for unknown fields, which keeps the
// original order.
func Apply[T any](items []T, q Query, text func(T) string, sortVal func(T, string) string) Page[T] {
	rows := items
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		rows = lo.Filter(items, func(item T, _ int) bool {
			return strings.Contains(strings.ToLower(text(item)), needle)
		})
	}

	if q.Sort != "" && sortVal != nil {
		sorted := make([]T, len(rows))
		copy(sorted, rows)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := sortVal(sorted[i], q.Sort), sortVal(sorted[j], q.Sort)
			if q.Desc {
				return a > b
			}
			return a < b
		})
		rows = sorted
	}

	total := len(rows)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)

	return Page[T]{
		Items:  rows[start:end],
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	}
}
