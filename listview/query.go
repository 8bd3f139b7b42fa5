package listview

import (
	"net/url"
	"sort"
	"strconv"
)

// Query parameter names shared by the API request and the location.
const (
	ParamPage          = "page"
	ParamPerPage       = "per_page"
	ParamSortBy        = "sort_by"
	ParamSortDirection = "sort_direction"
	ParamSearch        = "search"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Query is the list view's query state. Its Values encoding is both the
// request query string and the location's query string.
type Query struct {
	Page          int
	PerPage       int
	SortField     string
	SortDirection string
	Filters       map[string]string
	Search        string
}

// ParseQuery restores a Query from a query string. Missing or invalid
// page and per_page fall back to 1 and defaultPerPage; every key that is
// not a known parameter becomes a filter.
func ParseQuery(values url.Values, defaultPerPage int) Query {
	q := Query{
		Page:          positiveInt(values.Get(ParamPage), 1),
		PerPage:       positiveInt(values.Get(ParamPerPage), defaultPerPage),
		SortField:     values.Get(ParamSortBy),
		SortDirection: SortAsc,
		Search:        values.Get(ParamSearch),
		Filters:       map[string]string{},
	}
	if values.Get(ParamSortDirection) == SortDesc {
		q.SortDirection = SortDesc
	}

	for key := range values {
		switch key {
		case ParamPage, ParamPerPage, ParamSortBy, ParamSortDirection, ParamSearch:
			continue
		}
		if v := values.Get(key); v != "" {
			q.Filters[key] = v
		}
	}
	return q
}

// Values encodes the query. sort_by and sort_direction are only present
// with a sort field; search and filters only when non-empty.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set(ParamPage, strconv.Itoa(q.Page))
	values.Set(ParamPerPage, strconv.Itoa(q.PerPage))
	if q.SortField != "" {
		direction := q.SortDirection
		if direction != SortDesc {
			direction = SortAsc
		}
		values.Set(ParamSortBy, q.SortField)
		values.Set(ParamSortDirection, direction)
	}
	if q.Search != "" {
		values.Set(ParamSearch, q.Search)
	}
	for _, key := range q.filterKeys() {
		values.Set(key, q.Filters[key])
	}
	return values
}

func (q Query) clone() Query {
	filters := make(map[string]string, len(q.Filters))
	for k, v := range q.Filters {
		filters[k] = v
	}
	q.Filters = filters
	return q
}

func (q Query) filterKeys() []string {
	keys := make([]string, 0, len(q.Filters))
	for k, v := range q.Filters {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
