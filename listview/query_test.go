package listview_test

import (
	"net/url"
	"testing"

	"github.com/jrsteele09/go-dashboard/listview"
	"github.com/stretchr/testify/require"
)

func TestQueryRoundTrip(t *testing.T) {
	q := listview.Query{
		Page:          2,
		PerPage:       20,
		SortField:     "name",
		SortDirection: listview.SortDesc,
		Search:        "widget",
		Filters:       map[string]string{"status": "active"},
	}

	encoded := q.Values().Encode()
	require.Equal(t, "page=2&per_page=20&search=widget&sort_by=name&sort_direction=desc&status=active", encoded)

	values, err := url.ParseQuery(encoded)
	require.NoError(t, err)
	require.Equal(t, q, listview.ParseQuery(values, 10))
}

func TestQueryValuesOmitsEmpty(t *testing.T) {
	q := listview.Query{
		Page:          1,
		PerPage:       10,
		SortDirection: listview.SortDesc,
		Filters:       map[string]string{"status": "", "project_id": "4"},
	}
	require.Equal(t, "page=1&per_page=10&project_id=4", q.Values().Encode())
}

func TestParseQueryDefaults(t *testing.T) {
	values := url.Values{
		"page":           {"abc"},
		"per_page":       {"0"},
		"sort_direction": {"sideways"},
		"status":         {""},
	}

	q := listview.ParseQuery(values, 25)
	require.Equal(t, 1, q.Page)
	require.Equal(t, 25, q.PerPage)
	require.Equal(t, listview.SortAsc, q.SortDirection)
	require.Empty(t, q.SortField)
	require.Empty(t, q.Filters)
}
