package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/jrsteele09/go-dashboard/listview"
	"github.com/jrsteele09/go-dashboard/resources"
)

// RecordPtr ties a resource value type to its Record implementation.
type RecordPtr[T any] interface {
	*T
	resources.Record
}

// Rows renders items as table cells, one per kind column, ID first.
func Rows[T any, P RecordPtr[T]](kind resources.Kind, items []T) [][]string {
	rows := make([][]string, 0, len(items))
	for i := range items {
		record := P(&items[i])
		row := make([]string, 0, len(kind.Columns)+1)
		row = append(row, fmt.Sprint(record.GetID()))
		for _, c := range kind.Columns {
			row = append(row, resources.FormatField(record.Field(c.Field)))
		}
		rows = append(rows, row)
	}
	return rows
}

// Headers are the column titles, with a sort marker on the active column.
func Headers(kind resources.Kind, q listview.Query) []string {
	headers := make([]string, 0, len(kind.Columns)+1)
	headers = append(headers, "ID")
	for _, c := range kind.Columns {
		headers = append(headers, c.Title+sortMarker(c.Field, q))
	}
	return headers
}

func sortMarker(field string, q listview.Query) string {
	if q.SortField != field {
		return ""
	}
	if q.SortDirection == listview.SortDesc {
		return " ▼"
	}
	return " ▲"
}

// Summary is the footer under a list, e.g. "Showing 11 to 20 of 57 results
// (page 2 of 6)".
func Summary(p listview.Pagination) string {
	if p.Total == 0 {
		return "No results"
	}
	return fmt.Sprintf("Showing %d to %d of %d results (page %d of %d)", p.From, p.To, p.Total, p.CurrentPage, p.LastPage)
}

// Table draws a static bordered table for non-interactive output. q marks
// the sorted column.
func Table[T any, P RecordPtr[T]](kind resources.Kind, items []T, q listview.Query) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(Headers(kind, q)...).
		Rows(Rows[T, P](kind, items)...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}
