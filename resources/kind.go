package resources

import "time"

// Record is implemented by every resource type so that generic code can
// address, stamp, sort, filter and search it.
type Record interface {
	GetID() int64
	SetID(id int64)
	Created() time.Time
	Stamp(created, updated time.Time)
	// Field returns the value of a sortable or filterable field. Values are
	// string, int64 or nil for an unset optional field.
	Field(name string) any
	// SearchText is the text matched by the search query parameter.
	SearchText() string
}

// Column is a field shown in a list view.
type Column struct {
	Field    string
	Title    string
	Sortable bool
	Width    int
}

// Kind describes a resource type: its endpoint, columns, filters and the
// status values it accepts.
type Kind struct {
	Name     string // Human name, e.g. "Projects"
	Path     string // REST collection path, e.g. "/projects"
	Columns  []Column
	Filters  []string
	Statuses []string
}

// SortFields lists the columns that can be sorted.
func (k Kind) SortFields() []string {
	fields := make([]string, 0, len(k.Columns))
	for _, c := range k.Columns {
		if c.Sortable {
			fields = append(fields, c.Field)
		}
	}
	return fields
}

func (k Kind) IsSortable(field string) bool {
	for _, f := range k.SortFields() {
		if f == field {
			return true
		}
	}
	return false
}

func (k Kind) IsFilter(field string) bool {
	for _, f := range k.Filters {
		if f == field {
			return true
		}
	}
	return false
}

func (k Kind) IsValidStatus(status string) bool {
	for _, s := range k.Statuses {
		if s == status {
			return true
		}
	}
	return false
}
