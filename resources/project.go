package resources

import (
	"strings"
	"time"
)

// Project statuses
const (
	ProjectActive    = "active"
	ProjectInactive  = "inactive"
	ProjectPending   = "pending"
	ProjectCompleted = "completed"
	ProjectOnHold    = "on_hold"
)

var Projects = Kind{
	Name: "Projects",
	Path: "/projects",
	Columns: []Column{
		{Field: "name", Title: "Name", Sortable: true, Width: 24},
		{Field: "description", Title: "Description", Sortable: true, Width: 32},
		{Field: "status", Title: "Status", Sortable: true, Width: 11},
		{Field: "start_date", Title: "Start Date", Sortable: true, Width: 11},
		{Field: "end_date", Title: "End Date", Sortable: true, Width: 11},
	},
	Filters:  []string{"status"},
	Statuses: []string{ProjectActive, ProjectInactive, ProjectPending, ProjectCompleted, ProjectOnHold},
}

type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	StartDate   *string   `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     *string   `json:"end_date,omitempty"`   // YYYY-MM-DD
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var _ Record = (*Project)(nil)

func (p *Project) GetID() int64   { return p.ID }
func (p *Project) SetID(id int64) { p.ID = id }

func (p *Project) Created() time.Time { return p.CreatedAt }

func (p *Project) Stamp(created, updated time.Time) {
	p.CreatedAt = created
	p.UpdatedAt = updated
}

func (p *Project) Field(name string) any {
	switch name {
	case "id":
		return p.ID
	case "name":
		return p.Name
	case "description":
		return optional(p.Description)
	case "status":
		return p.Status
	case "start_date":
		return optional(p.StartDate)
	case "end_date":
		return optional(p.EndDate)
	}
	return nil
}

func (p *Project) SearchText() string {
	return strings.Join([]string{p.Name, valueOf(p.Description)}, " ")
}
