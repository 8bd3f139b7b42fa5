package resources

import (
	"strings"
	"time"
)

// Task statuses
const (
	TaskPending    = "pending"
	TaskToDo       = "to do"
	TaskInProgress = "in progress"
	TaskCompleted  = "completed"
	TaskOnHold     = "on hold"
)

var Tasks = Kind{
	Name: "Tasks",
	Path: "/tasks",
	Columns: []Column{
		{Field: "title", Title: "Title", Sortable: true, Width: 24},
		{Field: "project", Title: "Project", Sortable: false, Width: 20},
		{Field: "status", Title: "Status", Sortable: true, Width: 12},
		{Field: "due_date", Title: "Due Date", Sortable: true, Width: 11},
		{Field: "project_id", Title: "Project ID", Sortable: true, Width: 10},
	},
	Filters:  []string{"status", "project_id"},
	Statuses: []string{TaskPending, TaskToDo, TaskInProgress, TaskCompleted, TaskOnHold},
}

// TaskProject is the project summary embedded in a task.
type TaskProject struct {
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

type Task struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	Status      string       `json:"status"`
	ProjectID   int64        `json:"project_id"`
	DueDate     *string      `json:"due_date,omitempty"` // YYYY-MM-DD
	Project     *TaskProject `json:"project,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

var _ Record = (*Task)(nil)

func (t *Task) GetID() int64   { return t.ID }
func (t *Task) SetID(id int64) { t.ID = id }

func (t *Task) Created() time.Time { return t.CreatedAt }

func (t *Task) Stamp(created, updated time.Time) {
	t.CreatedAt = created
	t.UpdatedAt = updated
}

func (t *Task) Field(name string) any {
	switch name {
	case "id":
		return t.ID
	case "title":
		return t.Title
	case "description":
		return optional(t.Description)
	case "status":
		return t.Status
	case "project_id":
		return t.ProjectID
	case "due_date":
		return optional(t.DueDate)
	case "project":
		if t.Project == nil {
			return nil
		}
		return t.Project.Name
	}
	return nil
}

func (t *Task) SearchText() string {
	return strings.Join([]string{t.Title, valueOf(t.Description)}, " ")
}
