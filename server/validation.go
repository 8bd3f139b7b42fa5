package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/utils"
	"github.com/jrsteele09/go-dashboard/resources"
)

const dateLayout = "2006-01-02"

func validateProject(p *resources.Project) error {
	p.Description = utils.NilIfBlank(p.Description)
	p.StartDate = utils.NilIfBlank(p.StartDate)
	p.EndDate = utils.NilIfBlank(p.EndDate)
	if strings.TrimSpace(p.Name) == "" {
		return requiredError("name")
	}
	if err := validateStatus(resources.Projects, p.Status); err != nil {
		return err
	}
	if err := validateDate("start date", p.StartDate); err != nil {
		return err
	}
	if err := validateDate("end date", p.EndDate); err != nil {
		return err
	}
	if p.StartDate != nil && p.EndDate != nil && *p.EndDate < *p.StartDate {
		return fmt.Errorf("The end date must be a date after or equal to start date.")
	}
	return nil
}

func (s *Server) validateTask(t *resources.Task) error {
	t.Description = utils.NilIfBlank(t.Description)
	t.DueDate = utils.NilIfBlank(t.DueDate)
	if strings.TrimSpace(t.Title) == "" {
		return requiredError("title")
	}
	if err := validateStatus(resources.Tasks, t.Status); err != nil {
		return err
	}
	if err := validateDate("due date", t.DueDate); err != nil {
		return err
	}
	if t.ProjectID == 0 {
		return requiredError("project id")
	}
	if _, err := s.repos.Projects.Get(t.ProjectID); err != nil {
		return fmt.Errorf("The selected project id is invalid.")
	}
	t.Project = nil
	return nil
}

func validateInventoryItem(i *resources.InventoryItem) error {
	if strings.TrimSpace(i.Name) == "" {
		return requiredError("name")
	}
	if i.Quantity < 0 {
		return fmt.Errorf("The quantity field must be at least 0.")
	}
	i.SKU = utils.NilIfBlank(i.SKU)
	i.Description = utils.NilIfBlank(i.Description)
	return validateStatus(resources.InventoryItems, i.Status)
}

// presentTask embeds the task's project summary.
func (s *Server) presentTask(t *resources.Task) *resources.Task {
	shown := *t
	if project, err := s.repos.Projects.Get(t.ProjectID); err == nil {
		shown.Project = &resources.TaskProject{ID: project.ID, Name: project.Name}
	}
	return &shown
}

func validateStatus(kind resources.Kind, status string) error {
	if status == "" {
		return requiredError("status")
	}
	if !kind.IsValidStatus(status) {
		return fmt.Errorf("The selected status is invalid.")
	}
	return nil
}

func validateDate(field string, value *string) error {
	if utils.Value(value) == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, *value); err != nil {
		return fmt.Errorf("The %s field must be a valid date.", field)
	}
	return nil
}

func requiredError(field string) error {
	return fmt.Errorf("The %s field is required.", field)
}
