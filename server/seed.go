package server

import (
	"fmt"

	"github.com/jrsteele09/go-dashboard/internal/errors"
	"github.com/jrsteele09/go-dashboard/internal/utils"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/jrsteele09/go-dashboard/users"
	"github.com/rs/zerolog/log"
)

const (
	DemoUserName     = "Demo User"
	DemoUserEmail    = "demo@example.com"
	DemoUserPassword = "Password123"
)

// Seed creates the demo user and sample records. It does nothing when the
// demo user already exists.
func (s *Server) Seed() error {
	if _, err := s.repos.Users.GetByEmail(DemoUserEmail); err == nil {
		return nil
	} else if !errors.Is(err, errors.ErrNotFound) {
		return fmt.Errorf("[Server Seed] failed to look up demo user: %w", err)
	}

	hash, err := users.HashPassword(DemoUserPassword)
	if err != nil {
		return fmt.Errorf("[Server Seed] failed to hash password: %w", err)
	}
	demo := &users.User{Name: DemoUserName, Email: DemoUserEmail, PasswordHash: hash}
	if err := s.repos.Users.Upsert(demo); err != nil {
		return fmt.Errorf("[Server Seed] failed to create demo user: %w", err)
	}

	projects := []*resources.Project{
		{Name: "Website Redesign", Description: utils.Ptr("Refresh the marketing site"), Status: resources.ProjectActive, StartDate: utils.Ptr("2024-01-08"), EndDate: utils.Ptr("2024-04-30")},
		{Name: "Mobile App", Description: utils.Ptr("iOS and Android client"), Status: resources.ProjectPending, StartDate: utils.Ptr("2024-03-01")},
		{Name: "Data Warehouse", Status: resources.ProjectOnHold},
		{Name: "Customer Portal", Description: utils.Ptr("Self service account pages"), Status: resources.ProjectCompleted, StartDate: utils.Ptr("2023-06-01"), EndDate: utils.Ptr("2023-12-15")},
		{Name: "Billing Migration", Status: resources.ProjectActive, StartDate: utils.Ptr("2024-02-12")},
		{Name: "Internal Wiki", Status: resources.ProjectInactive},
		{Name: "Support Chatbot", Description: utils.Ptr("First line support automation"), Status: resources.ProjectActive},
		{Name: "Security Audit", Status: resources.ProjectPending, StartDate: utils.Ptr("2024-05-01")},
		{Name: "Analytics Dashboard", Status: resources.ProjectActive},
		{Name: "Onboarding Flow", Status: resources.ProjectCompleted},
		{Name: "API Gateway", Description: utils.Ptr("Consolidate public endpoints"), Status: resources.ProjectActive},
		{Name: "Localization", Status: resources.ProjectOnHold},
	}
	for _, p := range projects {
		if err := s.repos.Projects.Create(p); err != nil {
			return fmt.Errorf("[Server Seed] failed to create project: %w", err)
		}
	}

	tasks := []*resources.Task{
		{Title: "Wireframes", Status: resources.TaskCompleted, ProjectID: projects[0].ID, DueDate: utils.Ptr("2024-01-31")},
		{Title: "Visual design", Status: resources.TaskInProgress, ProjectID: projects[0].ID, DueDate: utils.Ptr("2024-02-28")},
		{Title: "Content migration", Status: resources.TaskToDo, ProjectID: projects[0].ID},
		{Title: "Choose framework", Status: resources.TaskCompleted, ProjectID: projects[1].ID},
		{Title: "Push notifications", Status: resources.TaskPending, ProjectID: projects[1].ID},
		{Title: "Export invoices", Status: resources.TaskInProgress, ProjectID: projects[4].ID, DueDate: utils.Ptr("2024-03-15")},
		{Title: "Reconcile accounts", Status: resources.TaskOnHold, ProjectID: projects[4].ID},
		{Title: "Intent catalogue", Status: resources.TaskToDo, ProjectID: projects[6].ID},
	}
	for _, t := range tasks {
		if err := s.repos.Tasks.Create(t); err != nil {
			return fmt.Errorf("[Server Seed] failed to create task: %w", err)
		}
	}

	items := []*resources.InventoryItem{
		{Name: "Laptop", SKU: utils.Ptr("LAP-001"), Quantity: 14, Status: resources.InventoryInStock},
		{Name: "Monitor", SKU: utils.Ptr("MON-024"), Quantity: 0, Status: resources.InventoryOutOfStock},
		{Name: "Keyboard", SKU: utils.Ptr("KEY-101"), Quantity: 52, Status: resources.InventoryInStock},
		{Name: "Docking Station", SKU: utils.Ptr("DOC-007"), Quantity: 3, Status: resources.InventoryBackordered, Description: utils.Ptr("USB-C dock")},
		{Name: "Fax Machine", Quantity: 1, Status: resources.InventoryDiscontinued},
	}
	for _, i := range items {
		if err := s.repos.Inventory.Create(i); err != nil {
			return fmt.Errorf("[Server Seed] failed to create inventory item: %w", err)
		}
	}

	log.Info().Str("email", DemoUserEmail).Msg("seeded demo user and sample data")
	return nil
}
