package server

import (
	"net/http"
	"sort"

	"github.com/jrsteele09/go-dashboard/oauthmodel"
	"github.com/jrsteele09/go-dashboard/resources"
	"github.com/rs/zerolog/log"
)

const recentProjectsLimit = 5

// MetricsHandler summarises projects for the dashboard home page.
func (s *Server) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects := s.repos.Projects.All()

		metrics := resources.DashboardMetrics{
			TotalProjects:    len(projects),
			ProjectsByStatus: map[string]int{},
			RecentProjects:   []resources.Project{},
		}
		for _, p := range projects {
			metrics.ProjectsByStatus[p.Status]++
		}

		sort.SliceStable(projects, func(i, j int) bool {
			return projects[i].CreatedAt.After(projects[j].CreatedAt)
		})
		for i := 0; i < len(projects) && i < recentProjectsLimit; i++ {
			metrics.RecentProjects = append(metrics.RecentProjects, *projects[i])
		}

		writeJSON(w, http.StatusOK, metrics)
	}
}

// ContactHandler accepts the public contact form. Messages are only logged.
func (s *Server) ContactHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req oauthmodel.ContactRequest
		if err := decodeJSON(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			writeMessage(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		log.Info().
			Str("name", req.Name).
			Str("email", req.Email).
			Str("subject", req.Subject).
			Msg("contact message received")
		writeMessage(w, http.StatusOK, "Thank you for your message.")
	}
}
