package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/go-dashboard/internal/config"
	"github.com/jrsteele09/go-dashboard/resources"
	resourcerepofake "github.com/jrsteele09/go-dashboard/resources/repofake"
	"github.com/jrsteele09/go-dashboard/token"
	"github.com/jrsteele09/go-dashboard/users"
	fakeuserrepo "github.com/jrsteele09/go-dashboard/users/repofake"
	"github.com/rs/zerolog/log"
)

// Repos are the stores behind the API.
type Repos struct {
	Users     users.UserRepo
	Projects  resources.Repo[*resources.Project]
	Tasks     resources.Repo[*resources.Task]
	Inventory resources.Repo[*resources.InventoryItem]
}

// NewInMemoryRepos returns empty in-memory stores.
func NewInMemoryRepos(nowFunc func() time.Time) Repos {
	return Repos{
		Users:     fakeuserrepo.NewFakeUserRepo(),
		Projects:  resourcerepofake.NewFakeResourceRepo[*resources.Project](nowFunc),
		Tasks:     resourcerepofake.NewFakeResourceRepo[*resources.Task](nowFunc),
		Inventory: resourcerepofake.NewFakeResourceRepo[*resources.InventoryItem](nowFunc),
	}
}

// Server is the development REST API the dashboard client talks to.
type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	issuer *token.Issuer
	repos  Repos
}

func New(config config.Config, repos Repos, issuer *token.Issuer) (*Server, error) {
	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		issuer: issuer,
		repos:  repos,
	}

	if config.GetSeedData() {
		if err := s.Seed(); err != nil {
			return nil, fmt.Errorf("[Server New] failed to seed data: %w", err)
		}
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func logError(method, path, error string) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, Red+error+ResetColor)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
