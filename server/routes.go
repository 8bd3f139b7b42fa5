package server

import (
	"net/http"

	"github.com/jrsteele09/go-dashboard/resources"
)

func (s *Server) initRoutes() {
	// Public
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteContactUs, ChainMiddleware(s.ContactHandler(), s.APIMiddleware()...))

	// Bearer token required
	s.RegisterRouteHandler("POST "+RouteAuthMe, ChainMiddleware(s.MeHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+RouteAuthRefreshToken, ChainMiddleware(s.RefreshTokenHandler(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+RouteDashboardMetrics, ChainMiddleware(s.MetricsHandler(), s.APIMiddleware(s.RequireAuth())...))

	registerResource(s, &resourceHandler[*resources.Project]{
		kind:      resources.Projects,
		repo:      s.repos.Projects,
		newRecord: func() *resources.Project { return &resources.Project{} },
		validate:  validateProject,
	})
	registerResource(s, &resourceHandler[*resources.Task]{
		kind:      resources.Tasks,
		repo:      s.repos.Tasks,
		newRecord: func() *resources.Task { return &resources.Task{} },
		validate:  s.validateTask,
		present:   s.presentTask,
	})
	registerResource(s, &resourceHandler[*resources.InventoryItem]{
		kind:      resources.InventoryItems,
		repo:      s.repos.Inventory,
		newRecord: func() *resources.InventoryItem { return &resources.InventoryItem{} },
		validate:  validateInventoryItem,
	})

	// CORS preflight for every route
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, s.APIMiddleware()...))
}

func registerResource[R resources.Record](s *Server, h *resourceHandler[R]) {
	collection := h.kind.Path
	item := h.kind.Path + "/{id}"

	s.RegisterRouteHandler("GET "+collection, ChainMiddleware(h.List(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("POST "+collection, ChainMiddleware(h.Create(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("GET "+item, ChainMiddleware(h.Get(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("PUT "+item, ChainMiddleware(h.Update(), s.APIMiddleware(s.RequireAuth())...))
	s.RegisterRouteHandler("DELETE "+item, ChainMiddleware(h.Delete(), s.APIMiddleware(s.RequireAuth())...))
}
