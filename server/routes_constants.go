package server

// Route path constants
// All API routes are defined here to ensure consistency and prevent typos
const (
	// Public auth routes
	RouteLogin    = "/login"
	RouteRegister = "/register"

	// Bearer auth routes
	RouteAuthMe           = "/auth/me"
	RouteAuthRefreshToken = "/auth/refresh-token"

	// Dashboard
	RouteDashboardMetrics = "/dashboard/metrics"

	// Public forms
	RouteContactUs = "/contact-us"
)
