package resources

// DashboardMetrics is the body of GET /dashboard/metrics.
type DashboardMetrics struct {
	TotalProjects    int            `json:"total_projects"`
	ProjectsByStatus map[string]int `json:"projects_by_status"`
	RecentProjects   []Project      `json:"recent_projects"`
}
