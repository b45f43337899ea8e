package domain

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalPlugins   int64 `json:"total_plugins"`
	TotalUsers     int64 `json:"total_users"`
	TotalReviews   int64 `json:"total_reviews"`
	TotalDownloads int64 `json:"total_downloads"`
	PendingPlugins int64 `json:"pending_plugins"`
	ActivePlugins  int64 `json:"active_plugins"`
}
