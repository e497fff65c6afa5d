package model

// RecentLimit is how many recent users and report cards the dashboard shows
const RecentLimit = 5

// DashboardStats aggregates both lists for the admin landing page
type DashboardStats struct {
	TotalUsers        int          `json:"totalUsers"`
	TotalReportCards  int          `json:"totalReportCards"`
	RecentUsers       []User       `json:"recentUsers"`
	RecentReportCards []ReportCard `json:"recentReportCards"`
}
