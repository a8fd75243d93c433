package domain

import "time"

// MonthlyCount is a total plus the counts created in the current and the
// previous calendar month.
type MonthlyCount struct {
	Total        int `json:"total"`
	CurrentMonth int `json:"currentMonth"`
	LastMonth    int `json:"lastMonth"`
}

// DashboardStats is recomputed on every dashboard load.
type DashboardStats struct {
	TotalUsers MonthlyCount `json:"totalUsers"`
	TotalTrips MonthlyCount `json:"totalTrips"`
	UserRole   MonthlyCount `json:"userRole"`
}

type GrowthPoint struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}
