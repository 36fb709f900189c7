package model

// KPIs summarizes a professional's appointment volume by status.
type KPIs struct {
	Pending   int `json:"pending"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// DailyRevenue is one day's realized revenue, confirmed and completed
// appointments only.
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// AnalyticsOverview aggregates a professional's appointments over a range.
type AnalyticsOverview struct {
	From                string                    `json:"from"`
	To                  string                    `json:"to"`
	TotalAppointments   int                       `json:"total_appointments"`
	TotalRevenue        float64                   `json:"total_revenue"`
	StatusBreakdown     map[AppointmentStatus]int `json:"status_breakdown"`
	WeekdayCounts       map[string]int            `json:"weekday_counts"`
	DailyRevenue        []DailyRevenue            `json:"daily_revenue"`
	ServiceDistribution map[string]int            `json:"service_distribution"`
}
