package models

// DashboardStats is the admin overview
type DashboardStats struct {
	Services       int            `json:"services"`
	Projects       int            `json:"projects"`
	LiveProjects   int            `json:"live_projects"`
	Leads          int            `json:"leads"`
	UnreadLeads    int            `json:"unread_leads"`
	LeadsThisMonth int            `json:"leads_this_month"`
	Reviews        int            `json:"reviews"`
	AverageRating  float64        `json:"average_rating"`
	LeadsByType    []TypeCount    `json:"leads_by_type"`
	RecentLeads    []Lead         `json:"recent_leads"`
	LeadScores     ScoreSummary   `json:"lead_scores"`
	ScoreHistogram []HistogramBin `json:"score_histogram"`
}

// TypeCount is the number of leads for one project type
type TypeCount struct {
	ProjectType string `json:"project_type"`
	Count       int    `json:"count"`
}

// ScoreSummary describes the lead score distribution
type ScoreSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
}

// HistogramBin counts scores in [Low, High)
type HistogramBin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}
