package models

// HistoryStats summarizes a user's tracked-repository history
type HistoryStats struct {
	UserID               string  `json:"user_id"`
	TotalRepositories    int     `json:"total_repositories"`
	PassingRepositories  int     `json:"passing_repositories"`
	RecentRepositories   int     `json:"recent_repositories"`
	TotalSearches        int     `json:"total_searches"`
	AverageAnalysisScore float64 `json:"average_analysis_score"`
}
