package models

// Opportunity is one concrete contribution entry point found during deep
// analysis (a labeled open issue).
type Opportunity struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// SuitabilityAnalysis is the result of a deep repository analysis. Component
// scores and the overall score are on a 0-5 scale.
type SuitabilityAnalysis struct {
	RepoName             string        `json:"repo_name"`
	Stars                int           `json:"stars"`
	License              string        `json:"license"`
	Description          string        `json:"description"`
	OverallScore         float64       `json:"overall_score"`
	IsSuitable           bool          `json:"is_suitable"`
	ActivityScore        float64       `json:"activity_score"`
	OpportunityScore     float64       `json:"opportunity_score"`
	ComplexityScore      float64       `json:"complexity_score"`
	MaintainabilityScore float64       `json:"maintainability_score"`
	Reasons              []string      `json:"reasons"`
	Opportunities        []Opportunity `json:"opportunities"`
	Warnings             []string      `json:"warnings"`
	Recommendation       string        `json:"recommendation"`
}
