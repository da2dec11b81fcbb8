package models

import (
	"time"

	"github.com/google/uuid"
)

// TrackedRepository is a repository persisted in a user's history after being
// surfaced by a search or analyzed. Unique per (user_id, repo_name).
type TrackedRepository struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RepoName         string    `json:"repo_name"`
	Stars            int       `json:"stars"`
	License          *string   `json:"license"`
	PyFilesEstimate  int       `json:"py_files_estimate"`
	PythonPercentage *string   `json:"python_percentage"`
	URL              *string   `json:"url"`
	Description      *string   `json:"description"`
	FirstShown       time.Time `json:"first_shown"`
	LastShown        time.Time `json:"last_shown"`
	ShowCount        int       `json:"show_count"`
	SearchCriteria   *string   `json:"search_criteria"` // serialized criteria used at first discovery
	PassesCriteria   bool      `json:"passes_criteria"`
	AnalysisScore    *float64  `json:"analysis_score"`
}

// NewTrackedRepository creates a new TrackedRepository with a generated UUID
func NewTrackedRepository(userID, repoName string) *TrackedRepository {
	now := time.Now().UTC()
	return &TrackedRepository{
		ID:         uuid.New().String(),
		UserID:     userID,
		RepoName:   repoName,
		FirstShown: now,
		LastShown:  now,
		ShowCount:  1,
	}
}
