package models

import (
	"time"

	"github.com/google/uuid"
)

// SearchEvent is one append-only record of a search execution for a user.
// The stored offset feeds pagination for later searches on the same range.
type SearchEvent struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	SearchTimestamp time.Time `json:"search_timestamp"`
	MinStars        int       `json:"min_stars"`
	MaxStars        int       `json:"max_stars"`
	LimitRequested  int       `json:"limit_requested"`
	ReposFound      int       `json:"repos_found"`
	NewReposShown   int       `json:"new_repos_shown"`
	SearchCriteria  *string   `json:"search_criteria"`
	SearchOffset    int       `json:"search_offset"`
}

// NewSearchEvent creates a new SearchEvent with a generated UUID
func NewSearchEvent(userID string) *SearchEvent {
	return &SearchEvent{
		ID:              uuid.New().String(),
		UserID:          userID,
		SearchTimestamp: time.Now().UTC(),
	}
}
