package models

import "encoding/json"

// SearchCriteria captures the parameters a search (or a manual analysis) was
// run with; serialized into tracked repositories and search events.
type SearchCriteria struct {
	MinStars int    `json:"min_stars,omitempty"`
	MaxStars int    `json:"max_stars,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Type     string `json:"type,omitempty"`
}

// Serialize returns the criteria as a JSON string for storage
func (c SearchCriteria) Serialize() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}
