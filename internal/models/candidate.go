package models

// Candidate represents a repository surfaced by one search call, before
// scoring. It has no identity beyond the batch it arrived in.
type Candidate struct {
	FullName    string           `json:"full_name"` // e.g. "django/django"
	Stars       int              `json:"stars"`
	License     string           `json:"license"` // SPDX ID or license name, empty when absent
	Description string           `json:"description"`
	URL         string           `json:"url"`
	Languages   map[string]int64 `json:"languages"` // bytes per language
}

// TotalBytes returns the total language byte size of the repository
func (c *Candidate) TotalBytes() int64 {
	var total int64
	for _, size := range c.Languages {
		total += size
	}
	return total
}

// PythonFraction returns the share of Python bytes in the repository,
// 0 when no language data is available.
func (c *Candidate) PythonFraction() float64 {
	total := c.TotalBytes()
	if total == 0 {
		return 0
	}
	return float64(c.Languages["Python"]) / float64(total)
}

// EstimatedPyFiles is a crude file-count proxy derived from the Python share
func (c *Candidate) EstimatedPyFiles() int {
	estimate := int(c.PythonFraction() * 30)
	if estimate < 1 {
		return 1
	}
	return estimate
}

// ScoredCandidate is a Candidate with the cheap pass/fail signal attached
type ScoredCandidate struct {
	RepoName         string   `json:"repo_name"`
	Stars            int      `json:"stars"`
	License          string   `json:"license"`
	LicenseOK        bool     `json:"license_ok"`
	PyFilesEstimate  int      `json:"py_files_estimate"`
	PythonPercentage string   `json:"python_percentage"`
	PythonFraction   float64  `json:"-"`
	URL              string   `json:"url"`
	Description      string   `json:"description"`
	PassesCriteria   bool     `json:"passes_criteria"`
	AnalysisScore    *float64 `json:"analysis_score,omitempty"`
	IsNew            bool     `json:"is_new"`
}
