package services

import (
	"fmt"
	"strings"

	"github.com/reposcout/reposcout/internal/models"
)

const (
	// Candidates at or above this star count are considered too established
	// for a first contribution.
	maxCandidateStars = 10000

	// Minimum share of Python bytes for a candidate to pass
	minPythonFraction = 0.70

	descriptionLimit = 100
)

// ScorerService computes the cheap pass/fail signal for search candidates.
// It is pure: no network calls, no storage.
type ScorerService struct {
	allowedLicenses []string // normalized
}

func NewScorerService(allowedLicenses []string) *ScorerService {
	normalized := make([]string, 0, len(allowedLicenses))
	for _, license := range allowedLicenses {
		if n := normalizeLicense(license); n != "" {
			normalized = append(normalized, n)
		}
	}
	return &ScorerService{allowedLicenses: normalized}
}

// Score derives the descriptive fields and the passes_criteria flag for a
// single candidate. A candidate passes when its license is allowed, it has
// fewer than 10000 stars and more than 70% of its bytes are Python.
func (s *ScorerService) Score(candidate *models.Candidate) *models.ScoredCandidate {
	fraction := candidate.PythonFraction()
	licenseOK := s.LicenseAllowed(candidate.License)

	license := candidate.License
	if license == "" {
		license = "Unknown"
	}

	description := candidate.Description
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit] + "..."
	}

	return &models.ScoredCandidate{
		RepoName:         candidate.FullName,
		Stars:            candidate.Stars,
		License:          license,
		LicenseOK:        licenseOK,
		PyFilesEstimate:  candidate.EstimatedPyFiles(),
		PythonPercentage: fmt.Sprintf("%.1f%%", fraction*100),
		PythonFraction:   fraction,
		URL:              candidate.URL,
		Description:      description,
		PassesCriteria:   licenseOK && candidate.Stars < maxCandidateStars && fraction > minPythonFraction,
	}
}

// ScoreAll scores a whole batch, preserving order
func (s *ScorerService) ScoreAll(candidates []*models.Candidate) []*models.ScoredCandidate {
	scored := make([]*models.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, s.Score(candidate))
	}
	return scored
}

// FilterGoodCandidates keeps only candidates that pass all criteria,
// preserving order.
func (s *ScorerService) FilterGoodCandidates(scored []*models.ScoredCandidate) []*models.ScoredCandidate {
	var good []*models.ScoredCandidate
	for _, candidate := range scored {
		if candidate.PassesCriteria {
			good = append(good, candidate)
		}
	}
	return good
}

// LicenseAllowed reports whether the license identifier matches any allow-list
// entry. Matching is a substring check over normalized identifiers, so SPDX
// IDs, full names and loose spellings all match. A missing license never
// matches.
func (s *ScorerService) LicenseAllowed(license string) bool {
	normalized := normalizeLicense(license)
	if normalized == "" {
		return false
	}

	for _, allowed := range s.allowedLicenses {
		if strings.Contains(normalized, allowed) {
			return true
		}
	}
	return false
}

// normalizeLicense makes license identifiers comparable regardless of case,
// dashes, underscores and spaces.
func normalizeLicense(license string) string {
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return replacer.Replace(strings.ToUpper(strings.TrimSpace(license)))
}
