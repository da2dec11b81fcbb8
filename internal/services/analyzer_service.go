package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/go-github/v57/github"

	"github.com/reposcout/reposcout/internal/models"
)

// WarnFetchFailed is the sentinel warning carried by a zero-score analysis
// when the repository itself could not be fetched. Callers treat it as the
// not-found case.
const WarnFetchFailed = "Could not fetch repository data"

// Component weights of the overall suitability score. Fixed, not
// configuration.
const (
	weightActivity        = 0.30
	weightOpportunity     = 0.35
	weightComplexity      = 0.20
	weightMaintainability = 0.15

	// SuitabilityThreshold is the overall score at which a repository counts
	// as suitable.
	SuitabilityThreshold = 3.5
)

const opportunityTitleLimit = 60

// componentScore is the explicit outcome of one sub-analysis
type componentScore struct {
	Score    float64
	Reasons  []string
	Warnings []string
}

// AnalyzerService performs deep multi-signal suitability analysis of a single
// repository. Sub-lookups run sequentially; each one can fail independently,
// degrading its component score to 0 with a recorded warning instead of
// aborting the analysis.
type AnalyzerService struct {
	client *github.Client
}

func NewAnalyzerService(client *github.Client) *AnalyzerService {
	return &AnalyzerService{client: client}
}

// AnalyzeDeep scores a repository's contribution suitability. It always
// returns an analysis: when the repository cannot be fetched at all the
// result carries zero scores and the WarnFetchFailed sentinel.
func (s *AnalyzerService) AnalyzeDeep(ctx context.Context, owner, repo string) *models.SuitabilityAnalysis {
	analysis := &models.SuitabilityAnalysis{
		RepoName:      owner + "/" + repo,
		Reasons:       []string{},
		Opportunities: []models.Opportunity{},
		Warnings:      []string{},
	}

	repoData, _, err := s.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		analysis.Warnings = append(analysis.Warnings, WarnFetchFailed)
		return analysis
	}

	analysis.Stars = repoData.GetStargazersCount()
	analysis.License = repoData.GetLicense().GetName()
	if analysis.License == "" {
		analysis.License = "Unknown"
	}
	analysis.Description = repoData.GetDescription()

	activity, err := s.checkActivity(ctx, owner, repo)
	if err != nil {
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("Could not check activity: %v", err))
	} else {
		analysis.ActivityScore = activity.Score
		analysis.Reasons = append(analysis.Reasons, activity.Reasons...)
		analysis.Warnings = append(analysis.Warnings, activity.Warnings...)
	}

	opportunity, opportunities, err := s.findOpportunities(ctx, owner, repo)
	if err != nil {
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("Could not check contribution opportunities: %v", err))
	} else {
		analysis.OpportunityScore = opportunity.Score
		analysis.Opportunities = opportunities
	}

	complexity := assessComplexity(repoData)
	analysis.ComplexityScore = complexity.Score
	analysis.Reasons = append(analysis.Reasons, complexity.Reasons...)
	analysis.Warnings = append(analysis.Warnings, complexity.Warnings...)

	maintainability, err := s.checkMaintainability(ctx, owner, repo)
	if err != nil {
		analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("Could not check maintainability: %v", err))
	} else {
		analysis.MaintainabilityScore = maintainability.Score
		analysis.Reasons = append(analysis.Reasons, maintainability.Reasons...)
	}

	analysis.OverallScore = OverallScore(
		analysis.ActivityScore,
		analysis.OpportunityScore,
		analysis.ComplexityScore,
		analysis.MaintainabilityScore,
	)
	analysis.IsSuitable = analysis.OverallScore >= SuitabilityThreshold
	analysis.Recommendation = RecommendationFor(analysis.OverallScore)

	return analysis
}

// checkActivity scores maintenance level from commit recency, with a bonus
// when the open-issue list paginates (a proxy for active discussion).
func (s *AnalyzerService) checkActivity(ctx context.Context, owner, repo string) (componentScore, error) {
	commits, _, err := s.client.Repositories.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
		ListOptions: github.ListOptions{PerPage: 5},
	})
	if err != nil {
		return componentScore{}, err
	}

	var result componentScore
	if len(commits) == 0 {
		return result, nil
	}

	lastCommit := commits[0].GetCommit().GetAuthor().GetDate().Time
	days := int(time.Since(lastCommit).Hours() / 24)
	result = activityForAge(days)

	_, resp, err := s.client.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err == nil && resp != nil && resp.NextPage > 0 {
		result.Reasons = append(result.Reasons, "Active issue discussions")
		result.Score = math.Min(result.Score+0.5, 5)
	}

	return result, nil
}

// activityForAge maps the age of the most recent commit to a score band
func activityForAge(days int) componentScore {
	switch {
	case days <= 7:
		return componentScore{Score: 5, Reasons: []string{fmt.Sprintf("Recently active (last commit %d days ago)", days)}}
	case days <= 30:
		return componentScore{Score: 4, Reasons: []string{fmt.Sprintf("Recently active (last commit %d days ago)", days)}}
	case days <= 90:
		return componentScore{Score: 3, Reasons: []string{fmt.Sprintf("Moderately active (last commit %d days ago)", days)}}
	case days <= 180:
		return componentScore{Score: 2, Reasons: []string{fmt.Sprintf("Less active (last commit %d days ago)", days)}}
	default:
		return componentScore{Score: 1, Warnings: []string{fmt.Sprintf("Low activity (last commit %d days ago)", days)}}
	}
}

// issueLabelQuery describes one labeled-issue lookup of the opportunity scan
type issueLabelQuery struct {
	label  string
	tag    string
	cap    int
	weight float64
}

var opportunityLabels = []issueLabelQuery{
	{label: "good first issue", tag: "Good First Issue", cap: 3, weight: 1.0},
	{label: "help wanted", tag: "Help Wanted", cap: 2, weight: 0.8},
	{label: "bug", tag: "Bug Fix", cap: 2, weight: 0.6},
}

// findOpportunities counts labeled open issues and collects up to five
// concrete entry points, good-first-issue entries first.
func (s *AnalyzerService) findOpportunities(ctx context.Context, owner, repo string) (componentScore, []models.Opportunity, error) {
	var score float64
	opportunities := []models.Opportunity{}

	for _, query := range opportunityLabels {
		issues, _, err := s.client.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
			Labels:      []string{query.label},
			State:       "open",
			ListOptions: github.ListOptions{PerPage: 5},
		})
		if err != nil {
			return componentScore{}, nil, err
		}

		counted := len(issues)
		if counted > query.cap {
			counted = query.cap
		}
		score += float64(counted) * query.weight

		for _, issue := range issues[:counted] {
			opportunities = append(opportunities, models.Opportunity{
				Type:  query.tag,
				Title: truncateTitle(issue.GetTitle()),
				URL:   issue.GetHTMLURL(),
			})
		}
	}

	if len(opportunities) > 5 {
		opportunities = opportunities[:5]
	}

	return componentScore{Score: math.Min(score, 5)}, opportunities, nil
}

func truncateTitle(title string) string {
	if len(title) > opportunityTitleLimit {
		return title[:opportunityTitleLimit] + "..."
	}
	return title
}

// assessComplexity judges whether the repository is manageable: size bands,
// a penalty for a non-Python primary language, a penalty for a thin
// description. Pure over the fetched repository record.
func assessComplexity(repoData *github.Repository) componentScore {
	var result componentScore

	sizeMB := float64(repoData.GetSize()) / 1024

	switch {
	case sizeMB > 200:
		result.Score = 2
		result.Warnings = append(result.Warnings, fmt.Sprintf("Very large repository (%.0f MB)", sizeMB))
	case sizeMB > 100:
		result.Score = 3
		result.Warnings = append(result.Warnings, fmt.Sprintf("Large repository (%.0f MB)", sizeMB))
	case sizeMB > 50:
		result.Score = 4
		result.Reasons = append(result.Reasons, fmt.Sprintf("Medium-sized repository (%.0f MB)", sizeMB))
	default:
		result.Score = 5
		result.Reasons = append(result.Reasons, fmt.Sprintf("Manageable size (%.0f MB)", sizeMB))
	}

	if repoData.GetLanguage() == "Python" {
		result.Reasons = append(result.Reasons, "Python-primary repository")
	} else {
		result.Score = math.Max(1, result.Score-1)
	}

	if len(repoData.GetDescription()) > 50 {
		result.Reasons = append(result.Reasons, "Well documented")
	} else {
		result.Score = math.Max(1, result.Score-0.5)
	}

	result.Score = math.Max(0, math.Min(result.Score, 5))
	return result
}

// checkMaintainability inspects the root directory listing for contributor
// guidance, a README and a license file.
func (s *AnalyzerService) checkMaintainability(ctx context.Context, owner, repo string) (componentScore, error) {
	_, dirContents, _, err := s.client.Repositories.GetContents(ctx, owner, repo, "", nil)
	if err != nil {
		return componentScore{}, err
	}

	var files []string
	for _, entry := range dirContents {
		if entry.GetType() == "file" {
			files = append(files, strings.ToLower(entry.GetName()))
		}
	}

	return maintainabilityFromFiles(files), nil
}

// maintainabilityFromFiles scores a lowercase root-file listing
func maintainabilityFromFiles(files []string) componentScore {
	var result componentScore

	hasReadme := false
	hasContributing := false
	hasLicense := false
	for _, name := range files {
		if strings.Contains(name, "contributing") {
			hasContributing = true
		}
		if name == "readme.md" || name == "readme.rst" {
			hasReadme = true
		}
		if strings.Contains(name, "license") {
			hasLicense = true
		}
	}

	if hasContributing {
		result.Score += 2
		result.Reasons = append(result.Reasons, "Has contributing guidelines")
	}
	if hasReadme {
		result.Score += 1.5
		result.Reasons = append(result.Reasons, "Has README")
	}
	if hasLicense {
		result.Score += 1.5
		result.Reasons = append(result.Reasons, "Has license file")
	}

	result.Score = math.Min(result.Score, 5)
	return result
}

// OverallScore combines the four component scores into the weighted 0-5
// suitability score, rounded to one decimal.
func OverallScore(activity, opportunity, complexity, maintainability float64) float64 {
	weighted := activity*weightActivity +
		opportunity*weightOpportunity +
		complexity*weightComplexity +
		maintainability*weightMaintainability
	return math.Round(weighted*10) / 10
}

// RecommendationFor buckets an overall score into an actionable verdict.
// Bucket boundaries are fixed constants.
func RecommendationFor(score float64) string {
	switch {
	case score >= 4.2:
		return "EXCELLENT choice. High activity with great contribution opportunities."
	case score >= SuitabilityThreshold:
		return "GOOD choice. Should offer suitable contribution opportunities."
	case score >= 2.5:
		return "MODERATE choice. May require more effort to find good contribution opportunities."
	default:
		return "NOT RECOMMENDED. Consider looking for more active repositories with clearer opportunities."
	}
}
