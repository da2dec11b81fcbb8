package services

import (
	"context"
	"fmt"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/reposcout/reposcout/internal/models"
	"github.com/reposcout/reposcout/pkg/logger"
)

// RateLimit is the remaining-budget snapshot returned with every search
type RateLimit struct {
	Remaining int `json:"remaining"`
	Cost      int `json:"cost"`
}

// ProviderResult is one batch of candidates plus the rate-limit snapshot
type ProviderResult struct {
	Candidates []*models.Candidate
	RateLimit  RateLimit
}

// searchStrategy is one entry of the fixed strategy table. Sub-ranges and
// expansions are expressed relative to the requested star bounds.
type searchStrategy struct {
	sort   string
	bounds func(min, max int) (int, int)
	topic  string
}

func fullRange(min, max int) (int, int) { return min, max }

// strategies diversify repeated searches: different sort orders, star
// sub-ranges and expansions, and topic filters. Selection by index is stable,
// so the same attempt number always produces the same query shape.
var strategies = []searchStrategy{
	{sort: "stars", bounds: fullRange},
	{sort: "updated", bounds: fullRange},
	{sort: "stars", bounds: func(min, max int) (int, int) {
		return min, min + (max-min)/3
	}},
	{sort: "stars", bounds: func(min, max int) (int, int) {
		return min + (max-min)/3 + 1, min + 2*(max-min)/3
	}},
	{sort: "stars", bounds: func(min, max int) (int, int) {
		return min + 2*(max-min)/3 + 1, max
	}},
	{sort: "updated", bounds: func(min, max int) (int, int) {
		lo := min - 200
		if lo < 100 {
			lo = 100
		}
		return lo, max + 1000
	}},
	{sort: "stars", bounds: func(min, max int) (int, int) {
		hi := max * 2
		if hi > 50000 {
			hi = 50000
		}
		return min, hi
	}},
	{sort: "updated", bounds: func(min, max int) (int, int) {
		return min + 2*(max-min)/3 + 1, max
	}},
	{sort: "stars", bounds: fullRange, topic: "machine-learning"},
	{sort: "stars", bounds: fullRange, topic: "web-development"},
	{sort: "stars", bounds: fullRange, topic: "data-science"},
	{sort: "stars", bounds: fullRange, topic: "automation"},
}

// GithubSearchService implements the Search Provider against the GitHub
// search API using an optionally authenticated client.
type GithubSearchService struct {
	client *github.Client
}

func NewGithubSearchService(client *github.Client) *GithubSearchService {
	return &GithubSearchService{client: client}
}

// NewGithubClient builds a go-github client. An empty token gives anonymous
// access (60 requests/hour); a personal access token raises that to 5000.
func NewGithubClient(token string) *github.Client {
	if token == "" {
		return github.NewClient(nil)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return github.NewClient(oauth2.NewClient(context.Background(), ts))
}

// Search runs one strategy-indexed repository search. The attempt index
// selects an entry from the fixed strategy table; offset is a result offset
// translated into page-based pagination.
func (s *GithubSearchService) Search(ctx context.Context, attempt, minStars, maxStars, limit, offset int) (*ProviderResult, error) {
	strategy := strategies[attempt%len(strategies)]
	lo, hi := strategy.bounds(minStars, maxStars)

	query := fmt.Sprintf("language:Python stars:%d..%d archived:false fork:false", lo, hi)
	if strategy.topic != "" {
		query += " topic:" + strategy.topic
	}

	page := 1
	if limit > 0 {
		page = offset/limit + 1
	}

	opts := &github.SearchOptions{
		Sort:  strategy.sort,
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: limit,
		},
	}

	result, resp, err := s.client.Search.Repositories(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("github repository search failed: %w", err)
	}

	candidates := make([]*models.Candidate, 0, len(result.Repositories))
	for _, item := range result.Repositories {
		candidate := &models.Candidate{
			FullName:    item.GetFullName(),
			Stars:       item.GetStargazersCount(),
			License:     item.GetLicense().GetSPDXID(),
			Description: item.GetDescription(),
			URL:         item.GetHTMLURL(),
			Languages:   s.languageBytes(ctx, item),
		}
		if candidate.License == "" {
			candidate.License = item.GetLicense().GetName()
		}
		candidates = append(candidates, candidate)
	}

	rate := RateLimit{Remaining: 5000, Cost: 1}
	if resp != nil {
		rate.Remaining = resp.Rate.Remaining
	}

	return &ProviderResult{Candidates: candidates, RateLimit: rate}, nil
}

// languageBytes fetches the per-language byte breakdown for a repository.
// Best-effort: a failed lookup yields an empty map, which scores as 0% Python.
func (s *GithubSearchService) languageBytes(ctx context.Context, repo *github.Repository) map[string]int64 {
	langs, _, err := s.client.Repositories.ListLanguages(ctx, repo.GetOwner().GetLogin(), repo.GetName())
	if err != nil {
		logger.WithError(err).Warnf("could not fetch languages for %s", repo.GetFullName())
		return map[string]int64{}
	}

	bytes := make(map[string]int64, len(langs))
	for lang, size := range langs {
		bytes[lang] = int64(size)
	}
	return bytes
}
