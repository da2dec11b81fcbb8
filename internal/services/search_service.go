package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/reposcout/reposcout/internal/models"
	"github.com/reposcout/reposcout/pkg/logger"
)

// defaultRateRemaining is reported when no search attempt ever executed
const defaultRateRemaining = 5000

// SearchProvider executes one parameterized repository search. The attempt
// index selects a query strategy from the provider's fixed, ordered strategy
// table; the mapping must be deterministic so attempt-to-strategy behavior is
// reproducible.
type SearchProvider interface {
	Search(ctx context.Context, attempt, minStars, maxStars, limit, offset int) (*ProviderResult, error)
}

// HistoryStore is the per-user record of repositories already shown.
// Implementations fail open: a broken store behaves as if everything were
// unseen and writes are best-effort.
type HistoryStore interface {
	OffsetFor(userID string, minStars, maxStars int) int
	Add(userID string, repos []*models.ScoredCandidate, criteria models.SearchCriteria, offset int)
	Unseen(userID string, repos []*models.ScoredCandidate, days int) []*models.ScoredCandidate
	Stats(userID string) *models.HistoryStats
	Cleanup(userID string, daysToKeep int) int
	Reset(userID string)
}

// SearchOptions are the caller-facing knobs of a freshness search
type SearchOptions struct {
	MinStars     int
	MaxStars     int
	Limit        int
	DaysFilter   int
	FreshOnly    bool
	ForceRefresh bool
	TargetCount  int
	MaxAttempts  int
}

// Validate rejects bad parameters before any network call is made
func (o *SearchOptions) Validate() error {
	if o.MinStars >= o.MaxStars {
		return fmt.Errorf("min-stars (%d) must be less than max-stars (%d)", o.MinStars, o.MaxStars)
	}
	if o.Limit <= 0 || o.Limit > 100 {
		return fmt.Errorf("limit must be between 1 and 100, got %d", o.Limit)
	}
	return nil
}

func (o *SearchOptions) applyDefaults() {
	if o.DaysFilter <= 0 {
		o.DaysFilter = 7
	}
	if o.TargetCount <= 0 {
		o.TargetCount = 3
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
}

// SearchService is the freshness-guaranteeing search orchestrator: it walks
// the provider's strategy table until enough fresh unique candidates are
// collected, then persists the batch.
type SearchService struct {
	provider SearchProvider
	history  HistoryStore
	scorer   *ScorerService
}

func NewSearchService(provider SearchProvider, history HistoryStore, scorer *ScorerService) *SearchService {
	return &SearchService{
		provider: provider,
		history:  history,
		scorer:   scorer,
	}
}

// FindFreshCandidates searches with rotating strategies and increasing
// offsets until TargetCount fresh unique candidates are collected or attempts
// run out. Results are deduplicated by name in first-seen order, marked as
// new, and persisted together with one search event carrying the starting
// offset. The second return value is the last observed rate-limit remaining
// budget. A failing attempt is skipped; the call only fails when every
// attempt failed and nothing was collected.
func (s *SearchService) FindFreshCandidates(ctx context.Context, userID string, opts SearchOptions) ([]*models.ScoredCandidate, int, error) {
	if err := opts.Validate(); err != nil {
		return nil, defaultRateRemaining, err
	}
	opts.applyDefaults()

	// A forced refresh or a repeat-allowing search never narrows the batch,
	// so one pass always suffices.
	effectiveAttempts := opts.MaxAttempts
	if opts.ForceRefresh || !opts.FreshOnly {
		effectiveAttempts = 1
	}

	startingOffset := s.history.OffsetFor(userID, opts.MinStars, opts.MaxStars)
	rateRemaining := defaultRateRemaining

	var collected []*models.ScoredCandidate
	var attemptErrs []error

	for attempt := 0; attempt < effectiveAttempts; attempt++ {
		currentOffset := startingOffset + attempt*opts.Limit

		result, err := s.provider.Search(ctx, attempt, opts.MinStars, opts.MaxStars, opts.Limit, currentOffset)
		if err != nil {
			logger.WithError(err).Warnf("search attempt %d failed, trying next strategy", attempt)
			attemptErrs = append(attemptErrs, err)
			continue
		}

		rateRemaining = result.RateLimit.Remaining
		if len(result.Candidates) == 0 {
			continue
		}

		good := s.scorer.FilterGoodCandidates(s.scorer.ScoreAll(result.Candidates))
		if len(good) == 0 {
			continue
		}

		if !opts.ForceRefresh && (opts.FreshOnly || attempt == 0) {
			good = s.history.Unseen(userID, good, opts.DaysFilter)
		}

		collected = append(collected, good...)

		if len(collected) >= opts.TargetCount || opts.ForceRefresh {
			break
		}
	}

	if len(collected) == 0 && len(attemptErrs) == effectiveAttempts && effectiveAttempts > 0 {
		return nil, rateRemaining, fmt.Errorf("all %d search attempts failed: %w", effectiveAttempts, errors.Join(attemptErrs...))
	}

	unique := dedupeByName(collected)

	if len(unique) > 0 {
		criteria := models.SearchCriteria{
			MinStars: opts.MinStars,
			MaxStars: opts.MaxStars,
			Limit:    opts.Limit,
		}
		s.history.Add(userID, unique, criteria, startingOffset)
	}

	return unique, rateRemaining, nil
}

// dedupeByName keeps the first occurrence of each repository name and marks
// every survivor as new for this search.
func dedupeByName(repos []*models.ScoredCandidate) []*models.ScoredCandidate {
	seen := make(map[string]bool, len(repos))
	var unique []*models.ScoredCandidate
	for _, repo := range repos {
		if seen[repo.RepoName] {
			continue
		}
		seen[repo.RepoName] = true
		repo.IsNew = true
		unique = append(unique, repo)
	}
	return unique
}
