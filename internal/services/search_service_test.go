package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reposcout/reposcout/internal/models"
	"github.com/reposcout/reposcout/pkg/config"
)

// fakeProvider replays a scripted result per attempt and records every call
type fakeProvider struct {
	results map[int]*ProviderResult
	errs    map[int]error
	calls   []providerCall
}

type providerCall struct {
	attempt int
	offset  int
}

func (p *fakeProvider) Search(ctx context.Context, attempt, minStars, maxStars, limit, offset int) (*ProviderResult, error) {
	p.calls = append(p.calls, providerCall{attempt: attempt, offset: offset})
	if err, ok := p.errs[attempt]; ok {
		return nil, err
	}
	if result, ok := p.results[attempt]; ok {
		return result, nil
	}
	return &ProviderResult{RateLimit: RateLimit{Remaining: 4999, Cost: 1}}, nil
}

// fakeHistory is an in-memory HistoryStore tracking what was persisted
type fakeHistory struct {
	seen      map[string]bool
	offset    int
	added     [][]*models.ScoredCandidate
	addOffset []int
}

func newFakeHistory(seen ...string) *fakeHistory {
	h := &fakeHistory{seen: make(map[string]bool)}
	for _, name := range seen {
		h.seen[name] = true
	}
	return h
}

func (h *fakeHistory) OffsetFor(userID string, minStars, maxStars int) int { return h.offset }

func (h *fakeHistory) Add(userID string, repos []*models.ScoredCandidate, criteria models.SearchCriteria, offset int) {
	h.added = append(h.added, repos)
	h.addOffset = append(h.addOffset, offset)
}

func (h *fakeHistory) Unseen(userID string, repos []*models.ScoredCandidate, days int) []*models.ScoredCandidate {
	var fresh []*models.ScoredCandidate
	for _, repo := range repos {
		if !h.seen[repo.RepoName] {
			fresh = append(fresh, repo)
		}
	}
	return fresh
}

func (h *fakeHistory) Stats(userID string) *models.HistoryStats { return &models.HistoryStats{} }

func (h *fakeHistory) Cleanup(userID string, daysToKeep int) int { return 0 }

func (h *fakeHistory) Reset(userID string) {}

func goodBatch(names ...string) *ProviderResult {
	result := &ProviderResult{RateLimit: RateLimit{Remaining: 4000, Cost: 1}}
	for _, name := range names {
		result.Candidates = append(result.Candidates, pythonCandidate(name, 2000, "MIT", 900, 100))
	}
	return result
}

func defaultOptions() SearchOptions {
	return SearchOptions{
		MinStars:    500,
		MaxStars:    50000,
		Limit:       10,
		DaysFilter:  7,
		FreshOnly:   true,
		TargetCount: 3,
		MaxAttempts: 3,
	}
}

func newSearchService(provider SearchProvider, history HistoryStore) *SearchService {
	return NewSearchService(provider, history, NewScorerService(config.DefaultAllowedLicenses))
}

func TestSearchOptionsValidation(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(*SearchOptions)
		wantErr bool
	}{
		{name: "Valid defaults", mutate: func(o *SearchOptions) {}, wantErr: false},
		{name: "Min equals max", mutate: func(o *SearchOptions) { o.MinStars = 1000; o.MaxStars = 1000 }, wantErr: true},
		{name: "Min above max", mutate: func(o *SearchOptions) { o.MinStars = 2000; o.MaxStars = 1000 }, wantErr: true},
		{name: "Zero limit", mutate: func(o *SearchOptions) { o.Limit = 0 }, wantErr: true},
		{name: "Limit too large", mutate: func(o *SearchOptions) { o.Limit = 101 }, wantErr: true},
		{name: "Limit at maximum", mutate: func(o *SearchOptions) { o.Limit = 100 }, wantErr: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			opts := defaultOptions()
			tc.mutate(&opts)

			err := opts.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindFreshCandidates(t *testing.T) {
	ctx := context.Background()

	t.Run("Deduplicates by first occurrence and marks new", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: goodBatch("octo/a", "octo/b"),
			1: goodBatch("octo/b", "octo/c"),
		}}
		history := newFakeHistory()

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Equal(t, "octo/a", results[0].RepoName)
		assert.Equal(t, "octo/b", results[1].RepoName)
		assert.Equal(t, "octo/c", results[2].RepoName)
		for _, repo := range results {
			assert.True(t, repo.IsNew)
		}
	})

	t.Run("Filters recently shown repositories", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: goodBatch("octo/seen", "octo/fresh-a", "octo/fresh-b", "octo/fresh-c"),
		}}
		history := newFakeHistory("octo/seen")

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Len(t, results, 3)
		for _, repo := range results {
			assert.NotEqual(t, "octo/seen", repo.RepoName)
		}
	})

	t.Run("Force refresh bypasses history and stops after one attempt", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: goodBatch("octo/seen"),
		}}
		history := newFakeHistory("octo/seen")

		opts := defaultOptions()
		opts.ForceRefresh = true

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", opts)

		assert.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, "octo/seen", results[0].RepoName)
		assert.Len(t, provider.calls, 1)
	})

	t.Run("Stops once target count is reached", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: goodBatch("octo/a", "octo/b", "octo/c"),
			1: goodBatch("octo/d"),
		}}
		history := newFakeHistory()

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Len(t, results, 3)
		assert.Len(t, provider.calls, 1)
	})

	t.Run("Attempt offsets advance from the stored offset", func(t *testing.T) {
		provider := &fakeProvider{}
		history := newFakeHistory()
		history.offset = 40

		opts := defaultOptions()
		opts.Limit = 10

		_, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", opts)

		assert.NoError(t, err)
		assert.Len(t, provider.calls, 3)
		assert.Equal(t, 40, provider.calls[0].offset)
		assert.Equal(t, 50, provider.calls[1].offset)
		assert.Equal(t, 60, provider.calls[2].offset)
	})

	t.Run("Results are persisted with the starting offset", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: goodBatch("octo/a", "octo/b", "octo/c"),
		}}
		history := newFakeHistory()
		history.offset = 20

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Len(t, history.added, 1)
		assert.Len(t, history.added[0], len(results))
		assert.Equal(t, 20, history.addOffset[0])
	})

	t.Run("Nothing is persisted when nothing was found", func(t *testing.T) {
		provider := &fakeProvider{}
		history := newFakeHistory()

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Empty(t, results)
		assert.Empty(t, history.added)
	})

	t.Run("Failing attempt is skipped", func(t *testing.T) {
		provider := &fakeProvider{
			errs: map[int]error{0: errors.New("boom")},
			results: map[int]*ProviderResult{
				1: goodBatch("octo/a", "octo/b", "octo/c"),
			},
		}
		history := newFakeHistory()

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("All attempts failing is an error", func(t *testing.T) {
		provider := &fakeProvider{errs: map[int]error{
			0: errors.New("boom 0"),
			1: errors.New("boom 1"),
			2: errors.New("boom 2"),
		}}
		history := newFakeHistory()

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.Error(t, err)
		assert.Empty(t, results)
		assert.Contains(t, err.Error(), "all 3 search attempts failed")
	})

	t.Run("Rate limit defaults when no attempt executed", func(t *testing.T) {
		provider := &fakeProvider{errs: map[int]error{
			0: errors.New("boom"),
		}}
		history := newFakeHistory()

		opts := defaultOptions()
		opts.MaxAttempts = 1

		_, rate, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", opts)

		assert.Error(t, err)
		assert.Equal(t, 5000, rate)
	})

	t.Run("Rate limit follows the last successful attempt", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: {
				Candidates: goodBatch("octo/a", "octo/b", "octo/c").Candidates,
				RateLimit:  RateLimit{Remaining: 123, Cost: 1},
			},
		}}
		history := newFakeHistory()

		_, rate, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", defaultOptions())

		assert.NoError(t, err)
		assert.Equal(t, 123, rate)
	})

	t.Run("Fresh-only false runs a single attempt without filtering beyond the first", func(t *testing.T) {
		provider := &fakeProvider{results: map[int]*ProviderResult{
			0: goodBatch("octo/seen", "octo/new"),
		}}
		history := newFakeHistory("octo/seen")

		opts := defaultOptions()
		opts.FreshOnly = false

		results, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", opts)

		assert.NoError(t, err)
		assert.Len(t, provider.calls, 1)
		// attempt 0 still filters seen repositories even with fresh-only off
		assert.Len(t, results, 1)
		assert.Equal(t, "octo/new", results[0].RepoName)
	})

	t.Run("Invalid options fail before any provider call", func(t *testing.T) {
		provider := &fakeProvider{}
		history := newFakeHistory()

		opts := defaultOptions()
		opts.MinStars = 5000
		opts.MaxStars = 500

		_, _, err := newSearchService(provider, history).FindFreshCandidates(ctx, "alice", opts)

		assert.Error(t, err)
		assert.Empty(t, provider.calls)
	})
}

func TestFreshnessAcrossSearches(t *testing.T) {
	// A deterministic provider stream plus a real sqlite-backed history:
	// two consecutive fresh-only searches must return disjoint sets.
	ctx := context.Background()
	history := newTestHistory(t)
	provider := &fakeProvider{results: map[int]*ProviderResult{
		0: goodBatch("octo/a", "octo/b", "octo/c"),
	}}
	service := newSearchService(provider, history)

	first, _, err := service.FindFreshCandidates(ctx, "alice", defaultOptions())
	assert.NoError(t, err)
	assert.Len(t, first, 3)

	second, _, err := service.FindFreshCandidates(ctx, "alice", defaultOptions())
	assert.NoError(t, err)
	for _, repo := range second {
		for _, prior := range first {
			assert.NotEqual(t, prior.RepoName, repo.RepoName)
		}
	}

	// A different user still sees the full stream
	other, _, err := service.FindFreshCandidates(ctx, "bob", defaultOptions())
	assert.NoError(t, err)
	assert.Len(t, other, 3)
}

func TestDedupeByName(t *testing.T) {
	t.Run("Keeps first occurrence", func(t *testing.T) {
		repos := []*models.ScoredCandidate{
			{RepoName: "octo/a", Stars: 1},
			{RepoName: "octo/b"},
			{RepoName: "octo/a", Stars: 2},
		}

		unique := dedupeByName(repos)

		assert.Len(t, unique, 2)
		assert.Equal(t, 1, unique[0].Stars)
	})

	t.Run("Large synthetic batch stays unique", func(t *testing.T) {
		var repos []*models.ScoredCandidate
		for i := 0; i < 50; i++ {
			repos = append(repos, &models.ScoredCandidate{RepoName: fmt.Sprintf("octo/repo-%d", i%20)})
		}

		unique := dedupeByName(repos)

		assert.Len(t, unique, 20)
		names := make(map[string]bool)
		for _, repo := range unique {
			assert.False(t, names[repo.RepoName])
			names[repo.RepoName] = true
		}
	})
}
