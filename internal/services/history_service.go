package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/reposcout/reposcout/internal/models"
	"github.com/reposcout/reposcout/internal/repositories"
	"github.com/reposcout/reposcout/pkg/logger"
)

// offsetWindow bounds how far back a recorded pagination offset is reused
const offsetWindow = 24 * time.Hour

// HistoryService is the durable per-user record of repositories already
// shown. Every operation degrades gracefully on storage failure: reads fail
// open (everything counts as unseen), writes are best-effort, and errors are
// logged instead of propagated.
type HistoryService struct {
	trackedRepos *repositories.TrackedRepositoryRepository
	searchEvents *repositories.SearchEventRepository
}

func NewHistoryService(trackedRepos *repositories.TrackedRepositoryRepository, searchEvents *repositories.SearchEventRepository) *HistoryService {
	return &HistoryService{
		trackedRepos: trackedRepos,
		searchEvents: searchEvents,
	}
}

// OffsetFor returns the highest pagination offset used for this exact star
// range within the last 24 hours, 0 when none was recorded.
func (s *HistoryService) OffsetFor(userID string, minStars, maxStars int) int {
	cutoff := time.Now().UTC().Add(-offsetWindow)
	offset, err := s.searchEvents.MaxOffsetSince(userID, minStars, maxStars, cutoff)
	if err != nil {
		logger.WithError(err).Warnf("could not read search offset for user %s", userID)
		return 0
	}
	return offset
}

// Add upserts the given repositories into the user's history and appends one
// search event recording the batch. A repository seen before gets its
// counters and timestamps bumped; a new one starts at show_count 1.
func (s *HistoryService) Add(userID string, repos []*models.ScoredCandidate, criteria models.SearchCriteria, offset int) {
	serialized := criteria.Serialize()

	for _, repo := range repos {
		if err := s.upsert(userID, repo, serialized); err != nil {
			logger.WithError(err).Warnf("could not persist repository %s", repo.RepoName)
		}
	}

	event := models.NewSearchEvent(userID)
	event.MinStars = criteria.MinStars
	event.MaxStars = criteria.MaxStars
	event.LimitRequested = criteria.Limit
	event.ReposFound = len(repos)
	event.NewReposShown = len(repos)
	event.SearchCriteria = &serialized
	event.SearchOffset = offset

	if err := s.searchEvents.Create(event); err != nil {
		logger.WithError(err).Warnf("could not log search event for user %s", userID)
	}
}

func (s *HistoryService) upsert(userID string, repo *models.ScoredCandidate, serializedCriteria string) error {
	existing, err := s.trackedRepos.GetByName(userID, repo.RepoName)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	tracked := trackedFromScored(userID, repo, serializedCriteria)
	if existing == nil {
		return s.trackedRepos.Create(tracked)
	}
	return s.trackedRepos.UpdateOnReobservation(tracked)
}

// Unseen returns the subset of repos not shown to the user within the last
// `days` days. On storage failure the whole input is returned: fail open
// toward showing results, not toward silently hiding them.
func (s *HistoryService) Unseen(userID string, repos []*models.ScoredCandidate, days int) []*models.ScoredCandidate {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	shown, err := s.trackedRepos.ListShownSince(userID, cutoff)
	if err != nil {
		logger.WithError(err).Warnf("could not read shown repositories for user %s", userID)
		return repos
	}

	seen := make(map[string]bool, len(shown))
	for _, name := range shown {
		seen[name] = true
	}

	var fresh []*models.ScoredCandidate
	for _, repo := range repos {
		if !seen[repo.RepoName] {
			fresh = append(fresh, repo)
		}
	}
	return fresh
}

// RecordAnalysis persists a deep analysis result into the user's history
func (s *HistoryService) RecordAnalysis(userID string, analysis *models.SuitabilityAnalysis) {
	score := analysis.OverallScore
	repo := &models.ScoredCandidate{
		RepoName:       analysis.RepoName,
		Stars:          analysis.Stars,
		License:        analysis.License,
		URL:            "https://github.com/" + analysis.RepoName,
		Description:    analysis.Description,
		PassesCriteria: analysis.IsSuitable,
		AnalysisScore:  &score,
	}
	s.Add(userID, []*models.ScoredCandidate{repo}, models.SearchCriteria{Type: "manual_analysis"}, 0)
}

// Stats summarizes the user's history; zero values on storage failure
func (s *HistoryService) Stats(userID string) *models.HistoryStats {
	stats := &models.HistoryStats{UserID: userID}

	var err error
	if stats.TotalRepositories, err = s.trackedRepos.CountAll(userID); err != nil {
		logger.WithError(err).Warnf("could not read statistics for user %s", userID)
		return stats
	}
	if stats.PassingRepositories, err = s.trackedRepos.CountPassing(userID); err != nil {
		logger.WithError(err).Warnf("could not count passing repositories for user %s", userID)
	}
	recentCutoff := time.Now().UTC().AddDate(0, 0, -7)
	if stats.RecentRepositories, err = s.trackedRepos.CountShownSince(userID, recentCutoff); err != nil {
		logger.WithError(err).Warnf("could not count recent repositories for user %s", userID)
	}
	if stats.TotalSearches, err = s.searchEvents.CountForUser(userID); err != nil {
		logger.WithError(err).Warnf("could not count searches for user %s", userID)
	}
	if stats.AverageAnalysisScore, err = s.trackedRepos.AverageAnalysisScore(userID); err != nil {
		logger.WithError(err).Warnf("could not compute average analysis score for user %s", userID)
	}

	return stats
}

// Cleanup deletes tracked repositories last shown more than daysToKeep days
// ago that were never analyzed, plus search events of the same age. Returns
// the number of rows removed.
func (s *HistoryService) Cleanup(userID string, daysToKeep int) int {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)

	var total int64
	deleted, err := s.trackedRepos.DeleteStaleBefore(userID, cutoff)
	if err != nil {
		logger.WithError(err).Warnf("could not clean up repositories for user %s", userID)
	} else {
		total += deleted
	}

	deleted, err = s.searchEvents.DeleteBefore(userID, cutoff)
	if err != nil {
		logger.WithError(err).Warnf("could not clean up search events for user %s", userID)
	} else {
		total += deleted
	}

	return int(total)
}

// Reset drops the user's entire history
func (s *HistoryService) Reset(userID string) {
	if err := s.trackedRepos.DeleteAllForUser(userID); err != nil {
		logger.WithError(err).Warnf("could not reset repositories for user %s", userID)
	}
	if err := s.searchEvents.DeleteAllForUser(userID); err != nil {
		logger.WithError(err).Warnf("could not reset search events for user %s", userID)
	}
}

// ListAll returns every tracked repository for the user, most recent first;
// empty on storage failure.
func (s *HistoryService) ListAll(userID string) []*models.TrackedRepository {
	repos, err := s.trackedRepos.ListAll(userID)
	if err != nil {
		logger.WithError(err).Warnf("could not list repositories for user %s", userID)
		return nil
	}
	return repos
}

// TopAnalyzed returns the user's best analyzed repositories
func (s *HistoryService) TopAnalyzed(userID string, limit int) []*models.TrackedRepository {
	repos, err := s.trackedRepos.TopAnalyzed(userID, limit)
	if err != nil {
		logger.WithError(err).Warnf("could not list analyzed repositories for user %s", userID)
		return nil
	}
	return repos
}

// GetByName returns one tracked repository, nil when absent or on failure
func (s *HistoryService) GetByName(userID, repoName string) *models.TrackedRepository {
	repo, err := s.trackedRepos.GetByName(userID, repoName)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.WithError(err).Warnf("could not read repository %s", repoName)
		}
		return nil
	}
	return repo
}

func trackedFromScored(userID string, repo *models.ScoredCandidate, serializedCriteria string) *models.TrackedRepository {
	tracked := models.NewTrackedRepository(userID, repo.RepoName)
	tracked.Stars = repo.Stars
	tracked.PyFilesEstimate = repo.PyFilesEstimate
	tracked.PassesCriteria = repo.PassesCriteria
	tracked.AnalysisScore = repo.AnalysisScore
	tracked.SearchCriteria = &serializedCriteria

	if repo.License != "" {
		license := repo.License
		tracked.License = &license
	}
	if repo.PythonPercentage != "" {
		percentage := repo.PythonPercentage
		tracked.PythonPercentage = &percentage
	}
	if repo.URL != "" {
		url := repo.URL
		tracked.URL = &url
	}
	if repo.Description != "" {
		description := repo.Description
		tracked.Description = &description
	}

	return tracked
}
