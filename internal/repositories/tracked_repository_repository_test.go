package repositories

import (
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reposcout/reposcout/internal/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	schema, err := os.ReadFile("../../migrations/001_init.sql")
	require.NoError(t, err)

	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	return db
}

func sampleRepo(userID, repoName string) *models.TrackedRepository {
	repo := models.NewTrackedRepository(userID, repoName)
	repo.Stars = 2000
	repo.PyFilesEstimate = 24
	license := "MIT"
	repo.License = &license
	percentage := "80.0%"
	repo.PythonPercentage = &percentage
	url := "https://github.com/" + repoName
	repo.URL = &url
	repo.PassesCriteria = true
	return repo
}

func TestTrackedRepositoryCreateAndGet(t *testing.T) {
	repo := NewTrackedRepositoryRepository(setupTestDB(t))

	t.Run("Round trip", func(t *testing.T) {
		created := sampleRepo("alice", "octo/tools")
		require.NoError(t, repo.Create(created))

		found, err := repo.GetByName("alice", "octo/tools")
		require.NoError(t, err)

		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "octo/tools", found.RepoName)
		assert.Equal(t, 2000, found.Stars)
		assert.Equal(t, "MIT", *found.License)
		assert.Equal(t, 1, found.ShowCount)
		assert.True(t, found.PassesCriteria)
		assert.Nil(t, found.AnalysisScore)
	})

	t.Run("Missing repository", func(t *testing.T) {
		_, err := repo.GetByName("alice", "octo/nope")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("Same name under another user", func(t *testing.T) {
		require.NoError(t, repo.Create(sampleRepo("bob", "octo/tools")))

		_, err := repo.GetByName("bob", "octo/tools")
		assert.NoError(t, err)
	})

	t.Run("Duplicate identity rejected", func(t *testing.T) {
		err := repo.Create(sampleRepo("alice", "octo/tools"))
		assert.Error(t, err)
	})
}

func TestTrackedRepositoryReobservation(t *testing.T) {
	repo := NewTrackedRepositoryRepository(setupTestDB(t))

	created := sampleRepo("alice", "octo/tools")
	require.NoError(t, repo.Create(created))

	t.Run("Show count increments", func(t *testing.T) {
		updated := sampleRepo("alice", "octo/tools")
		updated.Stars = 2100
		require.NoError(t, repo.UpdateOnReobservation(updated))

		found, err := repo.GetByName("alice", "octo/tools")
		require.NoError(t, err)
		assert.Equal(t, 2, found.ShowCount)
		assert.Equal(t, 2100, found.Stars)
		assert.Nil(t, found.AnalysisScore)
	})

	t.Run("Nil score does not erase an existing score", func(t *testing.T) {
		require.NoError(t, repo.UpdateAnalysisScore("alice", "octo/tools", 4.2, true))

		updated := sampleRepo("alice", "octo/tools")
		require.NoError(t, repo.UpdateOnReobservation(updated))

		found, err := repo.GetByName("alice", "octo/tools")
		require.NoError(t, err)
		require.NotNil(t, found.AnalysisScore)
		assert.InDelta(t, 4.2, *found.AnalysisScore, 0.001)
	})

	t.Run("New score overwrites", func(t *testing.T) {
		updated := sampleRepo("alice", "octo/tools")
		score := 4.8
		updated.AnalysisScore = &score
		require.NoError(t, repo.UpdateOnReobservation(updated))

		found, err := repo.GetByName("alice", "octo/tools")
		require.NoError(t, err)
		require.NotNil(t, found.AnalysisScore)
		assert.InDelta(t, 4.8, *found.AnalysisScore, 0.001)
	})
}

func TestTrackedRepositoryFreshnessQueries(t *testing.T) {
	repo := NewTrackedRepositoryRepository(setupTestDB(t))

	recent := sampleRepo("alice", "octo/recent")
	require.NoError(t, repo.Create(recent))

	old := sampleRepo("alice", "octo/old")
	old.FirstShown = time.Now().UTC().AddDate(0, 0, -30)
	old.LastShown = old.FirstShown
	require.NoError(t, repo.Create(old))

	otherUser := sampleRepo("bob", "octo/recent")
	require.NoError(t, repo.Create(otherUser))

	t.Run("ListShownSince honors the cutoff", func(t *testing.T) {
		names, err := repo.ListShownSince("alice", time.Now().UTC().AddDate(0, 0, -7))
		require.NoError(t, err)
		assert.Equal(t, []string{"octo/recent"}, names)
	})

	t.Run("ListShownSince is scoped per user", func(t *testing.T) {
		names, err := repo.ListShownSince("bob", time.Now().UTC().AddDate(0, 0, -7))
		require.NoError(t, err)
		assert.Len(t, names, 1)
	})

	t.Run("CountShownSince matches", func(t *testing.T) {
		n, err := repo.CountShownSince("alice", time.Now().UTC().AddDate(0, 0, -7))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})
}

func TestTrackedRepositoryStatsQueries(t *testing.T) {
	repo := NewTrackedRepositoryRepository(setupTestDB(t))

	passing := sampleRepo("alice", "octo/passing")
	require.NoError(t, repo.Create(passing))
	require.NoError(t, repo.UpdateAnalysisScore("alice", "octo/passing", 4.0, true))

	failing := sampleRepo("alice", "octo/failing")
	failing.PassesCriteria = false
	require.NoError(t, repo.Create(failing))
	require.NoError(t, repo.UpdateAnalysisScore("alice", "octo/failing", 2.0, false))

	unanalyzed := sampleRepo("alice", "octo/unanalyzed")
	require.NoError(t, repo.Create(unanalyzed))

	t.Run("Counts", func(t *testing.T) {
		total, err := repo.CountAll("alice")
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		passingCount, err := repo.CountPassing("alice")
		require.NoError(t, err)
		assert.Equal(t, 2, passingCount)
	})

	t.Run("Average ignores unanalyzed rows", func(t *testing.T) {
		avg, err := repo.AverageAnalysisScore("alice")
		require.NoError(t, err)
		assert.InDelta(t, 3.0, avg, 0.001)
	})

	t.Run("Average is zero for an empty user", func(t *testing.T) {
		avg, err := repo.AverageAnalysisScore("nobody")
		require.NoError(t, err)
		assert.Zero(t, avg)
	})

	t.Run("TopAnalyzed orders by score", func(t *testing.T) {
		top, err := repo.TopAnalyzed("alice", 5)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "octo/passing", top[0].RepoName)
		assert.Equal(t, "octo/failing", top[1].RepoName)
	})

	t.Run("ListAll returns every row", func(t *testing.T) {
		all, err := repo.ListAll("alice")
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestTrackedRepositoryDeletion(t *testing.T) {
	repo := NewTrackedRepositoryRepository(setupTestDB(t))

	staleUnanalyzed := sampleRepo("alice", "octo/stale")
	staleUnanalyzed.LastShown = time.Now().UTC().AddDate(0, 0, -120)
	require.NoError(t, repo.Create(staleUnanalyzed))

	staleAnalyzed := sampleRepo("alice", "octo/stale-analyzed")
	staleAnalyzed.LastShown = time.Now().UTC().AddDate(0, 0, -120)
	score := 4.5
	staleAnalyzed.AnalysisScore = &score
	require.NoError(t, repo.Create(staleAnalyzed))

	fresh := sampleRepo("alice", "octo/fresh")
	require.NoError(t, repo.Create(fresh))

	t.Run("Stale cleanup keeps analyzed rows", func(t *testing.T) {
		deleted, err := repo.DeleteStaleBefore("alice", time.Now().UTC().AddDate(0, 0, -90))
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		_, err = repo.GetByName("alice", "octo/stale")
		assert.ErrorIs(t, err, sql.ErrNoRows)

		_, err = repo.GetByName("alice", "octo/stale-analyzed")
		assert.NoError(t, err)
	})

	t.Run("Reset drops everything for the user", func(t *testing.T) {
		require.NoError(t, repo.DeleteAllForUser("alice"))

		n, err := repo.CountAll("alice")
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
