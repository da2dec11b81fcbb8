package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcout/reposcout/internal/models"
)

type TrackedRepositoryRepository struct {
	db *sql.DB
}

func NewTrackedRepositoryRepository(db *sql.DB) *TrackedRepositoryRepository {
	return &TrackedRepositoryRepository{db: db}
}

const trackedRepositoryColumns = `
	id, user_id, repo_name, stars, license, py_files_estimate, python_percentage,
	url, description, first_shown, last_shown, show_count, search_criteria,
	passes_criteria, analysis_score
`

// Create inserts a new tracked repository
func (r *TrackedRepositoryRepository) Create(repo *models.TrackedRepository) error {
	query := `
		INSERT INTO tracked_repositories (` + trackedRepositoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		repo.ID, repo.UserID, repo.RepoName, repo.Stars, repo.License,
		repo.PyFilesEstimate, repo.PythonPercentage, repo.URL, repo.Description,
		repo.FirstShown, repo.LastShown, repo.ShowCount, repo.SearchCriteria,
		repo.PassesCriteria, repo.AnalysisScore,
	)

	return err
}

// GetByName retrieves a tracked repository by its (user, name) identity
func (r *TrackedRepositoryRepository) GetByName(userID, repoName string) (*models.TrackedRepository, error) {
	query := `
		SELECT ` + trackedRepositoryColumns + `
		FROM tracked_repositories WHERE user_id = ? AND repo_name = ?
	`

	repo := &models.TrackedRepository{}
	err := r.db.QueryRow(query, userID, repoName).Scan(
		&repo.ID, &repo.UserID, &repo.RepoName, &repo.Stars, &repo.License,
		&repo.PyFilesEstimate, &repo.PythonPercentage, &repo.URL, &repo.Description,
		&repo.FirstShown, &repo.LastShown, &repo.ShowCount, &repo.SearchCriteria,
		&repo.PassesCriteria, &repo.AnalysisScore,
	)

	if err != nil {
		return nil, err
	}

	return repo, nil
}

// UpdateOnReobservation refreshes a previously shown repository: bumps
// show_count, moves last_shown forward and overwrites the volatile fields.
func (r *TrackedRepositoryRepository) UpdateOnReobservation(repo *models.TrackedRepository) error {
	query := `
		UPDATE tracked_repositories SET
			last_shown = ?, show_count = show_count + 1, stars = ?, license = ?,
			py_files_estimate = ?, python_percentage = ?, description = ?,
			analysis_score = COALESCE(?, analysis_score)
		WHERE user_id = ? AND repo_name = ?
	`

	_, err := r.db.Exec(query,
		time.Now().UTC(), repo.Stars, repo.License, repo.PyFilesEstimate,
		repo.PythonPercentage, repo.Description, repo.AnalysisScore,
		repo.UserID, repo.RepoName,
	)

	return err
}

// UpdateAnalysisScore sets the analysis score (and optionally the criteria
// flag) for a repository, refreshing last_shown.
func (r *TrackedRepositoryRepository) UpdateAnalysisScore(userID, repoName string, score float64, passesCriteria bool) error {
	query := `
		UPDATE tracked_repositories SET
			analysis_score = ?, passes_criteria = ?, last_shown = ?
		WHERE user_id = ? AND repo_name = ?
	`

	_, err := r.db.Exec(query, score, passesCriteria, time.Now().UTC(), userID, repoName)
	return err
}

// ListShownSince returns the names of repositories shown to the user after
// the cutoff, most recent first.
func (r *TrackedRepositoryRepository) ListShownSince(userID string, cutoff time.Time) ([]string, error) {
	query := `
		SELECT repo_name FROM tracked_repositories
		WHERE user_id = ? AND last_shown > ?
		ORDER BY last_shown DESC
	`

	rows, err := r.db.Query(query, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// ListAll retrieves every tracked repository for a user, most recent first
func (r *TrackedRepositoryRepository) ListAll(userID string) ([]*models.TrackedRepository, error) {
	query := `
		SELECT ` + trackedRepositoryColumns + `
		FROM tracked_repositories WHERE user_id = ? ORDER BY last_shown DESC
	`

	return r.list(query, userID)
}

// TopAnalyzed retrieves the highest scored analyzed repositories
func (r *TrackedRepositoryRepository) TopAnalyzed(userID string, limit int) ([]*models.TrackedRepository, error) {
	query := `
		SELECT ` + trackedRepositoryColumns + `
		FROM tracked_repositories
		WHERE user_id = ? AND analysis_score IS NOT NULL
		ORDER BY analysis_score DESC, stars DESC
		LIMIT ?
	`

	return r.list(query, userID, limit)
}

func (r *TrackedRepositoryRepository) list(query string, args ...interface{}) ([]*models.TrackedRepository, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var repos []*models.TrackedRepository
	for rows.Next() {
		repo := &models.TrackedRepository{}
		err := rows.Scan(
			&repo.ID, &repo.UserID, &repo.RepoName, &repo.Stars, &repo.License,
			&repo.PyFilesEstimate, &repo.PythonPercentage, &repo.URL, &repo.Description,
			&repo.FirstShown, &repo.LastShown, &repo.ShowCount, &repo.SearchCriteria,
			&repo.PassesCriteria, &repo.AnalysisScore,
		)
		if err != nil {
			return nil, err
		}
		repos = append(repos, repo)
	}

	return repos, rows.Err()
}

// CountAll counts the repositories tracked for a user
func (r *TrackedRepositoryRepository) CountAll(userID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM tracked_repositories WHERE user_id = ?`, userID)
}

// CountPassing counts tracked repositories that pass the selection criteria
func (r *TrackedRepositoryRepository) CountPassing(userID string) (int, error) {
	return r.count(`SELECT COUNT(*) FROM tracked_repositories WHERE user_id = ? AND passes_criteria = 1`, userID)
}

// CountShownSince counts repositories shown to the user after the cutoff
func (r *TrackedRepositoryRepository) CountShownSince(userID string, cutoff time.Time) (int, error) {
	return r.count(`SELECT COUNT(*) FROM tracked_repositories WHERE user_id = ? AND last_shown > ?`, userID, cutoff)
}

func (r *TrackedRepositoryRepository) count(query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.QueryRow(query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// AverageAnalysisScore returns the mean analysis score over analyzed
// repositories, 0 when none exist.
func (r *TrackedRepositoryRepository) AverageAnalysisScore(userID string) (float64, error) {
	query := `
		SELECT COALESCE(AVG(analysis_score), 0) FROM tracked_repositories
		WHERE user_id = ? AND analysis_score IS NOT NULL
	`

	var avg float64
	if err := r.db.QueryRow(query, userID).Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}

// DeleteStaleBefore removes repositories last shown before the cutoff,
// keeping every analyzed repository regardless of age.
func (r *TrackedRepositoryRepository) DeleteStaleBefore(userID string, cutoff time.Time) (int64, error) {
	query := `
		DELETE FROM tracked_repositories
		WHERE user_id = ? AND last_shown < ? AND analysis_score IS NULL
	`

	result, err := r.db.Exec(query, userID, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteAllForUser drops the user's entire tracked-repository history
func (r *TrackedRepositoryRepository) DeleteAllForUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM tracked_repositories WHERE user_id = ?`, userID)
	return err
}
