package repositories

import (
	"database/sql"
	"time"

	"github.com/reposcout/reposcout/internal/models"
)

type SearchEventRepository struct {
	db *sql.DB
}

func NewSearchEventRepository(db *sql.DB) *SearchEventRepository {
	return &SearchEventRepository{db: db}
}

// Create appends a new search event
func (r *SearchEventRepository) Create(event *models.SearchEvent) error {
	query := `
		INSERT INTO search_events (
			id, user_id, search_timestamp, min_stars, max_stars, limit_requested,
			repos_found, new_repos_shown, search_criteria, search_offset
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		event.ID, event.UserID, event.SearchTimestamp, event.MinStars,
		event.MaxStars, event.LimitRequested, event.ReposFound,
		event.NewReposShown, event.SearchCriteria, event.SearchOffset,
	)

	return err
}

// MaxOffsetSince returns the highest pagination offset recorded for the exact
// star range after the cutoff, 0 when no matching event exists.
func (r *SearchEventRepository) MaxOffsetSince(userID string, minStars, maxStars int, cutoff time.Time) (int, error) {
	query := `
		SELECT COALESCE(MAX(search_offset), 0) FROM search_events
		WHERE user_id = ? AND min_stars = ? AND max_stars = ?
		AND search_timestamp > ?
	`

	var offset int
	if err := r.db.QueryRow(query, userID, minStars, maxStars, cutoff).Scan(&offset); err != nil {
		return 0, err
	}
	return offset, nil
}

// CountForUser counts all search events recorded for a user
func (r *SearchEventRepository) CountForUser(userID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM search_events WHERE user_id = ?`, userID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteBefore removes search events recorded before the cutoff
func (r *SearchEventRepository) DeleteBefore(userID string, cutoff time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM search_events WHERE user_id = ? AND search_timestamp < ?`, userID, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteAllForUser drops the user's entire search history
func (r *SearchEventRepository) DeleteAllForUser(userID string) error {
	_, err := r.db.Exec(`DELETE FROM search_events WHERE user_id = ?`, userID)
	return err
}
