package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ThemeRepo handles database operations for topic themes
type ThemeRepo struct {
	db *DB
}

// NewThemeRepo creates a new theme repository
func NewThemeRepo(db *DB) *ThemeRepo {
	return &ThemeRepo{db: db}
}

// StoreTheme inserts a theme, relying on the (category_id, title) uniqueness
// constraint for dedup. Returns true if a new row was inserted.
func (r *ThemeRepo) StoreTheme(theme Theme) (bool, error) {
	if theme.ID == "" {
		theme.ID = uuid.New().String()
	}
	if theme.Status == "" {
		theme.Status = ThemeStatusUnprocessed
	}

	res, err := r.db.Exec(`
		INSERT INTO themes (id, category_id, category_name, title, description, keywords, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (category_id, title) DO NOTHING
	`, theme.ID, theme.CategoryID, theme.CategoryName, theme.Title,
		theme.Description, pq.Array(theme.Keywords), theme.Status)
	if err != nil {
		return false, fmt.Errorf("failed to store theme: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

// GetUnprocessedThemes returns themes that have no generated record yet. The
// NOT EXISTS clause keeps a theme out of the set even when a crash left its
// status behind the record insert.
func (r *ThemeRepo) GetUnprocessedThemes(limit int) ([]Theme, error) {
	var themes []Theme
	err := r.db.Select(&themes, `
		SELECT id, category_id, category_name, title, COALESCE(description, '') AS description,
		       COALESCE(keywords, '{}') AS keywords, status, created_at, updated_at
		FROM themes
		WHERE status = $1
		  AND NOT EXISTS (
		    SELECT 1 FROM records WHERE records.theme_id = themes.id
		  )
		ORDER BY created_at ASC
		LIMIT $2
	`, ThemeStatusUnprocessed, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unprocessed themes: %w", err)
	}

	return themes, nil
}

// GetThemeTitles returns all theme titles within a category, used to steer
// ideation away from topics already covered
func (r *ThemeRepo) GetThemeTitles(categoryID int) ([]string, error) {
	var titles []string
	err := r.db.Select(&titles, `
		SELECT title FROM themes
		WHERE category_id = $1
		ORDER BY created_at DESC
	`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get theme titles: %w", err)
	}

	return titles, nil
}

// UpdateThemeStatus sets the processing status of a theme
func (r *ThemeRepo) UpdateThemeStatus(themeID string, status string) error {
	_, err := r.db.Exec(`
		UPDATE themes
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, themeID, status)
	if err != nil {
		return fmt.Errorf("failed to update theme status: %w", err)
	}

	return nil
}
