package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ErrDuplicateRecord is returned when a record already exists for the same
// source item or theme. Concurrent generation passes use it to treat the
// insert as already done.
var ErrDuplicateRecord = errors.New("a record already exists for this item or theme")

// RecordRepo handles database operations for generated records
type RecordRepo struct {
	db *DB
}

// NewRecordRepo creates a new record repository
func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// StoreRecord inserts a generated record and returns its ID. The unique
// indexes on item_id and theme_id guarantee at most one record per origin;
// an insert that collides with an existing record returns ErrDuplicateRecord.
func (r *RecordRepo) StoreRecord(record Record) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}

	res, err := r.db.Exec(`
		INSERT INTO records (
			id, item_id, theme_id, title, body, tags,
			category_id, category_name,
			seo_title, seo_description, seo_keyphrase, slug, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
	`, record.ID, record.ItemID, record.ThemeID, record.Title, record.Body,
		pq.Array(record.Tags), record.CategoryID, record.CategoryName,
		record.SEOTitle, record.SEODescription, record.SEOKeyphrase,
		record.Slug, record.Status)
	if err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected == 0 {
		return "", ErrDuplicateRecord
	}

	return record.ID, nil
}

// GetDrafts returns draft records in a category that have not been pushed to
// the CMS yet. Records with a remote ID are excluded so a publishing pass
// can never create the same remote post twice.
func (r *RecordRepo) GetDrafts(categoryID int, limit int) ([]Record, error) {
	var records []Record
	err := r.db.Select(&records, `
		SELECT id, item_id, theme_id, COALESCE(title, '') AS title,
		       COALESCE(body, '') AS body, COALESCE(tags, '{}') AS tags,
		       category_id, COALESCE(category_name, '') AS category_name,
		       COALESCE(seo_title, '') AS seo_title,
		       COALESCE(seo_description, '') AS seo_description,
		       COALESCE(seo_keyphrase, '') AS seo_keyphrase,
		       COALESCE(slug, '') AS slug,
		       status, remote_id, created_at, updated_at
		FROM records
		WHERE status = $1
		  AND category_id = $2
		  AND remote_id IS NULL
		ORDER BY created_at ASC
		LIMIT $3
	`, RecordStatusDraft, categoryID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get draft records: %w", err)
	}

	return records, nil
}

// MarkPublished records the CMS post ID and flips the record to published
func (r *RecordRepo) MarkPublished(recordID string, remoteID int64) error {
	_, err := r.db.Exec(`
		UPDATE records
		SET status = $2, remote_id = $3, updated_at = NOW()
		WHERE id = $1
	`, recordID, RecordStatusPublished, remoteID)
	if err != nil {
		return fmt.Errorf("failed to mark record published: %w", err)
	}

	return nil
}

// GetRecordStats returns per-status counts of records
func (r *RecordRepo) GetRecordStats() (rejected, draft, published int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM records
	`, RecordStatusRejectedQuality, RecordStatusDraft, RecordStatusPublished).
		Scan(&rejected, &draft, &published)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get record stats: %w", err)
	}

	return rejected, draft, published, nil
}
