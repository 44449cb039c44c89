package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ItemRepo handles database operations for source items
type ItemRepo struct {
	db *DB
}

// NewItemRepo creates a new source item repository
func NewItemRepo(db *DB) *ItemRepo {
	return &ItemRepo{db: db}
}

// StoreItem inserts a source item, relying on the external_key uniqueness
// constraint for dedup. Returns true if a new row was inserted, false if
// the item was already known.
func (r *ItemRepo) StoreItem(item SourceItem) (bool, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = ItemStatusUnprocessed
	}

	res, err := r.db.Exec(`
		INSERT INTO source_items (id, source_name, external_key, title, content, published_at, tags, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (external_key) DO NOTHING
	`, item.ID, item.SourceName, item.ExternalKey, item.Title, item.Content,
		item.PublishedAt, pq.Array(item.Tags), item.Status)
	if err != nil {
		return false, fmt.Errorf("failed to store source item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read insert result: %w", err)
	}

	return affected > 0, nil
}

// GetCandidates returns items eligible for generation: not rejected, not yet
// backing a record, and published at or after the cutoff, oldest first. The
// NOT EXISTS clause keeps an item out of the candidate set even when a crash
// left its status behind the record insert. Items older than the cutoff are
// never returned, which bounds how long a retryable item stays in the backlog.
func (r *ItemRepo) GetCandidates(cutoff time.Time, limit int) ([]SourceItem, error) {
	var items []SourceItem
	err := r.db.Select(&items, `
		SELECT id, source_name, external_key, COALESCE(title, '') AS title,
		       COALESCE(content, '') AS content, published_at,
		       COALESCE(tags, '{}') AS tags, status, created_at, updated_at
		FROM source_items
		WHERE status != $1
		  AND published_at >= $2
		  AND NOT EXISTS (
		    SELECT 1 FROM records WHERE records.item_id = source_items.id
		  )
		ORDER BY published_at ASC
		LIMIT $3
	`, ItemStatusRejected, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate items: %w", err)
	}

	return items, nil
}

// UpdateItemStatus sets the processing status of a source item
func (r *ItemRepo) UpdateItemStatus(itemID string, status string) error {
	_, err := r.db.Exec(`
		UPDATE source_items
		SET status = $2, updated_at = NOW()
		WHERE id = $1
	`, itemID, status)
	if err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}

	return nil
}

// GetItemStats returns per-status counts of source items
func (r *ItemRepo) GetItemStats() (unprocessed, succeeded, rejected int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM source_items
	`, ItemStatusUnprocessed, ItemStatusSucceeded, ItemStatusRejected).
		Scan(&unprocessed, &succeeded, &rejected)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get item stats: %w", err)
	}

	return unprocessed, succeeded, rejected, nil
}
