package database

import (
	"fmt"

	"github.com/google/uuid"
)

// MediaRepo handles database operations for record media assets
type MediaRepo struct {
	db *DB
}

// NewMediaRepo creates a new media asset repository
func NewMediaRepo(db *DB) *MediaRepo {
	return &MediaRepo{db: db}
}

// StoreAsset inserts a media asset, deduplicated per record by source URL
func (r *MediaRepo) StoreAsset(asset MediaAsset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}

	_, err := r.db.Exec(`
		INSERT INTO media_assets (id, record_id, source_url, alt_text)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (record_id, source_url) DO NOTHING
	`, asset.ID, asset.RecordID, asset.SourceURL, asset.AltText)
	if err != nil {
		return fmt.Errorf("failed to store media asset: %w", err)
	}

	return nil
}

// GetAssetsByRecord returns all media assets referenced by a record
func (r *MediaRepo) GetAssetsByRecord(recordID string) ([]MediaAsset, error) {
	var assets []MediaAsset
	err := r.db.Select(&assets, `
		SELECT id, record_id, source_url, COALESCE(alt_text, '') AS alt_text,
		       remote_id, remote_url, created_at
		FROM media_assets
		WHERE record_id = $1
		ORDER BY created_at ASC
	`, recordID)
	if err != nil {
		return nil, fmt.Errorf("failed to get media assets: %w", err)
	}

	return assets, nil
}

// UpdateRemote records the CMS attachment ID and URL for an uploaded asset
func (r *MediaRepo) UpdateRemote(assetID string, remoteID int64, remoteURL string) error {
	_, err := r.db.Exec(`
		UPDATE media_assets
		SET remote_id = $2, remote_url = $3
		WHERE id = $1
	`, assetID, remoteID, remoteURL)
	if err != nil {
		return fmt.Errorf("failed to update media asset: %w", err)
	}

	return nil
}
