package database

import (
	"time"
)

type ItemRepository interface {
	StoreItem(item SourceItem) (bool, error)
	GetCandidates(cutoff time.Time, limit int) ([]SourceItem, error)
	UpdateItemStatus(itemID string, status string) error
	GetItemStats() (unprocessed, succeeded, rejected int, err error)
}

type ThemeRepository interface {
	StoreTheme(theme Theme) (bool, error)
	GetUnprocessedThemes(limit int) ([]Theme, error)
	GetThemeTitles(categoryID int) ([]string, error)
	UpdateThemeStatus(themeID string, status string) error
}

type RecordRepository interface {
	StoreRecord(record Record) (string, error)
	GetDrafts(categoryID int, limit int) ([]Record, error)
	MarkPublished(recordID string, remoteID int64) error
	GetRecordStats() (rejected, draft, published int, err error)
}

type MediaRepository interface {
	StoreAsset(asset MediaAsset) error
	GetAssetsByRecord(recordID string) ([]MediaAsset, error)
	UpdateRemote(assetID string, remoteID int64, remoteURL string) error
}
