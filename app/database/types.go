package database

import (
	"time"

	"github.com/lib/pq"
)

// Source item processing states.
const (
	ItemStatusUnprocessed = "unprocessed"
	ItemStatusSucceeded   = "succeeded"
	ItemStatusRejected    = "rejected"
)

// Theme processing states.
const (
	ThemeStatusUnprocessed = "unprocessed"
	ThemeStatusSucceeded   = "succeeded"
	ThemeStatusRejected    = "rejected"
)

// Record publication states.
const (
	RecordStatusRejectedQuality = "rejected_quality"
	RecordStatusDraft           = "draft"
	RecordStatusPublished       = "published"
)

// SourceItem is a news candidate pulled from an upstream feed.
// ExternalKey is the dedup key, typically the item's canonical URL.
type SourceItem struct {
	ID          string         `db:"id"`
	SourceName  string         `db:"source_name"`
	ExternalKey string         `db:"external_key"`
	Title       string         `db:"title"`
	Content     string         `db:"content"`
	PublishedAt time.Time      `db:"published_at"`
	Tags        pq.StringArray `db:"tags"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// Theme is an editor-free topic idea produced by the ideation stage.
// Themes are unique per (category_id, title).
type Theme struct {
	ID           string         `db:"id"`
	CategoryID   int            `db:"category_id"`
	CategoryName string         `db:"category_name"`
	Title        string         `db:"title"`
	Description  string         `db:"description"`
	Keywords     pq.StringArray `db:"keywords"`
	Status       string         `db:"status"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

// Record is a generated article. Exactly one of ItemID or ThemeID is set,
// depending on which stage produced it. RemoteID is the CMS post ID once
// the record has been published.
type Record struct {
	ID             string         `db:"id"`
	ItemID         *string        `db:"item_id"`
	ThemeID        *string        `db:"theme_id"`
	Title          string         `db:"title"`
	Body           string         `db:"body"`
	Tags           pq.StringArray `db:"tags"`
	CategoryID     int            `db:"category_id"`
	CategoryName   string         `db:"category_name"`
	SEOTitle       string         `db:"seo_title"`
	SEODescription string         `db:"seo_description"`
	SEOKeyphrase   string         `db:"seo_keyphrase"`
	Slug           string         `db:"slug"`
	Status         string         `db:"status"`
	RemoteID       *int64         `db:"remote_id"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// MediaAsset is an image referenced by a record's body. RemoteID and
// RemoteURL are filled once the asset has been uploaded to the CMS.
type MediaAsset struct {
	ID        string    `db:"id"`
	RecordID  string    `db:"record_id"`
	SourceURL string    `db:"source_url"`
	AltText   string    `db:"alt_text"`
	RemoteID  *int64    `db:"remote_id"`
	RemoteURL *string   `db:"remote_url"`
	CreatedAt time.Time `db:"created_at"`
}
