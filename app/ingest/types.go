package ingest

import (
	"time"
)

// Candidate is a normalized feed entry before it is stored as a source item.
type Candidate struct {
	ExternalKey string // canonical item URL, used as the dedup key
	Title       string
	Content     string
	PublishedAt time.Time
	Tags        []string
}
