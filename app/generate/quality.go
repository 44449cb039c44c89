package generate

import (
	"unicode/utf8"

	"github.com/miapress/newsmill/app/database"
)

const (
	minTitleLength = 20
	minBodyLength  = 50
)

// qualityStatus applies the quality gate: records with a short title or body
// are kept but never published.
func qualityStatus(title, body string) string {
	if utf8.RuneCountInString(title) < minTitleLength || utf8.RuneCountInString(body) < minBodyLength {
		return database.RecordStatusRejectedQuality
	}
	return database.RecordStatusDraft
}
