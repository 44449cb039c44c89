package ingest

import (
	"bytes"
	"cmp"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"
)

type Parser struct {
	gofeedParser *gofeed.Parser
}

func NewParser() *Parser {
	return &Parser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses feed XML into normalized candidates. Entries without a link or
// GUID are dropped since they cannot be deduplicated.
func (p *Parser) Run(data []byte) ([]Candidate, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	candidates := make([]Candidate, 0, len(feed.Items))
	for _, item := range feed.Items {
		key := cmp.Or(item.Link, item.GUID)
		if key == "" {
			continue
		}

		candidate := Candidate{
			ExternalKey: key,
			Title:       strings.TrimSpace(item.Title),
			Content:     cmp.Or(item.Content, item.Description),
		}

		if item.PublishedParsed != nil {
			candidate.PublishedAt = *item.PublishedParsed
		}

		if item.Categories != nil {
			candidate.Tags = item.Categories
		}

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}
