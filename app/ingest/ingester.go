package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/sources"
)

// Ingester pulls candidates from one upstream feed and stores them as
// unprocessed source items. Dedup happens in the database via the
// external_key uniqueness constraint, so re-running a pass is idempotent.
type Ingester struct {
	itemRepo   database.ItemRepository
	parser     *Parser
	httpClient *http.Client
	userAgent  string
	windowDays int
}

func NewIngester(itemRepo database.ItemRepository, parser *Parser, httpClient *http.Client,
	userAgent string, windowDays int) *Ingester {
	return &Ingester{
		itemRepo:   itemRepo,
		parser:     parser,
		httpClient: httpClient,
		userAgent:  userAgent,
		windowDays: windowDays,
	}
}

// Run ingests a single source. Returns how many items were new and how many
// were already known.
func (i *Ingester) Run(ctx context.Context, config *sources.Config) (newCount, knownCount int, err error) {
	if !config.Settings.Enabled {
		slog.Debug("Source disabled, skipping", "source", config.Name)
		return 0, 0, nil
	}

	data, err := i.fetchSource(ctx, config)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch source: %w", err)
	}

	candidates, err := i.parser.Run(data)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse source: %w", err)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -i.windowDays)

	staleCount := 0
	undatedCount := 0
	for _, candidate := range candidates {
		// Only inserts count toward the cap so a feed whose head is
		// already known cannot starve the entries behind it
		if newCount >= config.Settings.MaxItems {
			break
		}
		if candidate.PublishedAt.IsZero() {
			undatedCount++
			slog.Debug("Skipping entry without a publication date",
				"source", config.Name, "key", candidate.ExternalKey)
			continue
		}
		if candidate.PublishedAt.Before(cutoff) {
			staleCount++
			continue
		}

		inserted, err := i.itemRepo.StoreItem(database.SourceItem{
			SourceName:  config.Name,
			ExternalKey: candidate.ExternalKey,
			Title:       candidate.Title,
			Content:     candidate.Content,
			PublishedAt: candidate.PublishedAt,
			Tags:        candidate.Tags,
		})
		if err != nil {
			return newCount, knownCount, fmt.Errorf("failed to store item: %w", err)
		}

		if inserted {
			newCount++
		} else {
			knownCount++
		}
	}

	slog.Info("Source ingested",
		"source", config.Name,
		"total", len(candidates),
		"new", newCount,
		"known", knownCount,
		"stale", staleCount,
		"undated", undatedCount)

	return newCount, knownCount, nil
}

func (i *Ingester) fetchSource(ctx context.Context, config *sources.Config) ([]byte, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, time.Duration(config.Settings.Timeout)*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", config.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", i.userAgent)

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
