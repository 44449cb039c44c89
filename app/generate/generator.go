package generate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/llm"
	"github.com/miapress/newsmill/app/scrape"
)

// CompletionClient is the part of the generation collaborator this stage
// depends on.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ContentFetcher acquires raw article pages.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Generator drives unprocessed source items through the generation
// collaborator and persists the resulting records. Items are processed
// independently so one failure never aborts the pass.
type Generator struct {
	itemRepo    database.ItemRepository
	recordRepo  database.RecordRepository
	mediaRepo   database.MediaRepository
	fetcher     ContentFetcher
	extractor   *scrape.Extractor
	completions CompletionClient

	siteTopic    string
	defaultTags  []string
	categoryID   int
	categoryName string
	windowDays   int
	batchSize    int
}

func NewGenerator(itemRepo database.ItemRepository, recordRepo database.RecordRepository,
	mediaRepo database.MediaRepository, fetcher ContentFetcher, extractor *scrape.Extractor,
	completions CompletionClient, siteTopic string, defaultTags []string,
	categoryID int, categoryName string, windowDays int, batchSize int) *Generator {
	return &Generator{
		itemRepo:     itemRepo,
		recordRepo:   recordRepo,
		mediaRepo:    mediaRepo,
		fetcher:      fetcher,
		extractor:    extractor,
		completions:  completions,
		siteTopic:    siteTopic,
		defaultTags:  defaultTags,
		categoryID:   categoryID,
		categoryName: categoryName,
		windowDays:   windowDays,
		batchSize:    batchSize,
	}
}

// Run executes one generation pass over the current candidate set.
func (g *Generator) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -g.windowDays)

	items, err := g.itemRepo.GetCandidates(cutoff, g.batchSize)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		slog.Debug("No candidate items for generation")
		return nil
	}

	for _, item := range items {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		outcome := g.processItem(ctx, item)
		slog.Info("Generation attempt finished",
			"item", item.ExternalKey,
			"source", item.SourceName,
			"outcome", outcome.String())
	}

	return nil
}

// processItem runs one attempt and applies the state transition for its
// outcome. Success retires the item and creates a record; Unavailable and
// OutOfDomain retire it without one; ParseFailure leaves it untouched so the
// next pass retries it while it stays inside the recency window.
func (g *Generator) processItem(ctx context.Context, item database.SourceItem) Outcome {
	outcome, sections, images := g.attempt(ctx, item)

	switch outcome {
	case OutcomeSuccess:
		if err := g.storeRecord(item, sections, images); err != nil {
			slog.Error("Failed to store generated record", "item", item.ExternalKey, "error", err)
			return outcome
		}
		if err := g.itemRepo.UpdateItemStatus(item.ID, database.ItemStatusSucceeded); err != nil {
			slog.Error("Failed to update item status", "item", item.ExternalKey, "error", err)
		}
	case OutcomeUnavailable, OutcomeOutOfDomain:
		if err := g.itemRepo.UpdateItemStatus(item.ID, database.ItemStatusRejected); err != nil {
			slog.Error("Failed to update item status", "item", item.ExternalKey, "error", err)
		}
	case OutcomeParseFailure:
		// Intentionally no status change: a malformed reply is treated as
		// transient and the item remains a candidate within its window.
	}

	return outcome
}

func (g *Generator) attempt(ctx context.Context, item database.SourceItem) (Outcome, *Sections, []scrape.Image) {
	content, images, ok := g.acquireContent(ctx, item)
	if !ok {
		return OutcomeUnavailable, nil, nil
	}

	reply, err := g.completions.Complete(ctx,
		llm.BuildArticleSystemPrompt(g.siteTopic),
		llm.BuildArticlePrompt(item.Title, content, item.Tags))
	if err != nil {
		slog.Warn("Completion call failed", "item", item.ExternalKey, "error", err)
		return OutcomeUnavailable, nil, nil
	}

	if llm.IsOffTopic(reply) {
		return OutcomeOutOfDomain, nil, nil
	}

	sections, err := ParseSections(reply)
	if err != nil {
		slog.Warn("Completion reply did not parse", "item", item.ExternalKey, "error", err)
		return OutcomeParseFailure, nil, nil
	}

	return OutcomeSuccess, sections, images
}

// acquireContent scrapes the item's page for the full article text. An item
// whose page cannot be scraped is unprocessable: feed excerpts are too thin
// to generate from, so the item is retired rather than retried.
func (g *Generator) acquireContent(ctx context.Context, item database.SourceItem) (string, []scrape.Image, bool) {
	data, err := g.fetcher.Fetch(ctx, item.ExternalKey)
	if err != nil {
		slog.Warn("Failed to fetch item page", "item", item.ExternalKey, "error", err)
		return "", nil, false
	}

	article, err := g.extractor.Run(data)
	if err != nil {
		slog.Warn("Failed to extract item page", "item", item.ExternalKey, "error", err)
		return "", nil, false
	}

	return article.Text, article.Images, true
}

func (g *Generator) storeRecord(item database.SourceItem, sections *Sections, images []scrape.Image) error {
	record := database.Record{
		ItemID:         &item.ID,
		Title:          sections.Title,
		Body:           sections.Body,
		Tags:           MergeTags(g.defaultTags, SplitTags(sections.Tags)),
		CategoryID:     g.categoryID,
		CategoryName:   g.categoryName,
		SEOTitle:       sections.SEOTitle,
		SEODescription: sections.MetaDescription,
		SEOKeyphrase:   sections.Keyphrase,
		Slug:           sections.Slug,
		Status:         qualityStatus(sections.Title, sections.Body),
	}

	recordID, err := g.recordRepo.StoreRecord(record)
	if errors.Is(err, database.ErrDuplicateRecord) {
		// A concurrent pass already produced a record for this item
		slog.Warn("Record already exists for item", "item", item.ExternalKey)
		return nil
	}
	if err != nil {
		return err
	}

	// Media is recorded regardless of the quality gate outcome
	for _, image := range images {
		err := g.mediaRepo.StoreAsset(database.MediaAsset{
			RecordID:  recordID,
			SourceURL: image.URL,
			AltText:   image.Alt,
		})
		if err != nil {
			slog.Warn("Failed to store media asset", "record", recordID, "url", image.URL, "error", err)
		}
	}

	return nil
}
