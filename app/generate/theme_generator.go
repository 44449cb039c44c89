package generate

import (
	"context"
	"errors"
	"log/slog"

	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/llm"
)

// ThemeGenerator produces articles for themes that have none yet. Unlike
// source items, themes have no recency window, so an unparsable reply
// retires the theme instead of leaving it to retry forever.
type ThemeGenerator struct {
	themeRepo   database.ThemeRepository
	recordRepo  database.RecordRepository
	completions CompletionClient

	siteTopic   string
	defaultTags []string
	batchSize   int
}

func NewThemeGenerator(themeRepo database.ThemeRepository, recordRepo database.RecordRepository,
	completions CompletionClient, siteTopic string, defaultTags []string, batchSize int) *ThemeGenerator {
	return &ThemeGenerator{
		themeRepo:   themeRepo,
		recordRepo:  recordRepo,
		completions: completions,
		siteTopic:   siteTopic,
		defaultTags: defaultTags,
		batchSize:   batchSize,
	}
}

// Run executes one generation pass over unprocessed themes.
func (g *ThemeGenerator) Run(ctx context.Context) error {
	themes, err := g.themeRepo.GetUnprocessedThemes(g.batchSize)
	if err != nil {
		return err
	}

	if len(themes) == 0 {
		slog.Debug("No unprocessed themes for generation")
		return nil
	}

	for _, theme := range themes {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		outcome := g.processTheme(ctx, theme)
		slog.Info("Theme generation attempt finished",
			"theme", theme.Title,
			"category", theme.CategoryName,
			"outcome", outcome.String())
	}

	return nil
}

func (g *ThemeGenerator) processTheme(ctx context.Context, theme database.Theme) Outcome {
	reply, err := g.completions.Complete(ctx,
		llm.BuildArticleSystemPrompt(g.siteTopic),
		llm.BuildThemeArticlePrompt(theme.Title, theme.Description, theme.Keywords))
	if err != nil {
		slog.Warn("Completion call failed", "theme", theme.Title, "error", err)
		// Transport failures are retried on the next pass
		return OutcomeUnavailable
	}

	if llm.IsOffTopic(reply) {
		g.updateStatus(theme, database.ThemeStatusRejected)
		return OutcomeOutOfDomain
	}

	sections, err := ParseSections(reply)
	if err != nil {
		slog.Warn("Completion reply did not parse", "theme", theme.Title, "error", err)
		g.updateStatus(theme, database.ThemeStatusRejected)
		return OutcomeParseFailure
	}

	record := database.Record{
		ThemeID:        &theme.ID,
		Title:          sections.Title,
		Body:           sections.Body,
		Tags:           MergeTags(g.defaultTags, SplitTags(sections.Tags)),
		CategoryID:     theme.CategoryID,
		CategoryName:   theme.CategoryName,
		SEOTitle:       sections.SEOTitle,
		SEODescription: sections.MetaDescription,
		SEOKeyphrase:   sections.Keyphrase,
		Slug:           sections.Slug,
		Status:         qualityStatus(sections.Title, sections.Body),
	}

	_, err = g.recordRepo.StoreRecord(record)
	if errors.Is(err, database.ErrDuplicateRecord) {
		// A concurrent pass already produced a record for this theme
		slog.Warn("Record already exists for theme", "theme", theme.Title)
		g.updateStatus(theme, database.ThemeStatusSucceeded)
		return OutcomeSuccess
	}
	if err != nil {
		slog.Error("Failed to store generated record", "theme", theme.Title, "error", err)
		return OutcomeUnavailable
	}

	g.updateStatus(theme, database.ThemeStatusSucceeded)

	return OutcomeSuccess
}

func (g *ThemeGenerator) updateStatus(theme database.Theme, status string) {
	if err := g.themeRepo.UpdateThemeStatus(theme.ID, status); err != nil {
		slog.Error("Failed to update theme status", "theme", theme.Title, "error", err)
	}
}
