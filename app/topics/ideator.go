package topics

import (
	"context"
	"log/slog"

	"github.com/miapress/newsmill/app/database"
	"github.com/miapress/newsmill/app/llm"
	"github.com/miapress/newsmill/app/sources"
)

// CompletionClient is the part of the generation collaborator ideation uses.
type CompletionClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// KeywordSource provides search phrase suggestions for a term.
type KeywordSource interface {
	Suggest(ctx context.Context, term string) ([]string, error)
}

// Ideator asks the generation collaborator for new article topics per
// category and stores them as themes. Existing theme titles are fed back
// into the prompt so categories do not accumulate duplicates; the database
// uniqueness constraint catches whatever the prompt misses.
type Ideator struct {
	themeRepo   database.ThemeRepository
	keywords    KeywordSource
	completions CompletionClient
	siteTopic   string
}

func NewIdeator(themeRepo database.ThemeRepository, keywords KeywordSource,
	completions CompletionClient, siteTopic string) *Ideator {
	return &Ideator{
		themeRepo:   themeRepo,
		keywords:    keywords,
		completions: completions,
		siteTopic:   siteTopic,
	}
}

// Run executes one ideation pass over the given categories. Categories are
// processed independently so one failure never aborts the pass.
func (i *Ideator) Run(ctx context.Context, categories []sources.Category) error {
	if len(categories) == 0 {
		slog.Debug("No categories configured for ideation")
		return nil
	}

	for _, category := range categories {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := i.processCategory(ctx, category); err != nil {
			slog.Error("Ideation failed for category", "category", category.Name, "error", err)
		}
	}

	return nil
}

func (i *Ideator) processCategory(ctx context.Context, category sources.Category) error {
	existing, err := i.themeRepo.GetThemeTitles(category.ID)
	if err != nil {
		return err
	}

	keywords, err := i.keywords.Suggest(ctx, category.Name+" "+i.siteTopic)
	if err != nil {
		slog.Warn("Keyword suggestions unavailable", "category", category.Name, "error", err)
		keywords = nil
	}

	reply, err := i.completions.Complete(ctx,
		llm.BuildIdeasSystemPrompt(i.siteTopic),
		llm.BuildIdeasPrompt(category.Name, category.Hint, category.Ideas, existing, keywords))
	if err != nil {
		return err
	}

	ideas := ParseIdeas(reply)
	if len(ideas) == 0 {
		slog.Warn("Ideation reply contained no ideas", "category", category.Name)
		return nil
	}

	newCount := 0
	for _, idea := range ideas {
		inserted, err := i.themeRepo.StoreTheme(database.Theme{
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Title:        idea.Title,
			Description:  idea.Description,
			Keywords:     keywords,
		})
		if err != nil {
			slog.Error("Failed to store theme", "category", category.Name, "theme", idea.Title, "error", err)
			continue
		}
		if inserted {
			newCount++
		}
	}

	slog.Info("Ideation pass finished",
		"category", category.Name,
		"proposed", len(ideas),
		"new", newCount)

	return nil
}
