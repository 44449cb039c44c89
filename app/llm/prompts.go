package llm

import (
	"fmt"
	"strings"
)

// BuildArticleSystemPrompt returns the system prompt for rewriting a scraped
// news item into an original article.
func BuildArticleSystemPrompt(siteTopic string) string {
	return fmt.Sprintf("You are an experienced %s journalist writing for an online magazine. "+
		"You rewrite source material into original, engaging articles in clean HTML. "+
		"If the source material is not about %s, respond with exactly %s and nothing else.",
		siteTopic, siteTopic, OffTopicSentinel)
}

// BuildArticlePrompt returns the user prompt for news-driven generation.
// The reply must use the labeled section grammar so it can be parsed back
// into record fields.
func BuildArticlePrompt(title, content string, tags []string) string {
	var b strings.Builder

	b.WriteString("Write an original news article based on the source material below.\n\n")
	b.WriteString(sectionInstructions)
	b.WriteString("\n\nSource title: ")
	b.WriteString(title)
	if len(tags) > 0 {
		b.WriteString("\nSource tags: ")
		b.WriteString(strings.Join(tags, ", "))
	}
	b.WriteString("\n\nSource material:\n")
	b.WriteString(content)

	return b.String()
}

// BuildThemeArticlePrompt returns the user prompt for theme-driven generation.
func BuildThemeArticlePrompt(themeTitle, description string, keywords []string) string {
	var b strings.Builder

	b.WriteString("Write an in-depth article on the following topic.\n\n")
	b.WriteString(sectionInstructions)
	b.WriteString("\n\nTopic: ")
	b.WriteString(themeTitle)
	if description != "" {
		b.WriteString("\nAngle: ")
		b.WriteString(description)
	}
	if len(keywords) > 0 {
		b.WriteString("\nSearch phrases readers use: ")
		b.WriteString(strings.Join(keywords, ", "))
	}

	return b.String()
}

// BuildIdeasSystemPrompt returns the system prompt for topic ideation.
func BuildIdeasSystemPrompt(siteTopic string) string {
	return fmt.Sprintf("You are a content strategist for a %s website. "+
		"You propose article topics that attract organic search traffic.", siteTopic)
}

// BuildIdeasPrompt returns the user prompt asking for new article ideas in a
// category. Existing titles are listed so the model avoids repeating them.
func BuildIdeasPrompt(categoryName, hint string, count int, existingTitles, keywords []string) string {
	var b strings.Builder

	if count <= 0 {
		count = 5
	}
	b.WriteString(fmt.Sprintf("Suggest %d article ideas for the category %q.\n", count, categoryName))
	if hint != "" {
		b.WriteString("Focus: " + hint + "\n")
	}
	b.WriteString("Format each idea as a numbered list entry with the title in bold, " +
		"followed by a dash and a one-sentence description, for example:\n" +
		"1. **Title Here** - Description here.\n")
	if len(keywords) > 0 {
		b.WriteString("\nPopular search phrases to draw from: " + strings.Join(keywords, ", ") + "\n")
	}
	if len(existingTitles) > 0 {
		b.WriteString("\nDo not repeat any of these existing topics:\n")
		for _, title := range existingTitles {
			b.WriteString("- " + title + "\n")
		}
	}

	return b.String()
}

const sectionInstructions = `Structure the reply exactly as the following labeled sections, each label on its own line followed by a colon:

Title: the article headline
Content: the full article body in HTML paragraphs
Tags: comma-separated tags
SEO Title: a title for search engines, up to 60 characters
Focus Keyphrase: the primary keyphrase
Slug: a URL slug in lowercase with hyphens
Meta Description: a summary for search engines, up to 155 characters`
