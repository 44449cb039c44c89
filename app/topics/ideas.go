package topics

import (
	"regexp"
	"strings"
)

// Idea is one proposed article topic parsed from an ideation reply.
type Idea struct {
	Title       string
	Description string
}

// Idea lines look like "1. **Title** - description" or "- **Title**: description".
var ideaLineRe = regexp.MustCompile(`^(?:\d+\.|-)\s*\*\*(.+?)\*\*\s*(?:[-:]\s*(.*))?$`)

// ParseIdeas extracts topic ideas from a numbered or bulleted list reply.
// Lines that do not match the list shape are ignored.
func ParseIdeas(reply string) []Idea {
	var ideas []Idea

	for _, line := range strings.Split(reply, "\n") {
		matches := ideaLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		title := strings.TrimSpace(matches[1])
		if title == "" {
			continue
		}

		ideas = append(ideas, Idea{
			Title:       title,
			Description: strings.TrimSpace(matches[2]),
		})
	}

	return ideas
}
