package generate

import (
	"errors"
	"strings"
)

// ErrMissingSections is returned when a reply lacks the mandatory Title or
// Content sections.
var ErrMissingSections = errors.New("reply is missing mandatory sections")

// Sections holds the labeled parts of a generation reply.
type Sections struct {
	Title           string
	Body            string
	Tags            string
	SEOTitle        string
	Keyphrase       string
	Slug            string
	MetaDescription string
}

// Section labels, longest first so "SEO Title" never matches as "Title".
var sectionLabels = []string{
	"meta description",
	"focus keyphrase",
	"seo title",
	"content",
	"title",
	"tags",
	"slug",
}

// ParseSections tokenizes a reply into labeled sections. A section starts at
// a line that opens with a known label followed by ':' or '-'; its body runs
// until the next label line or end of text. Labels are case-insensitive and
// may be wrapped in '$' or markdown bold markers. When a label appears more
// than once the first occurrence wins.
func ParseSections(text string) (*Sections, error) {
	bodies := make(map[string]*strings.Builder)
	var current *strings.Builder

	for _, line := range strings.Split(text, "\n") {
		if label, rest, ok := matchLabel(line); ok {
			if _, exists := bodies[label]; exists {
				// Repeated label: keep the first section, ignore this one
				current = nil
				continue
			}
			b := &strings.Builder{}
			b.WriteString(rest)
			bodies[label] = b
			current = b
			continue
		}

		if current != nil {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}

	sections := &Sections{
		Title:           sectionValue(bodies, "title"),
		Body:            sectionValue(bodies, "content"),
		Tags:            sectionValue(bodies, "tags"),
		SEOTitle:        sectionValue(bodies, "seo title"),
		Keyphrase:       sectionValue(bodies, "focus keyphrase"),
		Slug:            sectionValue(bodies, "slug"),
		MetaDescription: sectionValue(bodies, "meta description"),
	}

	if sections.Title == "" || sections.Body == "" {
		return nil, ErrMissingSections
	}

	return sections, nil
}

func sectionValue(bodies map[string]*strings.Builder, label string) string {
	b, ok := bodies[label]
	if !ok {
		return ""
	}
	return strings.TrimSpace(b.String())
}

// matchLabel reports whether a line opens a section. It tolerates '$' or
// '**' wrapping around the label and accepts ':' or '-' as the separator.
func matchLabel(line string) (label string, rest string, ok bool) {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "**")
	s = strings.TrimLeft(s, "$")

	lower := strings.ToLower(s)
	for _, candidate := range sectionLabels {
		if !strings.HasPrefix(lower, candidate) {
			continue
		}

		tail := s[len(candidate):]
		tail = strings.TrimLeft(tail, "$")
		tail = strings.TrimPrefix(tail, "**")
		tail = strings.TrimLeft(tail, " \t")

		if len(tail) == 0 || (tail[0] != ':' && tail[0] != '-') {
			continue
		}

		return candidate, strings.TrimSpace(tail[1:]), true
	}

	return "", "", false
}

// SplitTags turns a comma-separated tag section into a clean slice.
func SplitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// MergeTags prepends the default tags to the parsed ones, dropping
// case-insensitive duplicates while preserving order.
func MergeTags(defaults, parsed []string) []string {
	var merged []string
	seen := make(map[string]bool)
	for _, tag := range append(append([]string{}, defaults...), parsed...) {
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, tag)
	}
	return merged
}
