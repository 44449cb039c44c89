package scrape

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Article is the readable part of a scraped page.
type Article struct {
	Title  string
	Text   string
	Images []Image
}

// Image is an <img> reference found inside the readable content.
type Image struct {
	URL string
	Alt string
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts the readable article from raw HTML, including any images
// referenced by the article body.
func (e *Extractor) Run(data []byte) (*Article, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("HTML data is empty")
	}

	parsed, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	if parsed.TextContent == "" {
		return nil, fmt.Errorf("no content extracted from HTML data")
	}

	images, err := extractImages(parsed.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}

	slog.Debug("Content extracted successfully",
		"title", parsed.Title,
		"content_length", len(parsed.TextContent),
		"images", len(images))

	return &Article{
		Title:  parsed.Title,
		Text:   parsed.TextContent,
		Images: images,
	}, nil
}

func extractImages(content string) ([]Image, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(content)))
	if err != nil {
		return nil, err
	}

	var images []Image
	seen := make(map[string]bool)
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, ok := s.Attr("src")
		if !ok || src == "" || seen[src] {
			return
		}
		seen[src] = true
		images = append(images, Image{
			URL: src,
			Alt: s.AttrOr("alt", ""),
		})
	})

	return images, nil
}
