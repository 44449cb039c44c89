package ingest

import (
	"testing"
	"time"
)

func TestParserRunRSS(t *testing.T) {
	parser := NewParser()

	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Tennis Wire</title>
	<link>https://example.com</link>
	<description>Latest tennis coverage</description>
	<item>
		<title>Top Seed Advances To Semifinal</title>
		<link>https://example.com/news/top-seed-advances</link>
		<guid>https://example.com/news/top-seed-advances</guid>
		<description>A short summary of the match.</description>
		<pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
		<category>ATP</category>
		<category>Grand Slam</category>
	</item>
	<item>
		<title>Qualifier Upsets Former Champion</title>
		<link>https://example.com/news/qualifier-upsets</link>
		<pubDate>Tue, 03 Jun 2025 08:30:00 GMT</pubDate>
	</item>
</channel>
</rss>`

	candidates, err := parser.Run([]byte(rssXML))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}

	first := candidates[0]
	if first.ExternalKey != "https://example.com/news/top-seed-advances" {
		t.Errorf("Unexpected external key: %s", first.ExternalKey)
	}
	if first.Title != "Top Seed Advances To Semifinal" {
		t.Errorf("Unexpected title: %s", first.Title)
	}
	if first.Content != "A short summary of the match." {
		t.Errorf("Unexpected content: %s", first.Content)
	}
	if len(first.Tags) != 2 || first.Tags[0] != "ATP" {
		t.Errorf("Unexpected tags: %v", first.Tags)
	}

	expected := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	if !first.PublishedAt.Equal(expected) {
		t.Errorf("Expected published at %v, got %v", expected, first.PublishedAt)
	}
}

func TestParserRunPrefersLinkAsKey(t *testing.T) {
	parser := NewParser()

	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Feed</title>
	<item>
		<title>With GUID Only</title>
		<guid>internal-guid-123</guid>
		<pubDate>Mon, 02 Jun 2025 10:00:00 GMT</pubDate>
	</item>
</channel>
</rss>`

	candidates, err := parser.Run([]byte(rssXML))
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].ExternalKey != "internal-guid-123" {
		t.Errorf("Expected GUID fallback as key, got '%s'", candidates[0].ExternalKey)
	}
}

func TestParserRunDropsKeylessItems(t *testing.T) {
	parser := NewParser()

	rssXML := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Feed</title>
	<item>
		<title>No Link Or GUID</title>
	</item>
	<item>
		<title>Valid Item</title>
		<link>https://example.com/valid</link>
	</item>
</channel>
</rss>`

	candidates, err := parser.Run([]byte(rssXML))
	if err != nil {
		t.Fatal(err)
	}
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate after dropping keyless item, got %d", len(candidates))
	}
	if candidates[0].Title != "Valid Item" {
		t.Errorf("Unexpected surviving candidate: %s", candidates[0].Title)
	}
}

func TestParserRunInvalidXML(t *testing.T) {
	parser := NewParser()

	_, err := parser.Run([]byte("not a feed"))
	if err == nil {
		t.Error("Expected error for invalid feed data")
	}
}
