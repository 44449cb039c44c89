package scrape

import (
	"strings"
	"testing"
)

func TestExtractorRunValidHTML(t *testing.T) {
	extractor := NewExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head>
		<title>Match Report</title>
	</head>
	<body>
		<header>
			<h1>Site Header</h1>
			<nav>Navigation</nav>
		</header>
		<main>
			<article>
				<h1>Final Ends In Five Sets</h1>
				<p>The championship final stretched into a fifth set after nearly four hours of play, with both players trading breaks throughout the afternoon session.</p>
				<p>The decisive moment came in the tenth game, when a string of unforced errors handed over the break that settled the match and the title.</p>
				<p>Here is some more substantial reporting to ensure the readable portion of the page is large enough for the extraction routine to pick up reliably.</p>
			</article>
		</main>
		<aside>
			<div>Advertisement</div>
		</aside>
		<footer>
			<p>Copyright 2024</p>
		</footer>
	</body>
	</html>
	`

	article, err := extractor.Run([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if article.Text == "" {
		t.Error("Expected non-empty article text")
	}

	if !strings.Contains(article.Text, "championship final") {
		t.Error("Expected extracted text to contain main article content")
	}

	if strings.Contains(article.Text, "Advertisement") {
		t.Error("Expected extracted text to exclude advertisement")
	}

	if strings.Contains(article.Text, "Copyright 2024") {
		t.Error("Expected extracted text to exclude footer")
	}
}

func TestExtractorRunCollectsImages(t *testing.T) {
	extractor := NewExtractor()

	htmlContent := `
	<!DOCTYPE html>
	<html>
	<head><title>Photo Story</title></head>
	<body>
		<article>
			<h1>Season Opener In Pictures</h1>
			<p>The opening tournament of the season brought several surprises, starting with the early exit of the defending champion in the second round.</p>
			<img src="https://example.com/photos/champion.jpg" alt="Defending champion during the second round">
			<p>Qualifiers filled the gaps in the draw, and two of them went on to reach the quarter finals for the first time in their careers.</p>
			<img src="https://example.com/photos/qualifier.jpg" alt="Qualifier celebrating">
			<img src="https://example.com/photos/qualifier.jpg" alt="Duplicate reference">
			<p>More coverage follows throughout the week as the draw narrows toward the final weekend of play.</p>
		</article>
	</body>
	</html>
	`

	article, err := extractor.Run([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(article.Images) != 2 {
		t.Fatalf("Expected 2 unique images, got %d", len(article.Images))
	}

	if article.Images[0].URL != "https://example.com/photos/champion.jpg" {
		t.Errorf("Unexpected first image URL: %s", article.Images[0].URL)
	}
	if article.Images[0].Alt != "Defending champion during the second round" {
		t.Errorf("Unexpected first image alt text: %s", article.Images[0].Alt)
	}
}

func TestExtractorRunEmptyData(t *testing.T) {
	extractor := NewExtractor()

	article, err := extractor.Run([]byte{})
	if err == nil {
		t.Error("Expected error for empty data")
	}
	if article != nil {
		t.Error("Expected nil article for empty data")
	}

	expectedError := "HTML data is empty"
	if err.Error() != expectedError {
		t.Errorf("Expected error message '%s', got '%s'", expectedError, err.Error())
	}
}

func TestExtractorRunNilData(t *testing.T) {
	extractor := NewExtractor()

	article, err := extractor.Run(nil)
	if err == nil {
		t.Error("Expected error for nil data")
	}
	if article != nil {
		t.Error("Expected nil article for nil data")
	}
}

func TestExtractImages(t *testing.T) {
	content := `<div><p>text</p><img src="https://example.com/a.png" alt="first"><img alt="no source"><img src="https://example.com/b.png"></div>`

	images, err := extractImages(content)
	if err != nil {
		t.Fatal(err)
	}

	if len(images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(images))
	}
	if images[0].URL != "https://example.com/a.png" || images[0].Alt != "first" {
		t.Errorf("Unexpected first image: %+v", images[0])
	}
	if images[1].Alt != "" {
		t.Errorf("Expected empty alt for second image, got '%s'", images[1].Alt)
	}
}
