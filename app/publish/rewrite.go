package publish

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// RewriteImageSources replaces img src attributes according to hosted. Images
// without a mapping keep their original source. The body is returned
// unchanged when it cannot be parsed.
func RewriteImageSources(body string, hosted map[string]string) string {
	if len(hosted) == 0 {
		return body
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}
		if replacement, ok := hosted[src]; ok {
			sel.SetAttr("src", replacement)
		}
	})

	rewritten, err := doc.Find("body").Html()
	if err != nil {
		return body
	}

	return rewritten
}
