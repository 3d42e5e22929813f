package feed

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const maxStrippedLength = 15000

var whitespaceRe = regexp.MustCompile(`\s+`)

// StripHTML removes markup from an HTML fragment and returns collapsed plain
// text, capped to bound downstream summarization cost
func StripHTML(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	text := strings.TrimSpace(whitespaceRe.ReplaceAllString(doc.Text(), " "))
	if len(text) > maxStrippedLength {
		text = text[:maxStrippedLength]
	}

	return text
}

// FirstImageURL returns the src of the first <img> in an HTML fragment, or
// an empty string
func FirstImageURL(html string) string {
	if html == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
