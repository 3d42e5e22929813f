package extractor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	// MinArticleLength is the minimum extracted text length considered a
	// usable article
	MinArticleLength = 100

	maxContentLength  = 2 * 1024 * 1024
	maxFallbackLength = 20000
	maxRedirects      = 5

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Sentinel errors classifying extraction failures
var (
	ErrInvalidURL = errors.New("invalid article URL")
	ErrFetch      = errors.New("failed to fetch article")
	ErrExtraction = errors.New("could not extract article content")
)

// Selector fallback chain, tried in order when readability yields too little
// text. The last resort is the document body.
var contentSelectors = []string{
	"article",
	"[role='main']",
	"main",
	".post-content",
	".article-body",
	".entry-content",
	".content",
	".post",
	"#content",
	"body",
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Article is the result of a successful extraction
type Article struct {
	Title    string
	Text     string
	ImageURL string
}

// Extractor fetches article pages and derives a readable title, body text
// and lead image
type Extractor struct {
	httpClient *http.Client
	userAgent  string
}

// NewExtractor creates an extractor sharing the given HTTP client. Redirects
// are capped independently of the client's own policy.
func NewExtractor(httpClient *http.Client) *Extractor {
	client := *httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	return &Extractor{
		httpClient: &client,
		userAgent:  browserUserAgent,
	}
}

// Run fetches the given URL and extracts the article content from it
func (e *Extractor) Run(ctx context.Context, rawURL string) (*Article, error) {
	pageURL, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	html, err := e.fetch(ctx, pageURL.String())
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse HTML: %v", ErrExtraction, err)
	}

	imageURL := leadImage(doc, pageURL)
	title, text := e.extractText(html, doc, pageURL)

	if len(text) < MinArticleLength {
		return nil, fmt.Errorf("%w: text too short (%d chars)", ErrExtraction, len(text))
	}

	if LooksLikeBlockPage(title, text) {
		return nil, fmt.Errorf("%w: page returned access denied or block page", ErrExtraction)
	}

	slog.Debug("Article extracted", "url", pageURL.String(), "title", title, "text_length", len(text))

	return &Article{Title: title, Text: text, ImageURL: imageURL}, nil
}

// extractText tries readability first, then the selector fallback chain.
// Only the fallback path is truncated; readability output is already scoped
// to the article body.
func (e *Extractor) extractText(html string, doc *goquery.Document, pageURL *url.URL) (string, string) {
	article, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err == nil {
		text := strings.TrimSpace(article.TextContent)
		if len(text) >= MinArticleLength {
			return strings.TrimSpace(article.Title), text
		}
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	for _, selector := range contentSelectors {
		text := normalizeWhitespace(doc.Find(selector).First().Text())
		if len(text) >= MinArticleLength {
			if len(text) > maxFallbackLength {
				text = text[:maxFallbackLength]
			}
			return title, text
		}
	}

	return title, ""
}

func (e *Extractor) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}

	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	// 403 is tolerated: some sites misreport status while still serving
	// usable markup. The block-page heuristics catch the real denials.
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok && resp.StatusCode != http.StatusForbidden {
		return "", fmt.Errorf("%w: HTTP error: %d %s", ErrFetch, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxContentLength))
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response body: %v", ErrFetch, err)
	}

	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrFetch)
	}

	return string(data), nil
}

// leadImage extracts the Open Graph image, resolving relative URLs against
// the page URL. Unresolvable or non-http results are dropped.
func leadImage(doc *goquery.Document, pageURL *url.URL) string {
	content, _ := doc.Find(`meta[property="og:image"]`).First().Attr("content")
	content = strings.TrimSpace(content)
	if content == "" {
		return ""
	}

	imgURL, err := pageURL.Parse(content)
	if err != nil {
		return ""
	}
	if imgURL.Scheme != "http" && imgURL.Scheme != "https" {
		return ""
	}

	return imgURL.String()
}

func validateURL(rawURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: URL is required", ErrInvalidURL)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w: URL must use http or https", ErrInvalidURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("%w: URL has no host", ErrInvalidURL)
	}

	return parsed, nil
}

func normalizeWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
