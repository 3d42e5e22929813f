package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"

	"newsbrief/app/database"
)

const (
	// MinContentLength is the minimum item text length worth summarizing
	MinContentLength = 80

	maxFeedSize = 10 * 1024 * 1024
)

// Sentinel errors for batch-level failures. Per-item failures never escalate;
// they are logged and recorded in the run report.
var (
	ErrInvalidURL = errors.New("invalid feed URL")
	ErrFetch      = errors.New("failed to fetch or parse feed")
)

// Poller retrieves an RSS/Atom feed, summarizes new items and persists them
type Poller struct {
	httpClient *http.Client
	parser     *gofeed.Parser
	repo       database.NewsRepository
	summarizer Summarizer
	userAgent  string
}

// NewPoller creates a feed poller
func NewPoller(httpClient *http.Client, repo database.NewsRepository, summarizer Summarizer, userAgent string) *Poller {
	return &Poller{
		httpClient: httpClient,
		parser:     gofeed.NewParser(),
		repo:       repo,
		summarizer: summarizer,
		userAgent:  userAgent,
	}
}

// Run polls the given feed URL. Items are processed sequentially in feed
// order; a single bad item is logged and counted, never aborting the batch.
func (p *Poller) Run(ctx context.Context, feedURL string) (*Report, error) {
	trimmed := strings.TrimSpace(feedURL)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: feed URL is required", ErrInvalidURL)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: feed URL must use http or https", ErrInvalidURL)
	}

	data, err := p.fetchFeed(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	parsedFeed, err := p.parser.Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	feedTitle := parsedFeed.Title
	if feedTitle == "" {
		feedTitle = "RSS Feed"
	}

	report := &Report{FeedTitle: feedTitle}
	for _, item := range parsedFeed.Items {
		p.processItem(ctx, item, feedTitle, report)
	}

	slog.Info("Feed poll completed",
		"feed", feedTitle,
		"total", report.Total(),
		"new", report.Created,
		"duplicates", report.Duplicates,
		"too_short", report.TooShort,
		"failed", report.Failed)

	return report, nil
}

func (p *Poller) processItem(ctx context.Context, item *gofeed.Item, feedTitle string, report *Report) {
	// No link means no dedup key; the item cannot be stored idempotently
	if item.Link == "" {
		report.Skipped++
		return
	}

	existing, err := p.repo.GetBySourceURL(item.Link)
	if err != nil {
		slog.Warn("Duplicate check failed", "url", item.Link, "error", err)
		report.Failed++
		return
	}
	if existing != nil {
		report.Duplicates++
		return
	}

	text := itemText(item)
	if len(text) < MinContentLength {
		report.TooShort++
		return
	}

	summary, err := p.summarizer.Run(ctx, text)
	if err != nil {
		slog.Warn("Failed to summarize feed item", "feed", feedTitle, "url", item.Link, "error", err)
		report.Failed++
		return
	}

	_, err = p.repo.Insert(database.NewsItem{
		Title:        summary.Title,
		Content:      text,
		Summary:      summary.Summary,
		WhyItMatters: summary.WhyItMatters,
		SourceURL:    item.Link,
		SourceKind:   database.SourceRSS,
		SourceName:   feedTitle,
		ImageURL:     itemImage(item),
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Lost the check-then-insert race to a concurrent run; the
			// record exists, so this is a duplicate, not a failure
			report.Duplicates++
			return
		}
		slog.Warn("Failed to store feed item", "feed", feedTitle, "url", item.Link, "error", err)
		report.Failed++
		return
	}

	slog.Debug("Feed item saved", "feed", feedTitle, "title", summary.Title, "url", item.Link)
	report.Created++
}

// itemText prefers the feed's plain-text snippet and falls back to stripping
// tags from the HTML content field
func itemText(item *gofeed.Item) string {
	text := strings.TrimSpace(item.Description)
	if text != "" && !strings.Contains(text, "<") && len(text) >= MinContentLength {
		return text
	}

	if stripped := StripHTML(item.Content); len(stripped) >= MinContentLength {
		return stripped
	}

	return StripHTML(item.Description)
}

// itemImage prefers an image-typed enclosure, then the first absolute <img>
// in the item HTML
func itemImage(item *gofeed.Item) string {
	for _, enclosure := range item.Enclosures {
		if enclosure == nil {
			continue
		}
		if enclosure.URL != "" && strings.HasPrefix(strings.ToLower(enclosure.Type), "image") {
			return enclosure.URL
		}
	}

	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}

	img := FirstImageURL(item.Content)
	if img == "" {
		img = FirstImageURL(item.Description)
	}
	if strings.HasPrefix(img, "http://") || strings.HasPrefix(img, "https://") {
		return img
	}

	return ""
}

func (p *Poller) fetchFeed(ctx context.Context, feedURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}

	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP error: %d %s", ErrFetch, resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrFetch, err)
	}

	return data, nil
}
