package ingest

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"newsbrief/app/database"
	"newsbrief/app/feed"
)

const (
	minListLimit = 1
	maxListLimit = 50
)

// Service unifies manual submission, single-URL submission, feed polling and
// channel polling behind one creation contract. It owns the
// dedup-then-summarize-then-insert ordering; the unique constraint on
// source_url is the authoritative backstop for the narrow race between the
// existence check and the write.
type Service struct {
	repo          database.NewsRepository
	extractor     ArticleExtractor
	summarizer    feed.Summarizer
	feedPoller    FeedPoller
	channelPoller ChannelPoller
}

// NewService creates the ingestion service
func NewService(repo database.NewsRepository, extractor ArticleExtractor, summarizer feed.Summarizer,
	feedPoller FeedPoller, channelPoller ChannelPoller) *Service {
	return &Service{
		repo:          repo,
		extractor:     extractor,
		summarizer:    summarizer,
		feedPoller:    feedPoller,
		channelPoller: channelPoller,
	}
}

// CreateNews ingests a manual or URL-based submission. Manual submissions
// bypass the extractor entirely; URL submissions surface the extractor's
// failure kind directly. The title, summary and whyItMatters fields always
// come from the summarizer, never from caller input.
func (s *Service) CreateNews(ctx context.Context, input CreateInput, actorID string) (*database.News, error) {
	content := strings.TrimSpace(input.Content)
	sourceURL := strings.TrimSpace(input.SourceURL)
	imageURL := strings.TrimSpace(input.ImageURL)

	if (content == "") == (sourceURL == "") {
		return nil, ErrInvalidInput
	}

	if imageURL != "" && !isAbsoluteHTTP(imageURL) {
		return nil, fmt.Errorf("%w: imageUrl must be an absolute http(s) URL", ErrInvalidInput)
	}

	sourceKind := database.SourceManual
	if sourceURL != "" {
		sourceKind = database.SourceURL

		existing, err := s.repo.GetBySourceURL(sourceURL)
		if err != nil {
			return nil, fmt.Errorf("failed to check for existing article: %w", err)
		}
		if existing != nil {
			return nil, ErrConflict
		}

		article, err := s.extractor.Run(ctx, sourceURL)
		if err != nil {
			return nil, err
		}
		content = article.Text
		if imageURL == "" {
			imageURL = article.ImageURL
		}
	}

	summary, err := s.summarizer.Run(ctx, content)
	if err != nil {
		return nil, err
	}

	news, err := s.repo.Insert(database.NewsItem{
		Title:        summary.Title,
		Content:      content,
		Summary:      summary.Summary,
		WhyItMatters: summary.WhyItMatters,
		SourceURL:    sourceURL,
		SourceKind:   sourceKind,
		ImageURL:     imageURL,
		CreatedBy:    actorID,
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			// Lost the race to a concurrent submission of the same URL;
			// reported the same way as the pre-insert existence check
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to store news: %w", err)
	}

	return news, nil
}

// ListNews returns a page of news records sorted newest first. The limit is
// clamped to [1,50] and the page to >=1; an unknown source kind filter is
// ignored.
func (s *Service) ListNews(page, limit int, sourceKind string) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < minListLimit {
		limit = minListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if !database.KnownSourceKind(sourceKind) {
		sourceKind = ""
	}

	total, err := s.repo.GetNewsCount(sourceKind)
	if err != nil {
		return nil, fmt.Errorf("failed to count news: %w", err)
	}

	items, err := s.repo.GetNewsPage(sourceKind, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	return &ListResult{
		Items:       items,
		TotalPages:  (total + limit - 1) / limit,
		CurrentPage: page,
		Count:       len(items),
	}, nil
}

// PollFeed ingests one feed; per-item failures never escalate
func (s *Service) PollFeed(ctx context.Context, feedURL string) (*feed.Report, error) {
	return s.feedPoller.Run(ctx, feedURL)
}

// PollChannel ingests one channel; per-video failures never escalate
func (s *Service) PollChannel(ctx context.Context, channelID string) (*feed.Report, error) {
	return s.channelPoller.Run(ctx, channelID)
}

func isAbsoluteHTTP(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
