package ingest

import (
	"context"
	"errors"

	"newsbrief/app/database"
	"newsbrief/app/extractor"
	"newsbrief/app/feed"
	"newsbrief/app/youtube"
)

// Caller-fixable failures surfaced by single-item operations
var (
	ErrInvalidInput = errors.New("exactly one of content or sourceUrl must be provided")
	ErrConflict     = errors.New("article from this URL already exists")
)

// ArticleExtractor derives readable content from an article URL
type ArticleExtractor interface {
	Run(ctx context.Context, url string) (*extractor.Article, error)
}

// FeedPoller ingests one RSS/Atom feed
type FeedPoller interface {
	Run(ctx context.Context, feedURL string) (*feed.Report, error)
}

// ChannelPoller ingests one video channel
type ChannelPoller interface {
	Run(ctx context.Context, channelID string) (*feed.Report, error)
}

var (
	_ ArticleExtractor = (*extractor.Extractor)(nil)
	_ FeedPoller       = (*feed.Poller)(nil)
	_ ChannelPoller    = (*youtube.Poller)(nil)
)

// CreateInput is a manual or URL-based submission. Exactly one of Content
// and SourceURL must be meaningfully populated.
type CreateInput struct {
	Content   string `json:"content"`
	SourceURL string `json:"sourceUrl"`
	ImageURL  string `json:"imageUrl"`
}

// ListResult is a page of news records with paging metadata
type ListResult struct {
	Items       []database.News
	TotalPages  int
	CurrentPage int
	Count       int
}
