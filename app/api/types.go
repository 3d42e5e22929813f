package api

import (
	"context"

	"newsbrief/app/database"
	"newsbrief/app/feed"
	"newsbrief/app/ingest"
)

// NewsService is the ingestion surface the HTTP layer exposes
type NewsService interface {
	CreateNews(ctx context.Context, input ingest.CreateInput, actorID string) (*database.News, error)
	ListNews(page, limit int, sourceKind string) (*ingest.ListResult, error)
	PollFeed(ctx context.Context, feedURL string) (*feed.Report, error)
	PollChannel(ctx context.Context, channelID string) (*feed.Report, error)
}

var _ NewsService = (*ingest.Service)(nil)

type Handler struct {
	service NewsService
	version string
}
