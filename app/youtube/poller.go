package youtube

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/api/youtube/v3"

	"newsbrief/app/database"
	"newsbrief/app/feed"
)

const maxVideos = 10

// Sentinel errors for batch-level failures
var (
	ErrNotConfigured = errors.New("YouTube API key is not configured")
	ErrFetch         = errors.New("failed to fetch YouTube videos")
)

// Poller retrieves recent videos for a channel, fetches transcripts and
// persists summarized records
type Poller struct {
	service     *youtube.Service
	transcripts *TranscriptClient
	repo        database.NewsRepository
	summarizer  feed.Summarizer
}

// NewPoller creates a channel poller. A nil service means no API credential
// was configured; Run reports ErrNotConfigured in that case.
func NewPoller(service *youtube.Service, httpClient *http.Client, repo database.NewsRepository, summarizer feed.Summarizer) *Poller {
	return &Poller{
		service:     service,
		transcripts: NewTranscriptClient(httpClient),
		repo:        repo,
		summarizer:  summarizer,
	}
}

// Run polls the most recent videos of the given channel, ordered by publish
// date. Per-video failures are logged and counted, never aborting the batch.
func (p *Poller) Run(ctx context.Context, channelID string) (*feed.Report, error) {
	if p.service == nil {
		return nil, ErrNotConfigured
	}

	resp, err := p.service.Search.List([]string{"snippet"}).
		ChannelId(channelID).
		Order("date").
		MaxResults(maxVideos).
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	report := &feed.Report{FeedTitle: channelID}
	for _, result := range resp.Items {
		p.processVideo(ctx, result, channelID, report)
	}

	slog.Info("Channel poll completed",
		"channel", channelID,
		"total", report.Total(),
		"new", report.Created,
		"duplicates", report.Duplicates,
		"skipped", report.Skipped,
		"failed", report.Failed)

	return report, nil
}

func (p *Poller) processVideo(ctx context.Context, result *youtube.SearchResult, channelID string, report *feed.Report) {
	if result.Id == nil || result.Id.VideoId == "" || result.Snippet == nil {
		report.Skipped++
		return
	}

	videoID := result.Id.VideoId
	sourceURL := WatchURL(videoID)

	existing, err := p.repo.GetBySourceURL(sourceURL)
	if err != nil {
		slog.Warn("Duplicate check failed", "video", videoID, "error", err)
		report.Failed++
		return
	}
	if existing != nil {
		report.Duplicates++
		return
	}

	text, err := p.transcripts.Fetch(ctx, videoID)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			slog.Debug("No transcript available, falling back to description", "video", videoID, "error", err)
		}
		text = result.Snippet.Description
	}
	if strings.TrimSpace(text) == "" {
		slog.Debug("No transcript and no description, skipping video", "video", videoID)
		report.Skipped++
		return
	}

	summary, err := p.summarizer.Run(ctx, text)
	if err != nil {
		slog.Warn("Failed to summarize video", "channel", channelID, "video", videoID, "error", err)
		report.Failed++
		return
	}

	_, err = p.repo.Insert(database.NewsItem{
		Title:        summary.Title,
		Content:      text,
		Summary:      summary.Summary,
		WhyItMatters: summary.WhyItMatters,
		SourceURL:    sourceURL,
		SourceKind:   database.SourceYouTube,
		SourceName:   channelID,
		ImageURL:     bestThumbnail(result.Snippet.Thumbnails),
	})
	if err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			report.Duplicates++
			return
		}
		slog.Warn("Failed to store video", "channel", channelID, "video", videoID, "error", err)
		report.Failed++
		return
	}

	slog.Debug("Video saved", "channel", channelID, "title", summary.Title, "video", videoID)
	report.Created++
}

// WatchURL builds the canonical watch URL used as the dedup key
func WatchURL(videoID string) string {
	return "https://youtube.com/watch?v=" + videoID
}

// bestThumbnail picks the best available resolution: high, then medium, then
// default
func bestThumbnail(details *youtube.ThumbnailDetails) string {
	if details == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{details.High, details.Medium, details.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
