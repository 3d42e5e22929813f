package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"newsbrief/app/feed"
	"newsbrief/app/ingest"
	"newsbrief/app/sources"
)

// Ingester drives one polling run per source
type Ingester interface {
	PollFeed(ctx context.Context, feedURL string) (*feed.Report, error)
	PollChannel(ctx context.Context, channelID string) (*feed.Report, error)
}

var _ Ingester = (*ingest.Service)(nil)

// Scheduler periodically triggers ingestion for the configured set of feeds
// and channels. Sources are polled sequentially within a tick; one broken
// feed or channel never blocks the others. A first run fires shortly after
// process start so a fresh deployment does not wait a full interval.
type Scheduler struct {
	ingester     Ingester
	sourceList   *sources.List
	interval     time.Duration
	startupDelay time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
}

// NewScheduler creates a scheduler over an immutable source list
func NewScheduler(ingester Ingester, sourceList *sources.List, interval, startupDelay time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		ingester:     ingester,
		sourceList:   sourceList,
		interval:     interval,
		startupDelay: startupDelay,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start begins the scheduling loop. It returns immediately; polling happens
// in the background.
func (s *Scheduler) Start() {
	if s.sourceList.IsEmpty() {
		slog.Info("No feeds or channels configured, scheduled refresh disabled")
		return
	}

	slog.Info("Scheduler started",
		"feeds", len(s.sourceList.Feeds),
		"channels", len(s.sourceList.Channels),
		"interval", s.interval.String())

	s.wg.Add(1)
	go s.run()
}

// Stop cancels the scheduling loop and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	select {
	case <-s.ctx.Done():
		return
	case <-time.After(s.startupDelay):
		s.refresh()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.refresh()
		}
	}
}

// refresh polls every configured source once. A started run goes to
// completion; per-source failures are logged, never propagated.
func (s *Scheduler) refresh() {
	slog.Info("News refresh started")
	started := time.Now()

	for _, channelID := range s.sourceList.Channels {
		report, err := s.ingester.PollChannel(s.ctx, channelID)
		if err != nil {
			slog.Error("Channel poll failed", "channel", channelID, "error", err)
			continue
		}
		slog.Info("Channel refreshed", "channel", channelID, "new", report.Created)
	}

	for _, feedURL := range s.sourceList.Feeds {
		report, err := s.ingester.PollFeed(s.ctx, feedURL)
		if err != nil {
			slog.Error("Feed poll failed", "url", feedURL, "error", err)
			continue
		}
		slog.Info("Feed refreshed", "feed", report.FeedTitle, "new", report.Created)
	}

	slog.Info("News refresh finished", "duration", time.Since(started).String())
}
