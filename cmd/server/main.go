package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/api/option"
	googleyoutube "google.golang.org/api/youtube/v3"

	"newsbrief/app/api"
	"newsbrief/app/cfg"
	"newsbrief/app/database"
	"newsbrief/app/extractor"
	"newsbrief/app/feed"
	"newsbrief/app/ingest"
	"newsbrief/app/scheduler"
	"newsbrief/app/sources"
	"newsbrief/app/summarizer"
	"newsbrief/app/youtube"
)

const fetchTimeout = 15 * time.Second

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting newsbrief server", "version", appCfg.Version)

	// Database connection and migrations
	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	newsRepo := database.NewNewsRepository(db)

	// All outbound calls share one bounded client; no operation blocks
	// indefinitely
	httpClient := &http.Client{Timeout: fetchTimeout}

	// Summarization calls can take far longer than page fetches
	summarizerClient := summarizer.NewClient(appCfg.OllamaURL, appCfg.OllamaModel,
		&http.Client{Timeout: 2 * time.Minute})

	articleExtractor := extractor.NewExtractor(httpClient)
	feedPoller := feed.NewPoller(httpClient, newsRepo, summarizerClient, appCfg.UserAgent)

	var youtubeService *googleyoutube.Service
	if appCfg.YouTubeAPIKey != "" {
		youtubeService, err = googleyoutube.NewService(context.Background(),
			option.WithAPIKey(appCfg.YouTubeAPIKey))
		if err != nil {
			log.Fatalf("Failed to create YouTube service: %v", err)
		}
		slog.Info("YouTube channel polling enabled")
	} else {
		slog.Info("YOUTUBE_API_KEY not set, channel polling disabled")
	}
	channelPoller := youtube.NewPoller(youtubeService, httpClient, newsRepo, summarizerClient)

	ingestService := ingest.NewService(newsRepo, articleExtractor, summarizerClient, feedPoller, channelPoller)

	// Polled-source list, loaded once and immutable for the process lifetime
	sourceList, err := sources.NewLoader(appCfg.SourcesFile).Load()
	if err != nil {
		log.Fatalf("Failed to load sources: %v", err)
	}
	slog.Info("Sources loaded", "feeds", len(sourceList.Feeds), "channels", len(sourceList.Channels))

	newsScheduler := scheduler.NewScheduler(ingestService, sourceList,
		time.Duration(appCfg.SchedulerInterval)*time.Second,
		time.Duration(appCfg.StartupDelay)*time.Second)
	newsScheduler.Start()
	defer newsScheduler.Stop()

	// HTTP server
	apiHandler := api.NewHandler(ingestService, appCfg.Version)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Scheduler is stopped via defer
	slog.Info("Server shutdown complete")
}
