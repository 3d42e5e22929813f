package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	DBPath      string `long:"db-path" env:"DB_PATH" default:"./newsbrief.db" description:"Path to the sqlite database file"`
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file listing feed URLs and channel ids to poll"`

	// Scheduler configuration
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"14400" description:"Polling interval in seconds"`
	StartupDelay      int `long:"startup-delay" env:"STARTUP_DELAY" default:"10" description:"Delay in seconds before the first poll after boot"`

	// Summarizer backend
	OllamaURL   string `long:"ollama-url" env:"OLLAMA_URL" default:"http://localhost:11434/api/generate" description:"Ollama generate endpoint"`
	OllamaModel string `long:"ollama-model" env:"OLLAMA_MODEL" default:"gemma3:4b" description:"Model used for summarization"`

	// YouTube Data API
	YouTubeAPIKey string `long:"youtube-api-key" env:"YOUTUBE_API_KEY" description:"YouTube Data API key (channel polling disabled when unset)"`

	// HTTP
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for mutating endpoints (optional)"`
	UserAgent    string `long:"user-agent" env:"USER_AGENT" default:"newsbrief/1.0" description:"User agent string for feed requests"`

	// Application metadata
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		DBPath:            raw.DBPath,
		SourcesFile:       raw.SourcesFile,
		SchedulerInterval: raw.SchedulerInterval,
		StartupDelay:      raw.StartupDelay,
		OllamaURL:         raw.OllamaURL,
		OllamaModel:       raw.OllamaModel,
		YouTubeAPIKey:     raw.YouTubeAPIKey,
		APIAccessKey:      raw.APIAccessKey,
		UserAgent:         raw.UserAgent,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
