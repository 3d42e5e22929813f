package cfg

type Cfg struct {
	// Application configuration
	Port        string
	DBPath      string
	SourcesFile string

	// Scheduler configuration
	SchedulerInterval int
	StartupDelay      int

	// Summarizer backend
	OllamaURL   string
	OllamaModel string

	// YouTube Data API
	YouTubeAPIKey string

	// HTTP
	APIAccessKey string
	UserAgent    string

	// Application metadata
	Debug   bool
	Version string
}
