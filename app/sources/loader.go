package sources

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of the polled-source list
type Loader struct {
	path string
}

// NewLoader creates a loader for the given sources file
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads the sources file. A missing file is not an error: the scheduler
// simply has nothing to poll. The list is loaded once at start and treated
// as immutable for the process lifetime.
func (l *Loader) Load() (*List, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &List{}, nil
		}
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var list List
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	if err := l.validate(&list); err != nil {
		return nil, fmt.Errorf("invalid sources file %s: %w", l.path, err)
	}

	return &list, nil
}

func (l *Loader) validate(list *List) error {
	for i, feedURL := range list.Feeds {
		trimmed := strings.TrimSpace(feedURL)
		if trimmed == "" {
			return fmt.Errorf("feed %d: URL is empty", i+1)
		}
		parsed, err := url.Parse(trimmed)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			return fmt.Errorf("feed %d: URL must use http or https: %s", i+1, trimmed)
		}
		list.Feeds[i] = trimmed
	}

	for i, channelID := range list.Channels {
		trimmed := strings.TrimSpace(channelID)
		if trimmed == "" {
			return fmt.Errorf("channel %d: id is empty", i+1)
		}
		list.Channels[i] = trimmed
	}

	return nil
}
