package sources

// List is the configured set of feeds and channels the scheduler polls
type List struct {
	Feeds    []string `yaml:"feeds"`
	Channels []string `yaml:"channels"`
}

// IsEmpty reports whether there is nothing to poll
func (l *List) IsEmpty() bool {
	return len(l.Feeds) == 0 && len(l.Channels) == 0
}
