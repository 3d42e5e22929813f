package feed

import (
	"context"

	"newsbrief/app/summarizer"
)

// Summarizer produces the canonical summary triple for raw item text
type Summarizer interface {
	Run(ctx context.Context, text string) (*summarizer.Summary, error)
}

var _ Summarizer = (*summarizer.Client)(nil)

// Report records the outcome of every item in one polling run. Aggregate
// counts are derived from per-item outcomes rather than ad hoc counters.
type Report struct {
	FeedTitle  string
	Created    int
	Duplicates int
	TooShort   int
	Skipped    int
	Failed     int
}

// Total returns the number of items examined
func (r Report) Total() int {
	return r.Created + r.Duplicates + r.TooShort + r.Skipped + r.Failed
}
