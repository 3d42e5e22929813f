package database

import (
	"time"
)

// Source kinds for news records
const (
	SourceManual  = "manual"
	SourceURL     = "url"
	SourceRSS     = "rss"
	SourceYouTube = "youtube"
)

// KnownSourceKind reports whether kind is one of the persisted source kinds
func KnownSourceKind(kind string) bool {
	switch kind {
	case SourceManual, SourceURL, SourceRSS, SourceYouTube:
		return true
	}
	return false
}

// News represents a news record in the database
type News struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Summary      string    `json:"summary"`
	WhyItMatters string    `json:"whyItMatters"`
	SourceURL    string    `json:"sourceUrl,omitempty"`
	SourceKind   string    `json:"sourceKind"`
	SourceName   string    `json:"sourceName,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewsItem is a normalized item ready for insertion. Optional fields are
// stored as NULL when empty so the partial unique index on source_url holds.
type NewsItem struct {
	Title        string
	Content      string
	Summary      string
	WhyItMatters string
	SourceURL    string
	SourceKind   string
	SourceName   string
	ImageURL     string
	CreatedBy    string
}
