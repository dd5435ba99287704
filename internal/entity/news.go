package entity

import (
	"time"
)

// NewsItem is one headline mentioning an asset.
type NewsItem struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	URL         string    `json:"url"`
}

// NewsDigest is the list of recent headlines, most recent first.
type NewsDigest []NewsItem
