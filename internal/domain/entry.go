package domain

import "time"

// FeedEntry is a parsed syndication entry before normalization. PubDate is
// the raw date string as found in the feed.
type FeedEntry struct {
	Endpoint    string
	Title       string
	Link        string
	Description string
	PubDate     string
	Published   *time.Time
	MediaURL    string
}
