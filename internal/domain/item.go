package domain

import "time"

// ContentItem is a single ingested news entry tracked through unenriched -> enriched.
type ContentItem struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	OriginalContent string `json:"originalContent"`
	AIContent       string `json:"aiContent,omitempty"`
	FullArticle     string `json:"fullArticle,omitempty"`
	ImageURL        string `json:"imageUrl"`
	Source          string `json:"source"`
	Link            string `json:"link"`
	PubDate         string `json:"pubDate"`
	Timestamp       int64  `json:"timestamp"`
	IsProcessed     bool   `json:"isProcessed"`
}

// PublishedAt converts the millisecond timestamp back to time.Time.
func (c ContentItem) PublishedAt() time.Time {
	return time.UnixMilli(c.Timestamp)
}

// Rewrite is the output of the enrichment capability for one item.
type Rewrite struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	FullArticle string `json:"fullArticle"`
}

// EnrichmentOutcome enumerates how a worker step ended.
type EnrichmentOutcome string

const (
	OutcomeEnriched    EnrichmentOutcome = "enriched"
	OutcomePlaceholder EnrichmentOutcome = "placeholder"
)

// StoreStats summarizes the persisted collection for status reports.
type StoreStats struct {
	Total     int            `json:"total"`
	Processed int            `json:"processed"`
	Pending   int            `json:"pending"`
	Sources   map[string]int `json:"sources"`
	Newest    time.Time      `json:"newest"`
	Oldest    time.Time      `json:"oldest"`
}
