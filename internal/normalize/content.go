package normalize

import (
	"time"

	"SportsFeed/internal/domain"
)

// Normalizer converts parsed entries into canonical items.
type Normalizer struct {
	now func() time.Time
}

// New returns a Normalizer; a nil clock means time.Now.
func New(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Content shapes entries as unenriched content items. Entries without a link
// have no identity and are dropped.
func (n *Normalizer) Content(entries []domain.FeedEntry) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, len(entries))
	for _, entry := range entries {
		if entry.Link == "" {
			continue
		}
		items = append(items, n.contentItem(entry))
	}
	return items
}

func (n *Normalizer) contentItem(entry domain.FeedEntry) domain.ContentItem {
	published := n.publishedAt(entry)
	pubDate := entry.PubDate
	if pubDate == "" {
		pubDate = published.UTC().Format(time.RFC3339)
	}

	return domain.ContentItem{
		ID:              Identity(entry.Link),
		Title:           entry.Title,
		OriginalContent: CleanText(entry.Description),
		ImageURL:        ExtractImage(entry.Description, entry.MediaURL, entry.Title),
		Source:          SourceLabel(entry.Endpoint),
		Link:            entry.Link,
		PubDate:         pubDate,
		Timestamp:       published.UnixMilli(),
		IsProcessed:     false,
	}
}

func (n *Normalizer) publishedAt(entry domain.FeedEntry) time.Time {
	if entry.Published != nil && !entry.Published.IsZero() {
		return *entry.Published
	}
	return n.now()
}
