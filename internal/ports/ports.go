package ports

import (
	"context"
	"errors"
	"time"

	"SportsFeed/internal/domain"
)

// ErrNotFound is returned by a StateStore when the key has never been saved.
var ErrNotFound = errors.New("state key not found")

// Gateway retrieves raw feed markup for an endpoint. Direct cross-origin
// retrieval is assumed blocked, so implementations may go through a proxy.
type Gateway interface {
	Retrieve(ctx context.Context, endpoint string) (string, error)
}

// FeedSource pulls parsed entries from a set of endpoints, tolerating
// per-endpoint failure.
type FeedSource interface {
	Fetch(ctx context.Context, endpoints []string) []domain.FeedEntry
}

// StateStore is the key-value persistence behind the content cache.
type StateStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// ContentStore owns the persisted, bounded set of content items.
type ContentStore interface {
	Merge(ctx context.Context, batch []domain.ContentItem) ([]domain.ContentItem, error)
	UpdateOne(ctx context.Context, item domain.ContentItem) error
	Read(ctx context.Context) []domain.ContentItem
	Stats(ctx context.Context) domain.StoreStats
}

// Enricher is the external text-generation capability, one method per call shape.
type Enricher interface {
	Rewrite(ctx context.Context, title, content string) (domain.Rewrite, error)
	AnalyzeMatch(ctx context.Context, score domain.ScoreItem) (string, error)
	Report(ctx context.Context, stats domain.StoreStats) (string, error)
}

// Tagger appends entity markers to free text.
type Tagger interface {
	Tag(text string) string
}

// Trigger starts background enrichment for a freshly merged collection.
type Trigger interface {
	Trigger(items []domain.ContentItem) bool
}

// Scheduler controls when refreshes execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
