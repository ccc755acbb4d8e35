package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"SportsFeed/internal/domain"
	"SportsFeed/internal/infrastructure/metrics"
	"SportsFeed/internal/ports"
)

// Fetcher retrieves every endpoint concurrently and keeps whatever parsed.
type Fetcher struct {
	gateway ports.Gateway
	timeout time.Duration
	logger  *slog.Logger
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher wires a gateway; timeout bounds each endpoint retrieval.
func NewFetcher(gateway ports.Gateway, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{gateway: gateway, timeout: timeout, logger: logger.With("component", "feed")}
}

type fetchResult struct {
	endpoint string
	entries  []domain.FeedEntry
	err      error
}

// Fetch returns the union of entries from all endpoints that succeeded.
// A failing endpoint is logged and skipped; if all fail the result is empty.
func (f *Fetcher) Fetch(ctx context.Context, endpoints []string) []domain.FeedEntry {
	if len(endpoints) == 0 {
		return nil
	}

	results := make(chan fetchResult, len(endpoints))

	var wg sync.WaitGroup
	for _, endpoint := range endpoints {
		wg.Add(1)
		go func(endpoint string) {
			defer wg.Done()
			entries, err := f.fetchEndpoint(ctx, endpoint)
			results <- fetchResult{endpoint: endpoint, entries: entries, err: err}
		}(endpoint)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var collected []domain.FeedEntry
	for res := range results {
		if res.err != nil {
			metrics.FeedFetches.WithLabelValues("failed").Inc()
			f.logger.Warn("feed fetch failed", "endpoint", res.endpoint, "error", res.err)
			continue
		}
		metrics.FeedFetches.WithLabelValues("ok").Inc()
		metrics.FeedEntries.Add(float64(len(res.entries)))
		f.logger.Debug("feed fetched", "endpoint", res.endpoint, "entries", len(res.entries))
		collected = append(collected, res.entries...)
	}

	return collected
}

func (f *Fetcher) fetchEndpoint(ctx context.Context, endpoint string) ([]domain.FeedEntry, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	contents, err := f.gateway.Retrieve(callCtx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("retrieve %s: %w", endpoint, err)
	}

	parsed, err := gofeed.NewParser().ParseString(contents)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", endpoint, err)
	}

	entries := make([]domain.FeedEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, toEntry(endpoint, item))
	}
	return entries, nil
}

func toEntry(endpoint string, item *gofeed.Item) domain.FeedEntry {
	entry := domain.FeedEntry{
		Endpoint:    endpoint,
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		PubDate:     item.Published,
		Published:   item.PublishedParsed,
		MediaURL:    mediaURL(item),
	}
	if entry.Description == "" {
		entry.Description = item.Content
	}
	if entry.Published == nil {
		entry.Published = item.UpdatedParsed
	}
	if entry.PubDate == "" {
		entry.PubDate = item.Updated
	}
	return entry
}

// mediaURL picks media:content, then an image enclosure, then the item image.
func mediaURL(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, ext := range media[name] {
				if u := ext.Attrs["url"]; u != "" {
					return u
				}
			}
		}
	}
	for _, enc := range item.Enclosures {
		if enc != nil && enc.URL != "" && strings.HasPrefix(enc.Type, "image/") {
			return enc.URL
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}
