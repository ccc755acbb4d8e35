// Package cache owns the persisted, bounded working set of content items.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"SportsFeed/internal/domain"
	"SportsFeed/internal/infrastructure/metrics"
	"SportsFeed/internal/ports"
)

// Options bounds the collection.
type Options struct {
	Key       string
	Retention time.Duration
	Capacity  int
	Now       func() time.Time
}

// Manager merges fetched batches into the stored collection and applies the
// retention window and capacity on every merge.
type Manager struct {
	kv        ports.StateStore
	key       string
	retention time.Duration
	capacity  int
	now       func() time.Time
	logger    *slog.Logger

	mu sync.Mutex
}

var _ ports.ContentStore = (*Manager)(nil)

// NewManager wires the store manager over a key-value state store.
func NewManager(kv ports.StateStore, opts Options, logger *slog.Logger) *Manager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		kv:        kv,
		key:       opts.Key,
		retention: opts.Retention,
		capacity:  opts.Capacity,
		now:       opts.Now,
		logger:    logger.With("component", "cache"),
	}
}

// Merge appends batch entries whose id is not stored yet, evicts expired
// entries, sorts newest first, truncates to capacity, persists and returns
// the resulting collection. Existing records are never overwritten here.
func (m *Manager) Merge(ctx context.Context, batch []domain.ContentItem) ([]domain.ContentItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.fresh(m.load(ctx))
	known := lo.SliceToMap(current, func(item domain.ContentItem) (string, struct{}) {
		return item.ID, struct{}{}
	})

	added := 0
	for _, item := range m.fresh(batch) {
		if _, ok := known[item.ID]; ok {
			continue
		}
		known[item.ID] = struct{}{}
		current = append(current, item)
		added++
	}

	sort.SliceStable(current, func(i, j int) bool {
		return current[i].Timestamp > current[j].Timestamp
	})
	if m.capacity > 0 && len(current) > m.capacity {
		current = current[:m.capacity]
	}

	if err := m.persist(ctx, current); err != nil {
		return current, err
	}

	metrics.StoreItems.Set(float64(len(current)))
	m.logger.Debug("merged batch", "fetched", len(batch), "added", added, "stored", len(current))
	return current, nil
}

// UpdateOne replaces the stored entry with the same id. An id evicted in the
// meantime is ignored.
func (m *Manager) UpdateOne(ctx context.Context, item domain.ContentItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.load(ctx)
	_, idx, found := lo.FindIndexOf(current, func(stored domain.ContentItem) bool {
		return stored.ID == item.ID
	})
	if !found {
		m.logger.Debug("update skipped, item no longer stored", "id", item.ID)
		return nil
	}

	current[idx] = item
	return m.persist(ctx, current)
}

// Read returns the stored collection as is.
func (m *Manager) Read(ctx context.Context) []domain.ContentItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.load(ctx)
}

// Stats summarizes the stored collection.
func (m *Manager) Stats(ctx context.Context) domain.StoreStats {
	items := m.Read(ctx)

	stats := domain.StoreStats{
		Total: len(items),
		Sources: lo.CountValuesBy(items, func(item domain.ContentItem) string {
			return item.Source
		}),
	}
	stats.Processed = lo.CountBy(items, func(item domain.ContentItem) bool { return item.IsProcessed })
	stats.Pending = stats.Total - stats.Processed

	if len(items) > 0 {
		newest := lo.MaxBy(items, func(a, b domain.ContentItem) bool { return a.Timestamp > b.Timestamp })
		oldest := lo.MinBy(items, func(a, b domain.ContentItem) bool { return a.Timestamp < b.Timestamp })
		stats.Newest = newest.PublishedAt()
		stats.Oldest = oldest.PublishedAt()
	}
	return stats
}

// load treats a missing or unreadable state as an empty collection.
func (m *Manager) load(ctx context.Context) []domain.ContentItem {
	data, err := m.kv.Load(ctx, m.key)
	if err != nil {
		if !errors.Is(err, ports.ErrNotFound) {
			m.logger.Warn("state load failed, starting empty", "key", m.key, "error", err)
		}
		return []domain.ContentItem{}
	}

	var items []domain.ContentItem
	if err := json.Unmarshal(data, &items); err != nil {
		m.logger.Warn("state decode failed, starting empty", "key", m.key, "error", err)
		return []domain.ContentItem{}
	}
	if items == nil {
		items = []domain.ContentItem{}
	}
	return items
}

func (m *Manager) persist(ctx context.Context, items []domain.ContentItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := m.kv.Save(ctx, m.key, data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (m *Manager) fresh(items []domain.ContentItem) []domain.ContentItem {
	if m.retention <= 0 {
		return items
	}
	cutoff := m.now().Add(-m.retention).UnixMilli()
	return lo.Filter(items, func(item domain.ContentItem, _ int) bool {
		return item.Timestamp >= cutoff
	})
}
