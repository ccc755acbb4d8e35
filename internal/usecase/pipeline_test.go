package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SportsFeed/internal/cache"
	"SportsFeed/internal/domain"
	"SportsFeed/internal/infrastructure/storage"
	"SportsFeed/internal/logging"
	"SportsFeed/internal/normalize"
)

type stubSource struct {
	mu      sync.Mutex
	entries map[string][]domain.FeedEntry
	asked   [][]string
}

func (s *stubSource) Fetch(_ context.Context, endpoints []string) []domain.FeedEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, endpoints)

	var out []domain.FeedEntry
	for _, endpoint := range endpoints {
		out = append(out, s.entries[endpoint]...)
	}
	return out
}

type recordingTrigger struct {
	batches [][]domain.ContentItem
}

func (r *recordingTrigger) Trigger(items []domain.ContentItem) bool {
	r.batches = append(r.batches, items)
	return true
}

type stubEnricher struct {
	analysis string
	report   string
	err      error
}

func (s stubEnricher) Rewrite(context.Context, string, string) (domain.Rewrite, error) {
	return domain.Rewrite{}, s.err
}

func (s stubEnricher) AnalyzeMatch(context.Context, domain.ScoreItem) (string, error) {
	return s.analysis, s.err
}

func (s stubEnricher) Report(context.Context, domain.StoreStats) (string, error) {
	return s.report, s.err
}

const (
	newsFeed  = "https://www.espn.com/rss"
	scoreFeed = "https://scores.example.com/rss"
)

func fixture(t *testing.T, source *stubSource, enricher stubEnricher) (*Pipeline, *cache.Manager, *recordingTrigger) {
	t.Helper()

	store := cache.NewManager(storage.NewMemoryStore(), cache.Options{
		Key:       "news",
		Retention: 7 * 24 * time.Hour,
		Capacity:  100,
	}, logging.Discard())
	trigger := &recordingTrigger{}

	p := NewPipeline(PipelineDeps{
		Source:         source,
		Normalizer:     normalize.New(nil),
		Store:          store,
		Trigger:        trigger,
		Enricher:       enricher,
		Endpoints:      []string{newsFeed},
		ScoreEndpoints: []string{scoreFeed},
		Logger:         logging.Discard(),
	})
	return p, store, trigger
}

func published(age time.Duration) *time.Time {
	ts := time.Now().Add(-age)
	return &ts
}

func TestRefreshMergesAndTriggers(t *testing.T) {
	t.Parallel()

	source := &stubSource{entries: map[string][]domain.FeedEntry{
		newsFeed: {
			{Endpoint: newsFeed, Title: "Older", Link: "https://espn.com/1", Published: published(2 * time.Hour)},
			{Endpoint: newsFeed, Title: "Newer", Link: "https://espn.com/2", Published: published(time.Hour)},
		},
	}}
	p, store, trigger := fixture(t, source, stubEnricher{})

	items, err := p.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Newer", items[0].Title)
	assert.Equal(t, "ESPN", items[0].Source)
	require.Len(t, trigger.batches, 1)
	assert.Equal(t, items, trigger.batches[0])

	items, err = p.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Len(t, store.Read(context.Background()), 2)
	assert.Equal(t, [][]string{{newsFeed}, {newsFeed}}, source.asked)
}

func TestRefreshWithAllEndpointsFailingKeepsStore(t *testing.T) {
	t.Parallel()

	source := &stubSource{entries: map[string][]domain.FeedEntry{
		newsFeed: {{Endpoint: newsFeed, Title: "Kept", Link: "https://espn.com/1", Published: published(time.Hour)}},
	}}
	p, _, trigger := fixture(t, source, stubEnricher{})

	_, err := p.Refresh(context.Background())
	require.NoError(t, err)

	source.entries = nil
	items, err := p.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Kept", items[0].Title)
	assert.Len(t, trigger.batches, 1)
	assert.Equal(t, items, p.Stored(context.Background()))
}

func TestScoresAreNotPersisted(t *testing.T) {
	t.Parallel()

	source := &stubSource{entries: map[string][]domain.FeedEntry{
		scoreFeed: {
			{Title: "Man City 3-1 Arsenal", Link: "https://s/1"},
			{Title: "Liverpool vs Chelsea", Link: "https://s/2"},
			{Title: "Injury news", Link: "https://s/3"},
		},
	}}
	p, store, _ := fixture(t, source, stubEnricher{})

	scores := p.Scores(context.Background())
	require.Len(t, scores, 2)
	assert.Equal(t, domain.StatusFinished, scores[0].Status)
	assert.Equal(t, domain.StatusUpcoming, scores[1].Status)
	assert.Empty(t, store.Read(context.Background()))
}

func TestAnalyzeFallbacks(t *testing.T) {
	t.Parallel()

	score := domain.ScoreItem{HomeTeam: "A", AwayTeam: "B"}

	p, _, _ := fixture(t, &stubSource{}, stubEnricher{analysis: "Big win."})
	assert.Equal(t, "Big win.", p.Analyze(context.Background(), score))

	p, _, _ = fixture(t, &stubSource{}, stubEnricher{err: errors.New("503")})
	assert.Equal(t, AnalysisBusy, p.Analyze(context.Background(), score))

	p, _, _ = fixture(t, &stubSource{}, stubEnricher{analysis: "  "})
	assert.Equal(t, AnalysisUnavailable, p.Analyze(context.Background(), score))
}

func TestReport(t *testing.T) {
	t.Parallel()

	source := &stubSource{entries: map[string][]domain.FeedEntry{
		newsFeed: {{Endpoint: newsFeed, Title: "One", Link: "https://espn.com/1", Published: published(time.Hour)}},
	}}
	p, _, _ := fixture(t, source, stubEnricher{report: "All good."})
	_, err := p.Refresh(context.Background())
	require.NoError(t, err)

	stats, text := p.Report(context.Background())
	assert.Equal(t, "All good.", text)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Pending)

	p, _, _ = fixture(t, source, stubEnricher{err: errors.New("down")})
	_, text = p.Report(context.Background())
	assert.Equal(t, ReportUnavailable, text)
}
