// Package enrichment runs the background rewrite pass over unenriched items.
package enrichment

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"

	"SportsFeed/internal/config"
	"SportsFeed/internal/domain"
	"SportsFeed/internal/infrastructure/metrics"
	"SportsFeed/internal/ports"
)

// PlaceholderSummary replaces the short body when the rewrite call fails.
const PlaceholderSummary = "Content is being prepared..."

const placeholderArticle = "<p>%s</p><p><em>Details coming soon...</em></p>"

// Options tunes a pass.
type Options struct {
	BatchSize     int
	Delay         time.Duration
	FailurePolicy string
}

// Worker processes at most one pass at a time. A trigger while a pass is
// active is dropped.
type Worker struct {
	store    ports.ContentStore
	enricher ports.Enricher
	tagger   ports.Tagger
	opts     Options
	logger   *slog.Logger

	running atomic.Bool
	wg      sync.WaitGroup
}

var _ ports.Trigger = (*Worker)(nil)

// NewWorker wires the worker. A zero batch size means 3.
func NewWorker(store ports.ContentStore, enricher ports.Enricher, tagger ports.Tagger, opts Options, logger *slog.Logger) *Worker {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 3
	}
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = config.FailurePlaceholder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:    store,
		enricher: enricher,
		tagger:   tagger,
		opts:     opts,
		logger:   logger.With("component", "enrichment"),
	}
}

// Trigger starts a pass in the background and reports whether it did. The
// pass is not tied to any request context and runs to completion.
func (w *Worker) Trigger(items []domain.ContentItem) bool {
	if !w.acquire() {
		w.logger.Debug("pass already running, trigger ignored")
		return false
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.release()
		w.pass(context.Background(), items)
	}()
	return true
}

// Run executes a pass synchronously. It returns the number of items handled
// and false when another pass was already active.
func (w *Worker) Run(ctx context.Context, items []domain.ContentItem) (int, bool) {
	if !w.acquire() {
		return 0, false
	}
	defer w.release()
	return w.pass(ctx, items), true
}

// Running reports whether a pass is active.
func (w *Worker) Running() bool {
	return w.running.Load()
}

// Wait blocks until background passes started by Trigger have finished.
func (w *Worker) Wait() {
	w.wg.Wait()
}

func (w *Worker) acquire() bool {
	if !w.running.CompareAndSwap(false, true) {
		return false
	}
	metrics.WorkerRunning.Set(1)
	return true
}

func (w *Worker) release() {
	metrics.WorkerRunning.Set(0)
	w.running.Store(false)
}

// pass takes its candidates from items but enriches the stored record. Items
// already processed in the store, or no longer in it, are skipped.
func (w *Worker) pass(ctx context.Context, items []domain.ContentItem) int {
	stored := lo.KeyBy(w.store.Read(ctx), func(item domain.ContentItem) string { return item.ID })
	pending := lo.FilterMap(items, func(item domain.ContentItem, _ int) (domain.ContentItem, bool) {
		current, ok := stored[item.ID]
		return current, ok && !current.IsProcessed
	})
	queue := lo.Subset(pending, 0, uint(w.opts.BatchSize))
	if len(queue) == 0 {
		return 0
	}

	w.logger.Info("enrichment pass started", "queued", len(queue), "pending", len(pending))
	done := 0
	for i, item := range queue {
		if i > 0 && !w.sleep(ctx) {
			w.logger.Info("enrichment pass interrupted", "done", done)
			return done
		}
		w.enrich(ctx, item)
		done++
	}
	w.logger.Info("enrichment pass finished", "done", done)
	return done
}

func (w *Worker) enrich(ctx context.Context, item domain.ContentItem) {
	outcome := domain.OutcomeEnriched
	rewrite, err := w.enricher.Rewrite(ctx, item.Title, item.OriginalContent)
	if err != nil {
		w.logger.Warn("rewrite failed, using placeholder", "id", item.ID, "error", err)
		rewrite = Fallback(item)
		outcome = domain.OutcomePlaceholder
	}

	item.Title = rewrite.Title
	item.AIContent = rewrite.Summary
	if w.tagger != nil {
		item.AIContent = w.tagger.Tag(rewrite.Summary)
	}
	item.FullArticle = rewrite.FullArticle
	item.IsProcessed = outcome == domain.OutcomeEnriched || w.opts.FailurePolicy != config.FailureRetry

	metrics.Enrichments.WithLabelValues(string(outcome)).Inc()
	if err := w.store.UpdateOne(ctx, item); err != nil {
		w.logger.Warn("store update failed", "id", item.ID, "error", err)
		return
	}
	w.logger.Debug("item enriched", "id", item.ID, "outcome", outcome)
}

func (w *Worker) sleep(ctx context.Context) bool {
	if w.opts.Delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(w.opts.Delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Fallback keeps the original title and wraps the original text in a
// minimal article shell.
func Fallback(item domain.ContentItem) domain.Rewrite {
	return domain.Rewrite{
		Title:       item.Title,
		Summary:     PlaceholderSummary,
		FullArticle: fmt.Sprintf(placeholderArticle, html.EscapeString(item.OriginalContent)),
	}
}
