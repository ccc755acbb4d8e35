package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"SportsFeed/internal/domain"
	"SportsFeed/internal/normalize"
	"SportsFeed/internal/ports"
)

// Fallback texts returned when the generation capability is unavailable.
const (
	AnalysisBusy        = "Analysis service is busy right now."
	AnalysisUnavailable = "Analysis is not available right now."
	ReportUnavailable   = "Report could not be generated."
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source         ports.FeedSource
	Normalizer     *normalize.Normalizer
	Store          ports.ContentStore
	Trigger        ports.Trigger
	Enricher       ports.Enricher
	Endpoints      []string
	ScoreEndpoints []string
	Logger         *slog.Logger
}

// Pipeline implements the fetch, merge and enrich workflow.
type Pipeline struct {
	source         ports.FeedSource
	normalizer     *normalize.Normalizer
	store          ports.ContentStore
	trigger        ports.Trigger
	enricher       ports.Enricher
	endpoints      []string
	scoreEndpoints []string
	logger         *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	normalizer := deps.Normalizer
	if normalizer == nil {
		normalizer = normalize.New(nil)
	}
	return &Pipeline{
		source:         deps.Source,
		normalizer:     normalizer,
		store:          deps.Store,
		trigger:        deps.Trigger,
		enricher:       deps.Enricher,
		endpoints:      deps.Endpoints,
		scoreEndpoints: deps.ScoreEndpoints,
		logger:         logger.With("component", "pipeline"),
	}
}

// Stored returns the persisted collection without fetching.
func (p *Pipeline) Stored(ctx context.Context) []domain.ContentItem {
	return p.store.Read(ctx)
}

// Refresh fetches every content endpoint, merges the result into the store
// and hands the merged list to the enrichment trigger. The returned list is
// read-ready before enrichment finishes. A fetch that yields nothing leaves
// the store untouched. A persist failure is returned together with the
// merged list, which is still usable.
func (p *Pipeline) Refresh(ctx context.Context) ([]domain.ContentItem, error) {
	entries := p.fetch(ctx, p.endpoints)
	fresh := p.normalizer.Content(entries)
	if len(fresh) == 0 {
		p.logger.Warn("refresh produced no items, keeping stored collection", "endpoints", len(p.endpoints))
		return p.store.Read(ctx), nil
	}

	merged, err := p.store.Merge(ctx, fresh)
	if err != nil {
		err = fmt.Errorf("merge fetched items: %w", err)
		p.logger.Warn("store merge failed", "error", err)
	}

	started := false
	if p.trigger != nil {
		started = p.trigger.Trigger(merged)
	}
	p.logger.Info("refresh complete", "fetched", len(fresh), "stored", len(merged), "enrichment_started", started)
	return merged, err
}

// Scores fetches the score endpoints and parses fixtures and results. Scores
// are never persisted.
func (p *Pipeline) Scores(ctx context.Context) []domain.ScoreItem {
	scores := p.normalizer.Scores(p.fetch(ctx, p.scoreEndpoints))
	p.logger.Debug("scores parsed", "count", len(scores))
	return scores
}

// Analyze returns a short commentary for score. Failures degrade to a fixed
// text and never touch the store.
func (p *Pipeline) Analyze(ctx context.Context, score domain.ScoreItem) string {
	if p.enricher == nil {
		return AnalysisUnavailable
	}
	text, err := p.enricher.AnalyzeMatch(ctx, score)
	if err != nil {
		p.logger.Warn("match analysis failed", "home", score.HomeTeam, "away", score.AwayTeam, "error", err)
		return AnalysisBusy
	}
	if strings.TrimSpace(text) == "" {
		return AnalysisUnavailable
	}
	return text
}

// Report summarizes the stored collection through the generation capability.
func (p *Pipeline) Report(ctx context.Context) (domain.StoreStats, string) {
	stats := p.store.Stats(ctx)
	if p.enricher == nil {
		return stats, ReportUnavailable
	}
	text, err := p.enricher.Report(ctx, stats)
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			p.logger.Warn("report generation failed", "error", err)
		}
		return stats, ReportUnavailable
	}
	return stats, text
}

func (p *Pipeline) fetch(ctx context.Context, endpoints []string) []domain.FeedEntry {
	if p.source == nil || len(endpoints) == 0 {
		return nil
	}
	return p.source.Fetch(ctx, endpoints)
}
