package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"SportsFeed/internal/cache"
	"SportsFeed/internal/config"
	"SportsFeed/internal/enrichment"
	"SportsFeed/internal/entity"
	"SportsFeed/internal/infrastructure/feed"
	"SportsFeed/internal/infrastructure/llm"
	"SportsFeed/internal/infrastructure/scheduler"
	"SportsFeed/internal/infrastructure/storage"
	"SportsFeed/internal/logging"
	"SportsFeed/internal/normalize"
	"SportsFeed/internal/ports"
	"SportsFeed/internal/server"
	"SportsFeed/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	logger    *slog.Logger
	state     ports.StateStore
	store     *cache.Manager
	worker    *enrichment.Worker
	resolver  *entity.Resolver
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	closers   []io.Closer
}

// New builds the application from configuration.
func New(ctx context.Context, cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	a := &Application{cfg: cfg, logger: baseLogger}

	state, err := a.openState(ctx)
	if err != nil {
		return nil, err
	}
	a.state = state

	a.store = cache.NewManager(state, cache.Options{
		Key:       cfg.Storage.Key,
		Retention: cfg.Cache.Retention,
		Capacity:  cfg.Cache.Capacity,
	}, baseLogger)

	gateway, err := newGateway(cfg.Gateway)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	fetcher := feed.NewFetcher(gateway, cfg.Gateway.Timeout, baseLogger)

	a.resolver = entity.NewResolver(cfg.Entities)
	enricher := llm.NewClient(cfg.LLM, nil, baseLogger)
	if cfg.LLM.APIKey == "" {
		baseLogger.Warn("no llm api key configured, enrichment will produce placeholders")
	}

	a.worker = enrichment.NewWorker(a.store, enricher, a.resolver, enrichment.Options{
		BatchSize:     cfg.Enrichment.BatchSize,
		Delay:         cfg.Enrichment.Delay,
		FailurePolicy: cfg.Enrichment.FailurePolicy,
	}, baseLogger)

	a.pipeline = usecase.NewPipeline(usecase.PipelineDeps{
		Source:         fetcher,
		Normalizer:     normalize.New(nil),
		Store:          a.store,
		Trigger:        a.worker,
		Enricher:       enricher,
		Endpoints:      cfg.FeedURLs(),
		ScoreEndpoints: cfg.ScoreFeedURLs(),
		Logger:         baseLogger,
	})

	if cfg.Scheduler.Enabled {
		a.scheduler = usecase.NewScheduler(scheduler.NewTickerScheduler(cfg.Scheduler.Interval), a.pipeline, baseLogger)
	}

	return a, nil
}

// Pipeline exposes the orchestration use case to one-shot commands.
func (a *Application) Pipeline() *usecase.Pipeline {
	return a.pipeline
}

// Worker exposes the enrichment worker so one-shot commands can wait for it.
func (a *Application) Worker() *enrichment.Worker {
	return a.worker
}

// Serve runs the HTTP API and, when enabled, the refresh scheduler until ctx
// is cancelled. A running enrichment pass is awaited before returning.
func (a *Application) Serve(ctx context.Context) error {
	if a.scheduler != nil {
		if err := a.scheduler.Start(ctx); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		a.logger.Info("auto refresh enabled", "interval", a.cfg.Scheduler.Interval)
	}

	srv := server.New(a.pipeline, a.resolver, a.logger)
	err := srv.Run(ctx, a.cfg.Server.Addr)

	if a.scheduler != nil {
		if stopErr := a.scheduler.Stop(context.Background()); stopErr != nil {
			a.logger.Warn("scheduler stop failed", "error", stopErr)
		}
	}
	a.worker.Wait()
	return err
}

// Close releases storage connections.
func (a *Application) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *Application) openState(ctx context.Context) (ports.StateStore, error) {
	cfg := a.cfg.Storage
	switch cfg.Driver {
	case "memory":
		return storage.NewMemoryStore(), nil
	case "file", "":
		return storage.NewFileStore(cfg.DSN)
	case storage.DriverSQLite, storage.DriverPostgres:
		db, err := storage.OpenSQL(ctx, cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db)
		return db, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func newGateway(cfg config.GatewayConfig) (ports.Gateway, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Kind {
	case "allorigins", "":
		return feed.NewAllOriginsGateway(cfg.ProxyURL, client), nil
	case "direct":
		return feed.NewDirectGateway(client), nil
	default:
		return nil, fmt.Errorf("unknown gateway kind %q", cfg.Kind)
	}
}
