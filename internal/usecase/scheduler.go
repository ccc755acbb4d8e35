package usecase

import (
	"context"
	"log/slog"
	"time"

	"SportsFeed/internal/ports"
)

// Scheduler wires the ticker driver with the refresh use case.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop automatic refreshes.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger.With("component", "scheduler")}
}

// Start registers Refresh with the driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		items, err := s.pipeline.Refresh(ctx)
		if err != nil {
			s.logger.Warn("scheduled refresh failed", "at", trigger, "error", err)
			return
		}
		s.logger.Info("scheduled refresh", "at", trigger, "stored", len(items))
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
