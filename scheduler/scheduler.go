// Package scheduler drives the periodic remedy catalog refresh. It performs
// the initial load, re-runs the refresh at the configured times of day and
// warns when the snapshot has gone stale.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/fernheilpraxis/clinic-api/interfaces"
	"github.com/fernheilpraxis/clinic-api/logging"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements the Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const staleAfter = 25 * time.Hour

// Scheduler refreshes the catalog on a daily schedule.
type Scheduler struct {
	catalog   interfaces.CatalogIndex
	scheduler *gocron.Scheduler
	refreshAt string
	done      chan struct{}
}

// NewScheduler creates a scheduler that refreshes the given catalog at the
// configured times, e.g. "06:00;18:00".
func NewScheduler(catalog interfaces.CatalogIndex, refreshAt string) *Scheduler {
	return &Scheduler{
		catalog:   catalog,
		scheduler: gocron.NewScheduler(time.Local),
		refreshAt: refreshAt,
		done:      make(chan struct{}),
	}
}

// Start performs the initial catalog load and schedules the daily refreshes.
func (s *Scheduler) Start() error {
	if err := s.refresh(); err != nil {
		logging.Error("Failed to perform initial catalog load", "error", err)
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.refreshAt).Do(func() {
		if err := s.refresh(); err != nil {
			logging.Error("Failed to refresh catalog", "error", err)
		}
	})
	if err != nil {
		logging.Error("Failed to schedule catalog refreshes", "error", err)
		return fmt.Errorf("failed to schedule refreshes: %w", err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitoring()

	return nil
}

// Stop stops the scheduler and the staleness monitor.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.done)
}

func (s *Scheduler) refresh() error {
	logging.Info("Starting catalog refresh", "at", time.Now().Format(time.RFC3339))
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.catalog.Refresh(ctx); err != nil {
		return err
	}

	logging.Info("Catalog refresh completed",
		"duration", time.Since(start).String(),
		"remedy_count", s.catalog.Size())
	return nil
}

// startStalenessMonitoring warns when the snapshot misses a refresh cycle.
func (s *Scheduler) startStalenessMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				lastUpdate := s.catalog.LastUpdated()
				if time.Since(lastUpdate) > staleAfter {
					logging.Warn("Catalog hasn't been refreshed in over 25 hours",
						"last_updated", lastUpdate.Format(time.RFC3339))
				}
			}
		}
	}()
}
