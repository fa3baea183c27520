// Package refresh runs the background ingestion cycle that keeps the
// published resource index in sync with the spreadsheet.
package refresh

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
	"github.com/pfial/atlas-resource-bot/internal/resource"
	"github.com/pfial/atlas-resource-bot/internal/sheets"
)

// Scheduler periodically rebuilds the resource index from the source
// and installs it into the store. A failed cycle leaves the previously
// published snapshot untouched and the next attempt happens one full
// interval later.
type Scheduler struct {
	source       sheets.Source
	store        *resource.Store
	cacheDir     string
	interval     time.Duration
	fetchTimeout time.Duration
	log          *logger.Logger
	metrics      *metrics.Metrics
	group        singleflight.Group
}

// NewScheduler creates a scheduler. It does not start any goroutines.
func NewScheduler(
	source sheets.Source,
	store *resource.Store,
	cacheDir string,
	interval, fetchTimeout time.Duration,
	log *logger.Logger,
	m *metrics.Metrics,
) *Scheduler {
	return &Scheduler{
		source:       source,
		store:        store,
		cacheDir:     cacheDir,
		interval:     interval,
		fetchTimeout: fetchTimeout,
		log:          log.WithModule("refresh"),
		metrics:      m,
	}
}

// Start launches the refresh loop. It refreshes once immediately, then
// on every interval tick until ctx is cancelled. The returned channel
// closes when the loop has fully stopped.
func (s *Scheduler) Start(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	go func() {
		defer close(done)

		s.log.WithField("interval", s.interval.String()).Info("Refresh loop started")
		s.runOnce(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.log.Info("Refresh loop stopped")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return done
}

// TriggerNow runs one refresh cycle outside the schedule. Concurrent
// triggers collapse into a single in-flight cycle.
func (s *Scheduler) TriggerNow(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		return nil, s.refresh(ctx)
	})
	return err
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.TriggerNow(ctx); err != nil && ctx.Err() == nil {
		s.log.WithError(err).Error("Refresh cycle failed")
	}
}

// refresh performs one full cycle: fetch every sheet, build a fresh
// index, persist it, and swap it in. Per-sheet failures only cost that
// sheet's contribution; a cycle where nothing could be ingested at all
// fails without touching the published snapshot.
func (s *Scheduler) refresh(ctx context.Context) error {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	names, err := s.source.SheetNames(ctx)
	if err != nil {
		s.metrics.RefreshCyclesTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("list sheets: %w", err)
	}

	builder := resource.NewBuilder(s.log)
	ingested := 0
	failed := 0

	for _, name := range names {
		if resource.IsTemplateSheet(name) {
			s.metrics.SheetsIngestedTotal.WithLabelValues("skipped").Inc()
			continue
		}

		rows, err := s.source.Rows(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				s.metrics.RefreshCyclesTotal.WithLabelValues("error").Inc()
				return fmt.Errorf("fetch sheet %s: %w", name, err)
			}
			s.log.WithError(err).WithField("sheet", name).Warn("Sheet fetch failed, skipping")
			s.metrics.SheetsIngestedTotal.WithLabelValues("error").Inc()
			failed++
			continue
		}

		if err := builder.AddSheet(name, rows); err != nil {
			s.log.WithError(err).WithField("sheet", name).Warn("Sheet malformed, skipping")
			s.metrics.SheetsIngestedTotal.WithLabelValues("error").Inc()
			failed++
			continue
		}

		s.metrics.SheetsIngestedTotal.WithLabelValues("success").Inc()
		ingested++
	}

	// A cycle that ingested nothing must never swap an empty index over
	// live data. An empty or template-only listing means the spreadsheet
	// metadata is broken, not that the world has no resources.
	if ingested == 0 {
		s.metrics.RefreshCyclesTotal.WithLabelValues("error").Inc()
		if failed > 0 {
			return fmt.Errorf("all %d sheets failed", failed)
		}
		return fmt.Errorf("no data sheets listed")
	}

	idx := builder.Build()

	if err := resource.SaveCache(s.cacheDir, idx); err != nil {
		// The new snapshot still goes live; only the next restart
		// misses it.
		s.log.WithError(err).Warn("Cache write failed")
	}

	s.store.Install(idx)

	s.metrics.RefreshCyclesTotal.WithLabelValues("success").Inc()
	s.metrics.RefreshDurationSeconds.Observe(time.Since(start).Seconds())
	s.log.WithFields(map[string]any{
		"sheets_ingested": ingested,
		"sheets_failed":   failed,
		"duration":        time.Since(start).String(),
	}).Info("Refresh cycle completed")

	return nil
}
