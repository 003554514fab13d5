package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/oneclicklabs/oneclick-access/internal/access/store"
)

// DefaultProofRetention is how long resolved proof submissions are kept
// before housekeeping removes them.
const DefaultProofRetention = 90 * 24 * time.Hour

// HousekeepingService periodically prunes resolved proof submissions so the
// audit table does not grow without bound. Entitlements and bindings are
// deliberately never touched: expiry is lazy and slugs are permanent.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a housekeeping service with the given
// interval. Zero values default to 1 hour and DefaultProofRetention.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval, retention time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}
	if retention <= 0 {
		retention = DefaultProofRetention
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Non-blocking; call Stop() to shut down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker. Blocks until any
// in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

func (s *HousekeepingService) cleanup() {
	ctx := context.Background()
	cutoff := time.Now().UTC().Add(-s.Retention)

	if err := s.Store.Proofs().DeleteResolvedProofsBefore(ctx, cutoff); err != nil {
		s.Logger.Error("failed to prune resolved proofs", "error", err)
		return
	}
	s.Logger.Debug("pruned resolved proofs", "cutoff", cutoff)
}
