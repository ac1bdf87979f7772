package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/storefront/internal/pkg/resilience"
)

// CartSyncer reloads the tracked cart from the order service.
type CartSyncer interface {
	SyncCart(ctx context.Context) error
}

// CartSynchronizer periodically refreshes the cached cart so changes made in
// other sessions, such as a checkout, reach every view.
type CartSynchronizer struct {
	syncer   CartSyncer
	interval time.Duration
	logger   *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewCartSynchronizer constructs the synchronizer.
func NewCartSynchronizer(syncer CartSyncer, interval time.Duration, logger *slog.Logger) *CartSynchronizer {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &CartSynchronizer{syncer: syncer, interval: interval, logger: logger}
}

// Start launches the background loop. Calling Start twice is a no-op.
func (s *CartSynchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(runCtx)
}

// Stop ends the loop and waits for an in-flight sync to finish.
func (s *CartSynchronizer) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}

func (s *CartSynchronizer) run(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sync(ctx)
		}
	}
}

func (s *CartSynchronizer) sync(ctx context.Context) {
	err := s.syncer.SyncCart(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
	case resilience.IsOpen(err):
		s.logger.Warn("cart sync skipped, order service unavailable", slog.String("error", err.Error()))
	default:
		s.logger.Error("cart sync failed", slog.String("error", err.Error()))
	}
}
