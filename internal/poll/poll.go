// Package poll runs the fixed-interval refresh loops: the daily call
// stats aggregate and the plan reconciliation poll. Intervals are not
// coordinated with in-flight user actions; reconciliation relies on
// the queue's last-outcome-wins-by-timestamp rule to keep a stale poll
// response from clobbering newer local state.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/veldt/callsheet/internal/crm"
	"github.com/veldt/callsheet/internal/models"
	"github.com/veldt/callsheet/internal/queue"
)

// DefaultInterval matches the dashboard's refresh cadence.
const DefaultInterval = 60 * time.Second

// Stats polls the read-only call aggregate and caches the last good
// snapshot. A fetch failure keeps the previous snapshot; there is no
// backoff or retry beyond the next tick.
type Stats struct {
	backend  crm.Backend
	interval time.Duration
	notify   func(models.CallStats)

	mu     sync.Mutex
	last   *models.CallStats
	lastAt time.Time
}

// NewStats creates a stats poller. notify, if non-nil, is invoked on
// every successful refresh.
func NewStats(backend crm.Backend, interval time.Duration, notify func(models.CallStats)) *Stats {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Stats{backend: backend, interval: interval, notify: notify}
}

// Run polls until ctx is done. An immediate first fetch primes the
// cache before the ticker takes over.
func (s *Stats) Run(ctx context.Context, logger *slog.Logger) {
	s.refresh(ctx, logger)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refresh(ctx, logger)
		}
	}
}

func (s *Stats) refresh(ctx context.Context, logger *slog.Logger) {
	stats, err := s.backend.FetchCallStatsToday(ctx)
	if err != nil {
		logger.Warn("stats poll failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.last = stats
	s.lastAt = time.Now()
	s.mu.Unlock()
	if s.notify != nil {
		s.notify(*stats)
	}
}

// Last returns the most recent good snapshot and its fetch time.
func (s *Stats) Last() (*models.CallStats, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return nil, time.Time{}, false
	}
	cp := *s.last
	return &cp, s.lastAt, true
}

// Plan re-fetches the day plan on a fixed interval and reconciles it
// into the work queue.
type Plan struct {
	backend  crm.Backend
	store    *queue.Store
	interval time.Duration
}

// NewPlan creates a plan reconciliation poller.
func NewPlan(backend crm.Backend, store *queue.Store, interval time.Duration) *Plan {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Plan{backend: backend, store: store, interval: interval}
}

// Run polls until ctx is done.
func (p *Plan) Run(ctx context.Context, logger *slog.Logger) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			contacts, err := p.backend.FetchTodayPlan(ctx)
			if err != nil {
				logger.Warn("plan poll failed", slog.String("error", err.Error()))
				continue
			}
			p.store.Reconcile(contacts)
			logger.Debug("plan reconciled", slog.Int("contacts", len(contacts)))
		}
	}
}
