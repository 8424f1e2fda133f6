package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/beanstalk/internal/logger"
	"github.com/MrSnakeDoc/beanstalk/internal/metrics"
)

// DefaultExpiryInterval is used when the configured interval is not positive.
const DefaultExpiryInterval = time.Hour

// Expirer re-validates a streak against the given time.
type Expirer interface {
	Expire(ctx context.Context, now time.Time) bool
}

// StreakExpiry zeroes a lapsed streak in a long-running process, which
// otherwise only validates the streak when it loads.
type StreakExpiry struct {
	journal  Expirer
	logger   logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewStreakExpiry creates a new expiry scheduler
func NewStreakExpiry(
	journal Expirer,
	log logger.Logger,
	m *metrics.Metrics,
	now func() time.Time,
	interval time.Duration,
) *StreakExpiry {
	if interval <= 0 {
		interval = DefaultExpiryInterval
	}
	if now == nil {
		now = time.Now
	}

	return &StreakExpiry{
		journal:  journal,
		logger:   log,
		metrics:  m,
		now:      now,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs a check immediately, then every interval until Stop or ctx ends.
func (s *StreakExpiry) Start(ctx context.Context) {
	s.Run(ctx)

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Run(ctx)
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the scheduler. It is safe to call more than once.
func (s *StreakExpiry) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Run performs one check and reports whether the streak was reset.
func (s *StreakExpiry) Run(ctx context.Context) bool {
	s.metrics.Expired()

	if !s.journal.Expire(ctx, s.now()) {
		s.logger.Debug("streak still current")
		return false
	}
	s.logger.Info("lapsed streak reset by scheduler")
	return true
}
