package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/BradenHooton/tunevault/internal/metrics"
)

// Sweepable is a store that can drop its expired records
type Sweepable interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// SessionSweeper periodically removes expired sessions from the session store
type SessionSweeper struct {
	store    Sweepable
	metrics  *metrics.Metrics
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time
}

func NewSessionSweeper(store Sweepable, m *metrics.Metrics, logger *slog.Logger, interval time.Duration) *SessionSweeper {
	return &SessionSweeper{
		store:    store,
		metrics:  m,
		logger:   logger,
		interval: interval,
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until ctx is done.
// It always returns nil so it can run inside an errgroup.
func (s *SessionSweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sweep(ctx)

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-ctx.Done():
			s.logger.Info("session sweeper stopped")
			return nil
		}
	}
}

func (s *SessionSweeper) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	removed, err := s.store.Sweep(sweepCtx, s.now())
	if err != nil {
		s.logger.Error("session sweep failed", slog.Any("error", err))
		return
	}

	s.metrics.ObserveSweep(removed)
	if removed > 0 {
		s.logger.Info("expired sessions removed", slog.Int("count", removed))
	}
}
