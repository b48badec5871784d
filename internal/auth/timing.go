package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// TimingConfig controls the delay applied to failed logins
type TimingConfig struct {
	BaseDelayMs    int
	RandomDelayMs  int
	DelayOnSuccess bool
}

// TimingDelay pads authentication attempts so that "unknown user" and
// "wrong password" take about the same time.
type TimingDelay struct {
	config TimingConfig
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config}
}

func (td *TimingDelay) target() time.Duration {
	d := time.Duration(td.config.BaseDelayMs) * time.Millisecond
	if td.config.RandomDelayMs > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(int64(td.config.RandomDelayMs))); err == nil {
			d += time.Duration(n.Int64()) * time.Millisecond
		}
	}
	return d
}

// WaitFrom sleeps until at least base+random has elapsed since start.
// It returns early when ctx is done.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time, success bool) {
	if success && !td.config.DelayOnSuccess {
		return
	}

	remaining := td.target() - time.Since(start)
	if remaining <= 0 {
		return
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
