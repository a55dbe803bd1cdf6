package opencorp

import (
	"context"
	"time"

	"github.com/mazen160/go-random"
)

// Throttle is the courtesy delay inserted between successive requests
// during multi-page or multi-officer traversal. It is a fixed spacing,
// not a token bucket: deterministic when Jitter is zero.
type Throttle struct {
	Delay  time.Duration
	Jitter time.Duration
}

// Wait blocks for the configured delay (plus up to Jitter of random
// slack) or until the context is cancelled.
func (t Throttle) Wait(ctx context.Context) error {
	delay := t.Delay
	if t.Jitter > 0 {
		ms, err := random.IntRange(0, int(t.Jitter.Milliseconds())+1)
		if err == nil {
			delay += time.Duration(ms) * time.Millisecond
		}
	}
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
