package shortlink

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// Limiter admits chain writes one at a time, with consecutive dispatches at least
// minInterval apart. A single signer derives its nonce per transaction, so writes never overlap.
type Limiter struct {
	inFlight    *semaphore.Weighted
	spacing     *rate.Limiter
	minInterval time.Duration

	// onDispatch is called with every dispatch time while the slot is held
	onDispatch func(time.Time)
}

// NewLimiter creates a limiter spacing dispatches minInterval apart.
// A zero interval only serializes writes.
func NewLimiter(minInterval time.Duration) *Limiter {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}

	return &Limiter{
		inFlight:    semaphore.NewWeighted(1),
		spacing:     rate.NewLimiter(limit, 1),
		minInterval: minInterval,
	}
}

// NewLimiterFromConfig creates the limiter described by the short_link config section.
func NewLimiterFromConfig(cfg config.ShortLinkConfig) *Limiter {
	return NewLimiter(cfg.MinInterval.Duration)
}

// Do waits for its turn and runs fn. The wait is abandoned when ctx is done.
func (l *Limiter) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	start := time.Now()

	if err := l.inFlight.Acquire(ctx, 1); err != nil {
		return err
	}
	defer l.inFlight.Release(1)

	if err := l.dispatch(ctx); err != nil {
		return err
	}

	limiterWait.Observe(time.Since(start).Seconds())
	writesInFlight.Inc()
	defer writesInFlight.Dec()

	return fn(ctx)
}

func (l *Limiter) dispatch(ctx context.Context) error {
	if err := l.spacing.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		// rate refuses up front a wait that would outlive the deadline
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
		}
		return err
	}

	if l.onDispatch != nil {
		l.onDispatch(time.Now())
	}
	return nil
}
