package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/goran-ethernal/BBSCache/pkg/config"
)

// Reasons a read failed, used as the reason metric label.
const (
	reasonNetwork     = "network"
	reasonTimeout     = "timeout"
	reasonRateLimited = "rate_limited"
	reasonUnavailable = "unavailable"
	reasonCanceled    = "canceled"
	reasonOther       = "other"
)

var transientMarkers = []struct {
	reason  string
	needles []string
}{
	{reasonTimeout, []string{"timeout", "deadline exceeded"}},
	{reasonRateLimited, []string{"429", "too many requests", "rate limit"}},
	{reasonUnavailable, []string{"502", "503", "504", "bad gateway", "service unavailable", "gateway timeout"}},
	{reasonNetwork, []string{"connection pool", "no available connection", "connection reset"}},
}

// classify returns the failure reason of err and whether retrying the same call may succeed.
// "too many results" answers are permanent here: the caller narrows the range instead.
func classify(err error) (reason string, transient bool) {
	switch {
	case err == nil:
		return "", false
	case errors.Is(err, context.Canceled):
		return reasonCanceled, false
	case errors.Is(err, context.DeadlineExceeded):
		return reasonTimeout, true
	}

	if tooMany, _ := IsTooManyResultsError(err); tooMany {
		return reasonOther, false
	}

	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return reasonNetwork, true
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		for _, needle := range m.needles {
			if strings.Contains(msg, needle) {
				return m.reason, true
			}
		}
	}

	return reasonOther, false
}

// backoff returns the wait before attempt (1-based): nothing before the first attempt, then
// InitialBackoff growing by BackoffMultiplier, capped at MaxBackoff, with +-25% jitter.
func backoff(attempt int, cfg *config.RetryConfig) time.Duration {
	if attempt <= 1 {
		return 0
	}

	d := float64(cfg.InitialBackoff.Duration) * math.Pow(cfg.BackoffMultiplier, float64(attempt-2))
	d = math.Min(d, float64(cfg.MaxBackoff.Duration))
	d += d * 0.25 * (2*rand.Float64() - 1)

	return time.Duration(math.Max(d, 0))
}

// withRetry runs fn until it succeeds, fails permanently, ctx ends or cfg.MaxAttempts is reached.
// A nil cfg runs fn exactly once.
func withRetry(ctx context.Context, cfg *config.RetryConfig, method string, fn func() error) error {
	if cfg == nil {
		return fn()
	}

	start := time.Now()
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if wait := backoff(attempt, cfg); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("%s: cancelled while backing off after attempt %d/%d: %w",
					method, attempt-1, cfg.MaxAttempts, errors.Join(ctx.Err(), lastErr))
			}
			RPCRetryInc(method)
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: cancelled before attempt %d: %w", method, attempt, err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if _, transient := classify(lastErr); !transient {
			return lastErr
		}
	}

	return fmt.Errorf("%s: %d attempts failed in %v: %w",
		method, cfg.MaxAttempts, time.Since(start).Round(time.Millisecond), lastErr)
}
