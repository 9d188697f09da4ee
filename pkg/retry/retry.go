// Package retry runs a single external call with bounded, backed-off retries.
package retry

import (
	"context"
	"errors"
	"time"
)

type Config struct {
	// MaxAttempts counts the first call. Values below 1 mean a single attempt.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	// ShouldRetry classifies errors as transient. Nil retries everything.
	ShouldRetry func(err error) bool
}

// OneRetry is the policy used for collaborator calls: the first attempt plus one retry.
var OneRetry = Config{
	MaxAttempts:  2,
	InitialDelay: 300 * time.Millisecond,
	MaxDelay:     2 * time.Second,
}

// Do calls fn until it succeeds, the attempts run out, ShouldRetry rejects the
// error, or ctx is done. The last error is returned.
func Do(ctx context.Context, cfg Config, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = OneRetry.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = OneRetry.MaxDelay
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = func(error) bool { return true }
	}

	delay := cfg.InitialDelay
	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Join(lastErr, err)
		}

		lastErr = fn(ctx)
		if lastErr == nil || !shouldRetry(lastErr) {
			return lastErr
		}

		if attempt < cfg.MaxAttempts {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return errors.Join(lastErr, ctx.Err())
			case <-timer.C:
			}
			delay *= 2
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return lastErr
}
