// Package retry provides exponential backoff for calls to external
// collaborators, mainly the hosted auth provider.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/membership-service/internal/logging"
)

// Config configures retry behavior.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultConfig returns the retry configuration used for auth provider
// calls. Pattern: 500ms, 1s, 2s.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// Do executes fn with exponential backoff, returning nil on the first
// success or the last error once attempts are exhausted or the context is
// cancelled.
func Do(ctx context.Context, config *Config, fn func(ctx context.Context) error) error {
	logger := logging.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			if attempt > 1 {
				logger.WithField("attempts", attempt).Info("Operation succeeded after retry")
			}
			return nil
		}

		if attempt >= config.MaxAttempts {
			break
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-time.After(delay(config, attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return lastErr
}

func delay(config *Config, attempt int) time.Duration {
	d := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	if d > float64(config.MaxDelay) {
		d = float64(config.MaxDelay)
	}
	return time.Duration(d)
}
