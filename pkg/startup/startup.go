// Package startup retries collaborator connections with fibonacci backoff.
package startup

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"
)

// Connect runs fn until it succeeds or maxAttempts is exhausted, waiting a
// fibonacci number of seconds between attempts.
func Connect(ctx context.Context, logger ectologger.Logger, name string, maxAttempts int, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	a, b := 1, 1
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		logger.WithField("dependency", name).Infof("Connecting to '%s' (attempt %d/%d)", name, attempt, maxAttempts)

		if err := fn(ctx); err != nil {
			lastErr = err
			logger.WithError(err).Errorf("Dependency '%s' attempt %d failed", name, attempt)
		} else {
			return nil
		}

		if attempt == maxAttempts {
			break
		}

		logger.Infof("Retrying '%s' in %d seconds", name, a)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(a) * time.Second):
		}
		a, b = b, a+b
	}

	return fmt.Errorf("failed to connect to %s after %d attempts: %w", name, maxAttempts, lastErr)
}
