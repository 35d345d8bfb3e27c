// Package retry provides a bounded fixed-delay retry policy.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
}

// DefaultConfig returns the policy used for batched API calls:
// three attempts with a two second pause between them.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Backoff:     2 * time.Second,
	}
}

// ErrorClassifier determines if an error is retryable.
type ErrorClassifier func(error) bool

// IsRetryable is the default classifier. Context errors are permanent;
// everything else is retried.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// AttemptsError reports that all attempts were exhausted.
type AttemptsError struct {
	Attempts int
	Err      error
}

func (e *AttemptsError) Error() string {
	return fmt.Sprintf("failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *AttemptsError) Unwrap() error { return e.Err }

// Do executes fn up to cfg.MaxAttempts times, sleeping cfg.Backoff between
// attempts. A nil classifier falls back to IsRetryable. Errors the classifier
// marks permanent abort immediately and are returned unwrapped, so callers
// can still match them with errors.Is.
func Do(ctx context.Context, cfg Config, classifier ErrorClassifier, fn func(context.Context) error) error {
	if classifier == nil {
		classifier = IsRetryable
	}
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err
		if !classifier(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-time.After(cfg.Backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return &AttemptsError{Attempts: attempts, Err: lastErr}
}
