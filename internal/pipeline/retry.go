package pipeline

import (
	"errors"
	"math/rand"
	"time"

	"github.com/dgallion1/docmerge/internal/delivery"
)

// Only delivery is retried: merging and composition are deterministic, so a
// failure there will not change on a second attempt.

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *delivery.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3
