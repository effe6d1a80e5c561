package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dgallion1/docmerge/internal/delivery"
)

func TestIsRetryable(t *testing.T) {
	retryable := &delivery.RetryableError{StatusCode: 503, Message: "service unavailable"}

	if !IsRetryable(retryable) {
		t.Error("transport-level failures should be retryable")
	}
	if !IsRetryable(fmt.Errorf("deliver batch: %w", retryable)) {
		t.Error("wrapped retryable errors should still be retryable")
	}
	if IsRetryable(errors.New("merge field \"Name\" not found")) {
		t.Error("deterministic failures must not be retried")
	}
	if IsRetryable(nil) {
		t.Error("nil is not retryable")
	}
}

func TestBackoff_GrowsAndCaps(t *testing.T) {
	for attempt := 0; attempt < 8; attempt++ {
		d := Backoff(attempt)
		if d < time.Second {
			t.Errorf("attempt %d: backoff %v below base", attempt, d)
		}
		if d > 45*time.Second {
			t.Errorf("attempt %d: backoff %v above cap plus jitter", attempt, d)
		}
	}
	if Backoff(0) > 2*time.Second {
		t.Error("first backoff should stay near one second")
	}
}
