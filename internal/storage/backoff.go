package storage

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted wraps the last error of a write that never succeeded.
var ErrRetriesExhausted = errors.New("retries exhausted")

// Backoff is the retry policy sinks apply to their writes. The delay starts
// at Base and doubles after each failure, up to Cap when Cap is set.
type Backoff struct {
	Retries int
	Base    time.Duration
	Cap     time.Duration
}

// Do calls write until it succeeds, the retries are spent or ctx ends.
func (b Backoff) Do(ctx context.Context, write func(context.Context) error) error {
	retries := b.Retries
	if retries < 0 {
		retries = 0
	}

	var err error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(b.Delay(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return fmt.Errorf("retry after %d attempts: %w", attempt, ctx.Err())
			case <-timer.C:
			}
		}
		if err = write(ctx); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, retries+1, err)
}

// Delay returns the wait before the given attempt; attempt 0 never waits.
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	delay := b.Base
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	for i := 1; i < attempt; i++ {
		delay *= 2
		if b.Cap > 0 && delay >= b.Cap {
			return b.Cap
		}
	}
	if b.Cap > 0 && delay > b.Cap {
		return b.Cap
	}
	return delay
}
