package poll

import (
	"context"
	"errors"
	"time"
)

// ErrExhausted is returned when fn never reported done within maxAttempts.
var ErrExhausted = errors.New("poll: attempts exhausted")

// Until invokes fn up to maxAttempts times with a fixed interval between
// attempts. fn returns done=true to stop successfully; a non-nil error
// aborts immediately and is returned as-is. No backoff: the interval is
// constant so worst-case duration stays bounded and predictable.
func Until(ctx context.Context, interval time.Duration, maxAttempts int, fn func(context.Context) (bool, error)) error {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		done, err := fn(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if attempt == maxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return ErrExhausted
}
