package api

import (
	"context"
	"time"

	"github.com/tutor-web/quizclient/internal/lecture"
)

// Retry re-runs an operation on network failure. Non-network errors
// (auth, not-found, quota) are returned immediately, since retrying
// them cannot help.
type Retry struct {
	// Attempts is the total number of tries, including the first.
	Attempts int

	// Backoff is the pause between tries.
	Backoff time.Duration
}

// Do runs fn until it succeeds, fails with a non-network error, or the
// attempts run out.
func (r Retry) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if i > 0 && r.Backoff > 0 {
			select {
			case <-time.After(r.Backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		err = fn(ctx)
		if err == nil || !lecture.IsNetworkError(err) {
			return err
		}
	}
	return err
}
