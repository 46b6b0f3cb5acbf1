package ratelimit

import (
	"context"
	"time"
)

// Limiter admits or rejects a request for an identity. A rejection is a
// retryable condition, not an error: retryAfter is the earliest time the
// identity should try again.
type Limiter interface {
	Allow(ctx context.Context, identity string) (allowed bool, retryAfter time.Duration, err error)
}

// minuteBucket truncates a time to its calendar-minute window.
func minuteBucket(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// untilNextMinute returns the time remaining in t's minute bucket.
func untilNextMinute(t time.Time) time.Duration {
	return minuteBucket(t).Add(time.Minute).Sub(t)
}
