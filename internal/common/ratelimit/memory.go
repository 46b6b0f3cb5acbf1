package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucketKey struct {
	identity string
	window   time.Time
}

// MemoryLimiter is a process-local fixed-window counter map. Adequate for
// a single-instance deployment; a horizontally scaled service should use
// RedisLimiter instead. Counters reset on process restart.
type MemoryLimiter struct {
	mu        sync.Mutex
	counts    map[bucketKey]int
	limit     int
	retention time.Duration
	now       func() time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewMemoryLimiter creates a limiter admitting up to perMinute requests per
// identity per calendar minute. Buckets older than retention are purged by
// a background sweep.
func NewMemoryLimiter(perMinute int, retention time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		counts:    make(map[bucketKey]int),
		limit:     perMinute,
		retention: retention,
		now:       time.Now,
		stop:      make(chan struct{}),
	}
	go l.sweepLoop()
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, identity string) (bool, time.Duration, error) {
	now := l.now()
	key := bucketKey{identity: identity, window: minuteBucket(now)}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.counts[key] >= l.limit {
		return false, untilNextMinute(now), nil
	}
	l.counts[key]++
	return true, 0, nil
}

func (l *MemoryLimiter) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops windows older than the retention horizon to bound memory.
func (l *MemoryLimiter) sweep() {
	cutoff := minuteBucket(l.now()).Add(-l.retention)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.counts {
		if key.window.Before(cutoff) {
			delete(l.counts, key)
		}
	}
}

// Stop terminates the background sweep.
func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
