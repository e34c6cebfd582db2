package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether the caller identified by key may proceed.
type RateLimiter interface {
	Allow(key string) bool
}

// clientBucket is the token bucket of one "scope:client-ip" key.
type clientBucket struct {
	tokens   *rate.Limiter
	lastUsed time.Time
}

// clientLimiter gives every scoped client key its own token bucket. Handlers build
// keys such as "upload:203.0.113.7", so one client exhausting its upload quota can
// still call the moderation functions. Buckets idle for longer than idle are dropped
// at most once per idle period.
type clientLimiter struct {
	every     rate.Limit
	burst     int
	idle      time.Duration
	now       func() time.Time
	mu        sync.Mutex
	buckets   map[string]*clientBucket
	lastSweep time.Time
}

// PerMinute returns the limiter guarding uploads and moderation functions: perMinute
// requests per client and scope, with a burst of the same size. Non-positive values
// disable limiting and yield nil.
func PerMinute(perMinute int) RateLimiter {
	if perMinute <= 0 {
		return nil
	}
	return newClientLimiter(perMinute, time.Minute, 10*time.Minute)
}

func newClientLimiter(perWindow int, window, idle time.Duration) *clientLimiter {
	if perWindow <= 0 {
		perWindow = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	if idle <= 0 {
		idle = 10 * time.Minute
	}

	return &clientLimiter{
		every:   rate.Every(window / time.Duration(perWindow)),
		burst:   perWindow,
		idle:    idle,
		now:     time.Now,
		buckets: make(map[string]*clientBucket),
	}
}

func (l *clientLimiter) Allow(key string) bool {
	if key == "" {
		key = "unknown"
	}

	l.mu.Lock()
	now := l.now()
	b, ok := l.buckets[key]
	if !ok {
		b = &clientBucket{tokens: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastUsed = now
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweepLocked(now)
	}
	l.mu.Unlock()

	return b.tokens.AllowN(now, 1)
}

func (l *clientLimiter) sweepLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastUsed) > l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
