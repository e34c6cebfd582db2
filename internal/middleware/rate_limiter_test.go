package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientLimiterBurstAndRefill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(2, time.Minute, time.Hour)
	limiter.now = func() time.Time { return now }

	assert.True(t, limiter.Allow("upload:1.2.3.4"))
	assert.True(t, limiter.Allow("upload:1.2.3.4"))
	assert.False(t, limiter.Allow("upload:1.2.3.4"))
	assert.True(t, limiter.Allow("upload:5.6.7.8"), "clients are limited independently")
	assert.True(t, limiter.Allow("moderate-video:1.2.3.4"), "scopes are limited independently")

	now = now.Add(30 * time.Second)
	assert.True(t, limiter.Allow("upload:1.2.3.4"))
}

func TestClientLimiterDropsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := newClientLimiter(1, time.Minute, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	now = now.Add(2 * time.Minute)
	limiter.Allow("b")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.buckets, "a")
	assert.Contains(t, limiter.buckets, "b")
}

func TestPerMinuteDisabled(t *testing.T) {
	assert.Nil(t, PerMinute(0))
	require.NotNil(t, PerMinute(5))
}
