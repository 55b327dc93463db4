package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterPerKey(t *testing.T) {
	now := time.Date(2025, 1, 2, 17, 30, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys have separate buckets")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"), "one token refills per second")
}

func TestRateLimiterDropsIdleKeys(t *testing.T) {
	now := time.Date(2025, 1, 2, 17, 30, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(limiterIdle / 2)
	rl.Allow("b")
	assert.Len(t, rl.limiters, 2, "no sweep inside the idle window")

	now = now.Add(limiterIdle/2 + time.Second)
	rl.Allow("c")

	assert.Len(t, rl.limiters, 2)
	assert.NotContains(t, rl.limiters, "a")
	assert.Contains(t, rl.limiters, "b")
	assert.Contains(t, rl.limiters, "c")
}
