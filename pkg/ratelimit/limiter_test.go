package ratelimit

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestKeyedLimiterIsolatesKeys(t *testing.T) {
	l := NewKeyedLimiter(rate.Limit(0.001), 2)

	assert.True(t, l.Allow("1"))
	assert.True(t, l.Allow("1"))
	assert.False(t, l.Allow("1"))

	assert.True(t, l.Allow("2"))
}

func TestKeyedLimiterInf(t *testing.T) {
	l := NewKeyedLimiter(rate.Inf, 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("1"))
	}
}

func TestKeyedLimiterFloodKeepsThrottledKey(t *testing.T) {
	l := NewKeyedLimiter(rate.Every(time.Hour), 3)
	l.maxKeys = 3

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("victim"))
	}
	assert.False(t, l.Allow("victim"))

	for i := 0; i < 50; i++ {
		assert.True(t, l.Allow(fmt.Sprintf("flood-%d", i)))
	}

	assert.LessOrEqual(t, l.size(), 3)
	assert.False(t, l.Allow("victim"))
}

func TestKeyedLimiterEvictsRefilledBuckets(t *testing.T) {
	l := NewKeyedLimiter(rate.Limit(1e9), 1)
	l.maxKeys = 4

	for i := 0; i < 20; i++ {
		assert.True(t, l.Allow(fmt.Sprintf("k-%d", i)))
		assert.LessOrEqual(t, l.size(), 4)
	}
}
