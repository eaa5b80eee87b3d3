// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRateLimiter_BurstThenLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 3, SustainedRate: 1.0})
	defer rl.Close()

	for i := 0; i < 3; i++ {
		allowed, _ := rl.Allow("player:a")
		assert.True(t, allowed, "burst call %d", i)
	}

	allowed, cooldownMs := rl.Allow("player:a")
	assert.False(t, allowed)
	assert.Greater(t, cooldownMs, int64(0))
	assert.LessOrEqual(t, cooldownMs, int64(1000))
}

func TestRateLimiter_SendersIndependent(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 1, SustainedRate: 0.1})
	defer rl.Close()

	allowed, _ := rl.Allow("player:a")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("player:a")
	assert.False(t, allowed)

	allowed, _ = rl.Allow("player:b")
	assert.True(t, allowed, "one sender's flood must not affect another")
}

func TestRateLimiter_Refill(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 1, SustainedRate: 50.0})
	defer rl.Close()

	allowed, _ := rl.Allow("player:a")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("player:a")
	assert.False(t, allowed)

	time.Sleep(30 * time.Millisecond)
	allowed, _ = rl.Allow("player:a")
	assert.True(t, allowed, "tokens refill at the sustained rate")
}

func TestRateLimiter_ConfigFloors(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: -5, SustainedRate: -1})
	defer rl.Close()

	// Defaults kick in; the first call is always allowed.
	allowed, _ := rl.Allow("player:a")
	assert.True(t, allowed)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	defer rl.Close()

	rl.Allow("player:a")
	rl.Allow("player:b")
	assert.Equal(t, 2, rl.SenderCount())

	time.Sleep(5 * time.Millisecond)
	rl.Cleanup(time.Millisecond)
	assert.Equal(t, 0, rl.SenderCount())
}

func TestRateLimiter_Concurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(RateLimiterConfig{BurstCapacity: 5, SustainedRate: 1.0})
	defer rl.Close()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("player:%d", i%4)
			for j := 0; j < 50; j++ {
				rl.Allow(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 4, rl.SenderCount())
}

func TestRateLimiter_CloseStopsCleanup(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimiter(RateLimiterConfig{CleanupInterval: time.Millisecond})
	time.Sleep(10 * time.Millisecond)
	rl.Close()
}
