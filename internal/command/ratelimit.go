// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Flood limiting defaults.
const (
	// DefaultBurstCapacity is the number of commands a sender can issue in
	// a burst before the flood limiter kicks in.
	DefaultBurstCapacity = 10

	// DefaultSustainedRate is the sustained commands-per-second refill rate.
	DefaultSustainedRate = 2.0

	// MinBurstCapacity ensures burst capacity is at least 1.
	MinBurstCapacity = 1

	// MinSustainedRate ensures the refill rate is at least 0.1 tokens/second.
	MinSustainedRate = 0.1

	// PermissionRateLimitBypass exempts a sender from flood limiting.
	PermissionRateLimitBypass = "admin.ratelimit.bypass"

	// DefaultRateLimitCleanupInterval is how often stale senders are dropped.
	DefaultRateLimitCleanupInterval = 5 * time.Minute

	// DefaultSenderMaxAge is how long an idle sender's bucket is retained.
	DefaultSenderMaxAge = time.Hour
)

// RateLimiterConfig configures the flood limiter.
type RateLimiterConfig struct {
	// BurstCapacity is the maximum burst size. Defaults to
	// DefaultBurstCapacity if zero or negative.
	BurstCapacity int

	// SustainedRate is the token refill rate per second. Defaults to
	// DefaultSustainedRate if zero or negative.
	SustainedRate float64

	// CleanupInterval is the background cleanup period. Defaults to
	// DefaultRateLimitCleanupInterval if zero.
	CleanupInterval time.Duration

	// SenderMaxAge is how long idle buckets are retained. Defaults to
	// DefaultSenderMaxAge if zero.
	SenderMaxAge time.Duration
}

// senderBucket tracks token bucket state for one sender.
type senderBucket struct {
	tokens    float64
	lastCheck time.Time
}

// RateLimiter is a per-sender token bucket flood guard, distinct from
// per-command cooldowns: it bounds overall command throughput regardless
// of which commands are invoked. Safe for concurrent use.
//
// The limiter runs a background cleanup goroutine. Call Close to stop it.
type RateLimiter struct {
	mu            sync.Mutex
	senders       map[string]*senderBucket
	burstCapacity int
	sustainedRate float64 // tokens per second
	senderMaxAge  time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup

	senderGauge prometheus.Gauge // nil if no registry provided
}

// NewRateLimiter creates a flood limiter and starts its cleanup goroutine.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return newRateLimiter(cfg, nil)
}

// NewRateLimiterWithRegistry additionally registers a tracked-sender gauge
// with the given Prometheus registry.
func NewRateLimiterWithRegistry(cfg RateLimiterConfig, reg prometheus.Registerer) *RateLimiter {
	return newRateLimiter(cfg, reg)
}

func newRateLimiter(cfg RateLimiterConfig, reg prometheus.Registerer) *RateLimiter {
	burstCapacity := cfg.BurstCapacity
	if burstCapacity <= 0 {
		burstCapacity = DefaultBurstCapacity
	}
	if burstCapacity < MinBurstCapacity {
		burstCapacity = MinBurstCapacity
	}

	sustainedRate := cfg.SustainedRate
	if sustainedRate <= 0 {
		sustainedRate = DefaultSustainedRate
	}
	if sustainedRate < MinSustainedRate {
		sustainedRate = MinSustainedRate
	}

	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultRateLimitCleanupInterval
	}

	senderMaxAge := cfg.SenderMaxAge
	if senderMaxAge <= 0 {
		senderMaxAge = DefaultSenderMaxAge
	}

	rl := &RateLimiter{
		senders:       make(map[string]*senderBucket),
		burstCapacity: burstCapacity,
		sustainedRate: sustainedRate,
		senderMaxAge:  senderMaxAge,
		stopChan:      make(chan struct{}),
	}

	if reg != nil {
		rl.senderGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stonemud_ratelimiter_senders",
			Help: "Current number of tracked rate limiter senders",
		})
		reg.MustRegister(rl.senderGauge)
	}

	rl.wg.Add(1)
	go rl.cleanupLoop(cleanupInterval)

	return rl
}

// Allow checks whether a command is allowed for the given sender key.
// Returns (allowed, cooldownMs) where cooldownMs is the time until the next
// token becomes available (0 if allowed). Each allowed call consumes one
// token; tokens refill at the sustained rate up to the burst capacity.
func (rl *RateLimiter) Allow(senderKey string) (allowed bool, cooldownMs int64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()

	bucket, exists := rl.senders[senderKey]
	if !exists {
		// New senders start with a full bucket.
		bucket = &senderBucket{
			tokens:    float64(rl.burstCapacity),
			lastCheck: now,
		}
		rl.senders[senderKey] = bucket
	}

	elapsed := now.Sub(bucket.lastCheck).Seconds()
	bucket.tokens += elapsed * rl.sustainedRate
	if bucket.tokens > float64(rl.burstCapacity) {
		bucket.tokens = float64(rl.burstCapacity)
	}
	bucket.lastCheck = now

	if bucket.tokens >= 1.0 {
		bucket.tokens -= 1.0
		return true, 0
	}

	deficit := 1.0 - bucket.tokens
	cooldownMs = int64(deficit / rl.sustainedRate * 1000)

	return false, cooldownMs
}

// SenderCount returns the number of tracked senders.
func (rl *RateLimiter) SenderCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.senders)
}

// Cleanup removes buckets idle for longer than maxAge. Called by the
// background goroutine; exposed for tests and manual compaction.
func (rl *RateLimiter) Cleanup(maxAge time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	threshold := time.Now().Add(-maxAge)
	for key, bucket := range rl.senders {
		if bucket.lastCheck.Before(threshold) {
			delete(rl.senders, key)
		}
	}

	if rl.senderGauge != nil {
		rl.senderGauge.Set(float64(len(rl.senders)))
	}
}

// cleanupLoop runs periodic cleanup until Close.
func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	defer rl.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopChan:
			return
		case <-ticker.C:
			rl.Cleanup(rl.senderMaxAge)
		}
	}
}

// Close stops the cleanup goroutine. It blocks until the goroutine exits.
func (rl *RateLimiter) Close() {
	close(rl.stopChan)
	rl.wg.Wait()
}
