// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Cooldown tracking defaults.
const (
	// PermissionCooldownBypass exempts a sender from command cooldowns.
	PermissionCooldownBypass = "admin.cooldown.bypass"

	// DefaultCooldownSweepInterval is how often expired entries are swept.
	DefaultCooldownSweepInterval = time.Minute

	// DefaultCooldownMaxAge is how long an expired entry may linger before
	// the sweep removes it.
	DefaultCooldownMaxAge = 10 * time.Minute
)

// cooldownEntry is an immutable record of one started cooldown window.
// Entries are replaced, never mutated, so readers need no locking.
type cooldownEntry struct {
	started time.Time
	expiry  time.Time
}

// CooldownTracker tracks per-(sender, command path) cooldown windows.
// CheckAndStart is atomic: of two near-simultaneous calls for the same key,
// exactly one starts the window and the other observes it. State is
// process-local and not persisted.
//
// The tracker runs a background sweep goroutine. Call Close to stop it.
type CooldownTracker struct {
	entries sync.Map // key string → *cooldownEntry
	maxAge  time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup

	entryGauge prometheus.Gauge // nil if no registry provided
}

// CooldownTrackerConfig configures the tracker.
type CooldownTrackerConfig struct {
	// SweepInterval is the background sweep period. Defaults to
	// DefaultCooldownSweepInterval if zero.
	SweepInterval time.Duration

	// MaxAge is how long expired entries may linger. Defaults to
	// DefaultCooldownMaxAge if zero.
	MaxAge time.Duration
}

// NewCooldownTracker creates a tracker and starts its sweep goroutine.
func NewCooldownTracker(cfg CooldownTrackerConfig) *CooldownTracker {
	return newCooldownTracker(cfg, nil)
}

// NewCooldownTrackerWithRegistry additionally registers an entry-count
// gauge with the given Prometheus registry.
func NewCooldownTrackerWithRegistry(cfg CooldownTrackerConfig, reg prometheus.Registerer) *CooldownTracker {
	return newCooldownTracker(cfg, reg)
}

func newCooldownTracker(cfg CooldownTrackerConfig, reg prometheus.Registerer) *CooldownTracker {
	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = DefaultCooldownSweepInterval
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultCooldownMaxAge
	}

	t := &CooldownTracker{
		maxAge:   maxAge,
		stopChan: make(chan struct{}),
	}

	if reg != nil {
		t.entryGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stonemud_cooldown_entries",
			Help: "Current number of tracked cooldown entries",
		})
		reg.MustRegister(t.entryGauge)
	}

	t.wg.Add(1)
	go t.sweepLoop(interval)

	return t
}

// CooldownKey builds the tracking key for a sender and resolved path.
func CooldownKey(senderKey string, path []string) string {
	return senderKey + "|" + strings.Join(path, " ")
}

// CheckAndStart atomically checks whether the key is inside an active
// window and starts a new one if not. Returns (0, true) when the command
// may proceed, or (remaining, false) when the cooldown is active. The
// window is started before invocation and is independent of command
// success or failure.
func (t *CooldownTracker) CheckAndStart(key string, d time.Duration) (time.Duration, bool) {
	if d <= 0 {
		return 0, true
	}

	now := time.Now()
	fresh := &cooldownEntry{started: now, expiry: now.Add(d)}

	for {
		got, loaded := t.entries.LoadOrStore(key, fresh)
		if !loaded {
			return 0, true
		}
		cur := got.(*cooldownEntry)
		if remaining := cur.expiry.Sub(now); remaining > 0 {
			return remaining, false
		}
		// Expired entry: replace it, but only if nobody beat us to it.
		if t.entries.CompareAndSwap(key, got, fresh) {
			return 0, true
		}
	}
}

// Remaining returns the active window's remaining duration for key, or 0.
func (t *CooldownTracker) Remaining(key string) time.Duration {
	if got, ok := t.entries.Load(key); ok {
		if remaining := time.Until(got.(*cooldownEntry).expiry); remaining > 0 {
			return remaining
		}
	}
	return 0
}

// Clear removes the window for key. Used by admin tooling.
func (t *CooldownTracker) Clear(key string) {
	t.entries.Delete(key)
}

// Sweep removes entries whose windows expired more than maxAge ago. Called
// by the background goroutine; exposed for tests and manual compaction.
func (t *CooldownTracker) Sweep(maxAge time.Duration) {
	threshold := time.Now().Add(-maxAge)
	count := 0
	t.entries.Range(func(k, v any) bool {
		if v.(*cooldownEntry).expiry.Before(threshold) {
			t.entries.Delete(k)
		} else {
			count++
		}
		return true
	})

	if t.entryGauge != nil {
		t.entryGauge.Set(float64(count))
	}
}

// sweepLoop runs periodic sweeps until Close.
func (t *CooldownTracker) sweepLoop(interval time.Duration) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		case <-ticker.C:
			t.Sweep(t.maxAge)
		}
	}
}

// Close stops the sweep goroutine. It blocks until the goroutine exits.
func (t *CooldownTracker) Close() {
	close(t.stopChan)
	t.wg.Wait()
}
