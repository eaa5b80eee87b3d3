// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for dispatch metrics.
const (
	StatusSuccess          = "success"
	StatusError            = "error"
	StatusNotFound         = "not_found"
	StatusPermissionDenied = "permission_denied"
	StatusPlayerOnly       = "player_only"
	StatusCooldown         = "cooldown"
	StatusRateLimited      = "rate_limited"
	StatusParseError       = "parse_error"
)

// CommandDispatches is the counter for command dispatches.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandDispatches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stonemud_command_dispatches_total",
		Help: "Total number of command dispatches",
	},
	[]string{"command", "status"},
)

// CommandDuration is the histogram for dispatch duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var CommandDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "stonemud_command_duration_seconds",
		Help:    "Command dispatch duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command"},
)

// CompletionCacheLookups is the counter for completion cache lookups.
// Use RegisterMetrics to register this with a Prometheus registry.
var CompletionCacheLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "stonemud_completion_cache_lookups_total",
		Help: "Total number of completion cache lookups by result",
	},
	[]string{"result"},
)

// RegisterMetrics registers command package metrics with the given
// Prometheus registry. Call once at startup.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CommandDispatches)
	reg.MustRegister(CommandDuration)
	reg.MustRegister(CompletionCacheLookups)
}

// RecordDispatch increments the dispatch counter.
func RecordDispatch(command, status string) {
	CommandDispatches.WithLabelValues(command, status).Inc()
}

// RecordDispatchDuration records how long a dispatch took.
func RecordDispatchDuration(command string, duration time.Duration) {
	CommandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordCompletionCacheLookup increments the cache lookup counter with
// result "hit" or "miss".
func RecordCompletionCacheLookup(result string) {
	CompletionCacheLookups.WithLabelValues(result).Inc()
}
