// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterMetrics(reg)

	RecordDispatch("say", StatusSuccess)
	RecordDispatchDuration("say", 5*time.Millisecond)
	RecordCompletionCacheLookup("hit")

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["stonemud_command_dispatches_total"])
	assert.True(t, names["stonemud_command_duration_seconds"])
	assert.True(t, names["stonemud_completion_cache_lookups_total"])
}

func TestMetricsRecorder(t *testing.T) {
	before := testutil.ToFloat64(CommandDispatches.WithLabelValues("warp", StatusCooldown))

	r := NewMetricsRecorder()
	r.SetCommandName("warp")
	r.SetStatus(StatusCooldown)
	r.Record()

	after := testutil.ToFloat64(CommandDispatches.WithLabelValues("warp", StatusCooldown))
	assert.Equal(t, before+1, after)
}

func TestMetricsRecorder_NoCommandNameIsNoop(t *testing.T) {
	r := NewMetricsRecorder()
	r.SetStatus(StatusError)
	r.Record() // must not panic or record an empty-name series

	assert.Zero(t, testutil.ToFloat64(CommandDispatches.WithLabelValues("", StatusError)))
}
