// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 StoneMUD Contributors

package command

import "time"

// MetricsRecorder tracks dispatch metrics for a single invocation.
type MetricsRecorder struct {
	startTime   time.Time
	commandName string
	status      string
}

// NewMetricsRecorder initializes a recorder for a single dispatch.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{startTime: time.Now()}
}

// SetCommandName sets the resolved command name for metrics.
func (m *MetricsRecorder) SetCommandName(name string) {
	m.commandName = name
}

// SetStatus sets the dispatch outcome (use Status* constants).
func (m *MetricsRecorder) SetStatus(status string) {
	m.status = status
}

// Record writes the collected metrics if a command name was resolved.
func (m *MetricsRecorder) Record() {
	if m.commandName == "" {
		return
	}

	RecordDispatch(m.commandName, m.status)
	RecordDispatchDuration(m.commandName, time.Since(m.startTime))
}
