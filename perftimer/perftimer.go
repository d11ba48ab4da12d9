// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package perftimer implements the elapsed-time helper the export core
// uses when Options.IsPerfTimerEnable is set (SPEC_FULL.md §4.7),
// grounded on the original's PerformanceTimer/TimeToString.
package perftimer

import (
	"fmt"
	"time"
)

// Timer measures elapsed wall-clock time from construction.
type Timer struct {
	start time.Time
}

// New starts a new Timer.
func New() Timer {
	return Timer{start: time.Now()}
}

// Elapsed returns the duration since New was called.
func (t Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Format renders d as HH:MM:SS.mmm, matching the original's
// PerformanceTimer::TimeToString rendering used in every Info log line
// that reports a stage's duration.
func Format(d time.Duration) string {
	ms := d.Milliseconds()
	hours := ms / 3600000
	ms -= hours * 3600000
	minutes := ms / 60000
	ms -= minutes * 60000
	seconds := ms / 1000
	ms -= seconds * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, ms)
}

// String renders the timer's current elapsed time using Format.
func (t Timer) String() string {
	return Format(t.Elapsed())
}
