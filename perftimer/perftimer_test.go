// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package perftimer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "00:00:00.000", Format(0))
	assert.Equal(t, "00:00:01.500", Format(1500*time.Millisecond))
	assert.Equal(t, "00:01:01.000", Format(61*time.Second))
	assert.Equal(t, "01:00:00.000", Format(time.Hour))
}

func TestTimerElapsed(t *testing.T) {
	timer := New()
	time.Sleep(5 * time.Millisecond)
	assert.GreaterOrEqual(t, timer.Elapsed(), 5*time.Millisecond)
}
