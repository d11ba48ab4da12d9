// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package uavariant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVariantEqual(t *testing.T) {
	assert.True(t, NewInt64(5).Equal(NewInt64(5)))
	assert.False(t, NewInt64(5).Equal(NewInt64(6)))
	assert.True(t, Null.Equal(Variant{}))
	assert.False(t, NewBool(true).Equal(NewBool(false)))

	arrA := NewArray([]Variant{NewInt64(1), NewInt64(2)})
	arrB := NewArray([]Variant{NewInt64(1), NewInt64(2)})
	arrC := NewArray([]Variant{NewInt64(1)})
	assert.True(t, arrA.Equal(arrB))
	assert.False(t, arrA.Equal(arrC))
}

func TestVariantCoercions(t *testing.T) {
	i, ok := NewInt64(-1).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(-1), i)

	u, ok := NewUint64(7).AsInt64()
	assert.True(t, ok)
	assert.Equal(t, int64(7), u)

	b, ok := NewBool(true).AsBool()
	assert.True(t, ok)
	assert.True(t, b)

	f, ok := NewFloat64(1.5).AsFloat64()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, f, 0.0001)

	s, ok := NewString("hi").AsString()
	assert.True(t, ok)
	assert.Equal(t, "hi", s)

	_, ok = NewString("hi").AsInt64()
	assert.False(t, ok)
}

func TestVariantText(t *testing.T) {
	assert.Equal(t, "true", NewBool(true).Text())
	assert.Equal(t, "-5", NewInt64(-5).Text())
	assert.Equal(t, "hello", NewString("hello").Text())

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "2024-01-02T03:04:05Z", NewDateTime(ts).Text())

	arr := NewArray([]Variant{NewInt64(1), NewInt64(2), NewInt64(3)})
	assert.Equal(t, "1,2,3", arr.Text())

	assert.Equal(t, "", Null.Text())
}
