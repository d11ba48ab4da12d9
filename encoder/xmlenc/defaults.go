// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package xmlenc

import "github.com/xydan83/open62541-nodeset-exporter-sub001/uavariant"

// isDefaultWriteMask reports whether a WriteMask/UserWriteMask value
// equals its suppressed default of 0 (SPEC_FULL.md §4.8).
func isDefaultWriteMask(v uavariant.Variant) bool {
	i, ok := v.AsInt64()
	return ok && i == 0
}

// isDefaultEventNotifier reports whether EventNotifier equals 0.
func isDefaultEventNotifier(v uavariant.Variant) bool {
	i, ok := v.AsInt64()
	return ok && i == 0
}

// isDefaultValueRank reports whether ValueRank equals -1 (Scalar).
func isDefaultValueRank(v uavariant.Variant) bool {
	i, ok := v.AsInt64()
	return ok && i == -1
}

// isDefaultAccessLevel reports whether AccessLevel/UserAccessLevel
// equals 1 (CurrentRead).
func isDefaultAccessLevel(v uavariant.Variant) bool {
	i, ok := v.AsInt64()
	return ok && i == 1
}

// isDefaultMinimumSamplingInterval reports whether the value equals 0.0.
func isDefaultMinimumSamplingInterval(v uavariant.Variant) bool {
	f, ok := v.AsFloat64()
	return ok && f == 0.0
}

// isDefaultHistorizing reports whether the value equals false.
func isDefaultHistorizing(v uavariant.Variant) bool {
	b, ok := v.AsBool()
	return ok && !b
}

// isDefaultArrayDimensions reports whether the array is empty.
func isDefaultArrayDimensions(v uavariant.Variant) bool {
	return v.Kind == uavariant.KindArray && len(v.Array) == 0
}

// isDefaultSymmetric reports whether the value equals false.
func isDefaultSymmetric(v uavariant.Variant) bool {
	b, ok := v.AsBool()
	return ok && !b
}

// isDefaultIsAbstract reports whether the value equals false.
func isDefaultIsAbstract(v uavariant.Variant) bool {
	b, ok := v.AsBool()
	return ok && !b
}
