// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package uavariant implements the AttributeVariant tagged union: the
// small set of OPC UA built-in scalar/array types this exporter reads
// from and writes to attribute values, independent of any particular
// client library's on-the-wire Variant representation.
package uavariant

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates which field of Variant is populated.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindUint64
	KindFloat64
	KindString
	KindDateTime
	KindBytes
	KindNodeIDText // a NodeId/ExpandedNodeId carried as its canonical text
	KindArray
)

// Variant is a tagged union over the scalar OPC UA built-in types this
// exporter needs plus a homogeneous array of the same. It deliberately
// does not attempt full coverage of every OPC UA built-in type (complex
// structured ExtensionObjects are out of scope, per SPEC_FULL.md §4.8's
// notes on the DataType Definition element).
type Variant struct {
	Kind    Kind
	Bool    bool
	Int64   int64
	Uint64  uint64
	Float64 float64
	Str     string
	Time    time.Time
	Bytes   []byte
	Array   []Variant
}

// Null is the zero-value Null variant, used to represent "attribute not
// present" without introducing nil-pointer handling at every call site.
var Null = Variant{Kind: KindNull}

func NewBool(v bool) Variant       { return Variant{Kind: KindBool, Bool: v} }
func NewInt64(v int64) Variant     { return Variant{Kind: KindInt64, Int64: v} }
func NewUint64(v uint64) Variant   { return Variant{Kind: KindUint64, Uint64: v} }
func NewFloat64(v float64) Variant { return Variant{Kind: KindFloat64, Float64: v} }
func NewString(v string) Variant   { return Variant{Kind: KindString, Str: v} }
func NewDateTime(v time.Time) Variant {
	return Variant{Kind: KindDateTime, Time: v}
}
func NewBytes(v []byte) Variant { return Variant{Kind: KindBytes, Bytes: v} }
func NewNodeIDText(text string) Variant {
	return Variant{Kind: KindNodeIDText, Str: text}
}
func NewArray(items []Variant) Variant {
	return Variant{Kind: KindArray, Array: items}
}

// IsNull reports whether the variant carries no value.
func (v Variant) IsNull() bool { return v.Kind == KindNull }

// Equal reports whether two variants carry the same kind and value,
// comparing array elements pairwise.
func (v Variant) Equal(other Variant) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindNull:
		return true
	case KindBool:
		return v.Bool == other.Bool
	case KindInt64:
		return v.Int64 == other.Int64
	case KindUint64:
		return v.Uint64 == other.Uint64
	case KindFloat64:
		return v.Float64 == other.Float64
	case KindString, KindNodeIDText:
		return v.Str == other.Str
	case KindDateTime:
		return v.Time.Equal(other.Time)
	case KindBytes:
		return string(v.Bytes) == string(other.Bytes)
	case KindArray:
		if len(v.Array) != len(other.Array) {
			return false
		}
		for i := range v.Array {
			if !v.Array[i].Equal(other.Array[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AsInt64 coerces a scalar numeric variant to int64, for attributes like
// ValueRank/EventNotifier/AccessLevel whose wire representation may be a
// signed or unsigned integer of varying width depending on the server.
func (v Variant) AsInt64() (int64, bool) {
	switch v.Kind {
	case KindInt64:
		return v.Int64, true
	case KindUint64:
		return int64(v.Uint64), true
	default:
		return 0, false
	}
}

// AsBool coerces a scalar boolean variant.
func (v Variant) AsBool() (bool, bool) {
	if v.Kind == KindBool {
		return v.Bool, true
	}
	return false, false
}

// AsFloat64 coerces a scalar floating-point variant.
func (v Variant) AsFloat64() (float64, bool) {
	switch v.Kind {
	case KindFloat64:
		return v.Float64, true
	case KindInt64:
		return float64(v.Int64), true
	case KindUint64:
		return float64(v.Uint64), true
	default:
		return 0, false
	}
}

// AsString coerces a scalar string-like variant.
func (v Variant) AsString() (string, bool) {
	switch v.Kind {
	case KindString, KindNodeIDText:
		return v.Str, true
	default:
		return "", false
	}
}

// Text renders the variant as XML element body text, matching the way
// the original's XMLEncoder writes <uax:...> payloads: plain decimal for
// numbers, RFC3339 for DateTime, and strings/bytes verbatim (callers are
// responsible for XML-escaping the result).
func (v Variant) Text() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindInt64:
		return strconv.FormatInt(v.Int64, 10)
	case KindUint64:
		return strconv.FormatUint(v.Uint64, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.Float64, 'g', -1, 64)
	case KindString, KindNodeIDText:
		return v.Str
	case KindDateTime:
		return v.Time.UTC().Format(time.RFC3339Nano)
	case KindBytes:
		return string(v.Bytes)
	case KindArray:
		parts := make([]string, len(v.Array))
		for i, item := range v.Array {
			parts[i] = item.Text()
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

// String implements fmt.Stringer for debugging/log output.
func (v Variant) String() string {
	return fmt.Sprintf("Variant(kind=%d, text=%q)", v.Kind, v.Text())
}
