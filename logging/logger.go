// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Package logging defines the Logger interface the export core logs
// through (SPEC_FULL.md §2, component 8) and a go.uber.org/zap-backed
// implementation, mirroring the teacher's own use of zap throughout
// client.go/scraper.go/receiver.go.
package logging

// Field is a single structured logging key/value pair, independent of
// the concrete logging library backing a Logger implementation.
type Field struct {
	Key   string
	Value any
}

// String builds a string-valued Field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int builds an int-valued Field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Err builds an error-valued Field under the conventional "error" key.
func Err(err error) Field { return Field{Key: "error", Value: err} }

// Logger is the leveled sink the export core, browse driver, rewriting
// pipeline and adapters all log through. Internal components never
// depend on *zap.Logger directly, only on this interface, so the
// in-memory test adapter can run with a no-op implementation.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Level is the type of the internal_log_level option (SPEC_FULL.md §6's
// Options struct), defaulting to Off like the original's
// m_opt.internal_log_level. The option is carried in Options; no adapter
// or transport in this repository reads it.
type Level uint8

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)
