// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

package logging

import "go.uber.org/zap"

// ZapLogger adapts a *zap.Logger to the Logger interface, the same
// structured-logging library the teacher uses throughout client.go,
// scraper.go and receiver.go.
type ZapLogger struct {
	z *zap.Logger
}

// NewZapLogger wraps z. A nil z falls back to zap.NewNop(), mirroring
// the teacher's "if logger == nil { logger = zap.NewNop() }" idiom
// (testdata/mock_client.go, testdata/mock_server.go).
func NewZapLogger(z *zap.Logger) *ZapLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return &ZapLogger{z: z}
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.Error(err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}

func (l *ZapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *ZapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *ZapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *ZapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }

// NopLogger returns a Logger that discards everything, used as the
// export loop's default when Options.Logger is left nil.
func NopLogger() Logger { return NewZapLogger(zap.NewNop()) }
