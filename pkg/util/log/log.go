// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements context-aware leveled logging on top of zap.
//
// Messages carry the logging tags attached to the context with
// logtags.AddTag, or through an AmbientContext.
package log

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/logtags"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Severity is the severity of a log message.
type Severity int8

const (
	// SeverityInfo is used for informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning is used for situations that may need attention.
	SeverityWarning
	// SeverityError is used for failures.
	SeverityError
)

func (s Severity) zapLevel() zapcore.Level {
	switch s {
	case SeverityWarning:
		return zapcore.WarnLevel
	case SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Config holds logger configuration options.
type Config struct {
	// Format is the output format: "json" or "text".
	Format string
	// Level is the minimum severity: "info", "warning" or "error".
	Level string
	// Output is where log entries are written. Defaults to stderr.
	Output zapcore.WriteSyncer
}

// DefaultConfig returns the configuration used before any call to
// SetLogger.
func DefaultConfig() Config {
	return Config{Format: "text", Level: "info", Output: zapcore.Lock(os.Stderr)}
}

// NewLogger creates a zap logger for the given configuration. The caller
// skip is adjusted so that entries point at the caller of Infof etc.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "text", "":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, errors.Newf("unknown log format %q", cfg.Format)
	}
	out := cfg.Output
	if out == nil {
		out = zapcore.Lock(os.Stderr)
	}
	core := zapcore.NewCore(enc, out, level)
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)), nil
}

func parseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "info", "":
		return zapcore.InfoLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, errors.Newf("unknown log level %q", s)
	}
}

var mainLog atomic.Pointer[zap.Logger]

func init() {
	l, err := NewLogger(DefaultConfig())
	if err != nil {
		panic(err)
	}
	mainLog.Store(l)
}

// SetLogger replaces the process-wide logger and returns a function that
// restores the previous one.
func SetLogger(l *zap.Logger) (restore func()) {
	prev := mainLog.Swap(l)
	return func() { mainLog.Store(prev) }
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, SeverityInfo, format, args...)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, SeverityWarning, format, args...)
}

// VEventf logs to the INFO severity if the verbosity is at least level.
func VEventf(ctx context.Context, level Level, format string, args ...interface{}) {
	if V(level) {
		logf(ctx, SeverityInfo, format, args...)
	}
}

// logf must be called directly by the exported logging functions so that
// the caller skip configured in NewLogger stays correct.
func logf(ctx context.Context, sev Severity, format string, args ...interface{}) {
	l := mainLog.Load()
	lvl := sev.zapLevel()
	if !l.Core().Enabled(lvl) {
		return
	}
	ce := l.Check(lvl, fmt.Sprintf(format, args...))
	if ce == nil {
		return
	}
	ce.Write(tagFields(ctx)...)
}

// tagFields converts the logging tags of ctx into zap fields.
func tagFields(ctx context.Context) []zap.Field {
	tags := logtags.FromContext(ctx)
	if tags == nil {
		return nil
	}
	t := tags.Get()
	fields := make([]zap.Field, 0, len(t))
	for i := range t {
		fields = append(fields, zap.String(t[i].Key(), t[i].ValueStr()))
	}
	return fields
}
