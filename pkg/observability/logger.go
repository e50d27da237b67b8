// Copyright 2026 AIGitCommit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package observability provides logging and pipeline metrics.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is the structured logger interface used across the pipeline.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field represents a log field.
type Field struct {
	Key   string
	Value any
}

// logger is the default slog-backed implementation.
type logger struct {
	sl *slog.Logger
}

// NewLogger creates a text logger writing to stderr at the given level
// (debug, info, warn, error; default info).
func NewLogger(level string) Logger {
	return NewLoggerTo(os.Stderr, level)
}

// NewLoggerTo creates a logger writing to w. Values are passed through
// Redact so credentials never reach the sink.
func NewLoggerTo(w io.Writer, level string) Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &logger{sl: slog.New(h)}
}

// Nop returns a logger that discards everything. Useful as a default
// for library callers that did not wire logging.
func Nop() Logger {
	return &logger{sl: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *logger) attrs(fields []Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		v := f.Value
		if s, ok := v.(string); ok {
			v = Redact(s)
		}
		out = append(out, f.Key, v)
	}
	return out
}

func (l *logger) Debug(msg string, fields ...Field) { l.sl.Debug(msg, l.attrs(fields)...) }
func (l *logger) Info(msg string, fields ...Field)  { l.sl.Info(msg, l.attrs(fields)...) }
func (l *logger) Warn(msg string, fields ...Field)  { l.sl.Warn(msg, l.attrs(fields)...) }
func (l *logger) Error(msg string, fields ...Field) { l.sl.Error(msg, l.attrs(fields)...) }

func (l *logger) With(fields ...Field) Logger {
	return &logger{sl: l.sl.With(l.attrs(fields)...)}
}

// String creates a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}
