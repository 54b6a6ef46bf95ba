// Copyright 2017 The RSL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rsllog provides the engine's leveled, context-carried logger,
// used for operational tracing (shader cache hits, texture misses) as
// distinct from rslerr's compile/runtime diagnostics.
package rsllog

import (
	"context"
	"fmt"
	"os"
	"sync"
)

// Severity orders log messages from least to most urgent.
type Severity int

const (
	Debug Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	default:
		return "?"
	}
}

// Logger is the interface every logger in this package implements.
type Logger interface {
	Log(severity Severity, message string)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(Severity, string)

func (f LoggerFunc) Log(s Severity, m string) { f(s, m) }

type ctxKey struct{}

// Bind returns a new context carrying logger l.
func Bind(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From returns the logger bound to ctx, or Std if none was bound.
func From(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}
	return Std
}

// Std writes to os.Stderr with a "severity: message" format.
var Std Logger = writerLogger{out: os.Stderr}

type writerLogger struct {
	mu  sync.Mutex
	out *os.File
}

func (w writerLogger) Log(s Severity, m string) {
	fmt.Fprintf(w.out, "%s: %s\n", s, m)
}

// Multiplex fans a log message out to every logger in ls, matching the
// teacher's pattern of attaching a test logger alongside the real one.
func Multiplex(ls ...Logger) Logger {
	return LoggerFunc(func(s Severity, m string) {
		for _, l := range ls {
			if l != nil {
				l.Log(s, m)
			}
		}
	})
}

func logf(ctx context.Context, s Severity, format string, args ...interface{}) {
	From(ctx).Log(s, fmt.Sprintf(format, args...))
}

// Debugf logs a debug-severity message to the logger bound to ctx.
func Debugf(ctx context.Context, format string, args ...interface{}) { logf(ctx, Debug, format, args...) }

// Infof logs an info-severity message to the logger bound to ctx.
func Infof(ctx context.Context, format string, args ...interface{}) { logf(ctx, Info, format, args...) }

// Warningf logs a warning-severity message to the logger bound to ctx.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logf(ctx, Warning, format, args...)
}

// Errorf logs an error-severity message to the logger bound to ctx.
func Errorf(ctx context.Context, format string, args ...interface{}) { logf(ctx, Error, format, args...) }
