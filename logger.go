// Copyright 2012-2016 The GoSNMP Authors. All rights reserved.  Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package snmpcore

import "log"

// Logger is the debug-logging interface the core accepts. It mirrors the
// standard library's log.Logger so a caller can pass one in directly, or
// plug in their own adapter.
type Logger interface {
	Printf(format string, v ...interface{})
}

// nopLogger discards everything written to it. It is the default logger
// for any component constructed without one.
type nopLogger struct{}

func (nopLogger) Printf(string, ...interface{}) {}

// DefaultLogger returns a Logger that discards all output.
func DefaultLogger() Logger { return nopLogger{} }

// StdLogger adapts a standard library *log.Logger to the Logger interface.
func StdLogger(l *log.Logger) Logger { return stdLoggerAdapter{l} }

type stdLoggerAdapter struct{ l *log.Logger }

func (a stdLoggerAdapter) Printf(format string, v ...interface{}) { a.l.Printf(format, v...) }
