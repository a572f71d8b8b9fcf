/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger provides the structured logging facade shared by launcher,
// worker, transport, and client: a small Logger interface backed by
// logrus, nil-safe via FuncLog, with an adapter to retryablehttp's
// LeveledLogger.
package logger

import (
	loglvl "github.com/sabouaram/bitbridge/logger/level"
)

// FuncLog is a lazily-resolved Logger, the nil-safe convention every
// bitbridge constructor accepts instead of requiring a non-nil Logger.
type FuncLog func() Logger

// Logger is the structured logging surface used across bitbridge.
type Logger interface {
	// SetLevel changes the minimal severity that is actually emitted.
	SetLevel(lvl loglvl.Level)

	// GetLevel returns the current minimal severity.
	GetLevel() loglvl.Level

	// WithField returns a derived Logger carrying one extra field.
	WithField(key string, value interface{}) Logger

	// WithError returns a derived Logger carrying an "error" field.
	WithError(err error) Logger

	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warning(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Resolve calls fn if non-nil and returns its result, otherwise returns a
// Discard logger. Every bitbridge package that accepts a FuncLog funnels
// it through Resolve before use.
func Resolve(fn FuncLog) Logger {
	if fn == nil {
		return Discard()
	}

	l := fn()
	if l == nil {
		return Discard()
	}

	return l
}
