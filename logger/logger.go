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

package logger

import (
	"io"

	"github.com/sirupsen/logrus"

	loglvl "github.com/sabouaram/bitbridge/logger/level"
)

type lgr struct {
	e *logrus.Entry
	l *logrus.Logger
}

// New returns a Logger writing JSON-less text lines to w at the given
// level. Passing io.Discard (or calling Discard()) yields a logger that
// never writes, without special-casing nil checks at every call site.
func New(w io.Writer, lvl loglvl.Level) Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl.Logrus())

	return &lgr{
		e: logrus.NewEntry(l),
		l: l,
	}
}

// Discard returns a Logger that drops every entry. This is the default a
// bitbridge constructor falls back to when given a nil FuncLog.
func Discard() Logger {
	return New(io.Discard, loglvl.ErrorLevel)
}

func (g *lgr) SetLevel(lvl loglvl.Level) {
	g.l.SetLevel(lvl.Logrus())
}

func (g *lgr) GetLevel() loglvl.Level {
	switch g.l.GetLevel() {
	case logrus.DebugLevel, logrus.TraceLevel:
		return loglvl.DebugLevel
	case logrus.InfoLevel:
		return loglvl.InfoLevel
	case logrus.WarnLevel:
		return loglvl.WarnLevel
	case logrus.ErrorLevel:
		return loglvl.ErrorLevel
	case logrus.FatalLevel:
		return loglvl.FatalLevel
	case logrus.PanicLevel:
		return loglvl.PanicLevel
	default:
		return loglvl.InfoLevel
	}
}

func (g *lgr) WithField(key string, value interface{}) Logger {
	return &lgr{e: g.e.WithField(key, value), l: g.l}
}

func (g *lgr) WithError(err error) Logger {
	return &lgr{e: g.e.WithError(err), l: g.l}
}

func (g *lgr) Debug(msg string, args ...interface{}) {
	g.e.Debugf(msg, args...)
}

func (g *lgr) Info(msg string, args ...interface{}) {
	g.e.Infof(msg, args...)
}

func (g *lgr) Warning(msg string, args ...interface{}) {
	g.e.Warnf(msg, args...)
}

func (g *lgr) Error(msg string, args ...interface{}) {
	g.e.Errorf(msg, args...)
}

func (g *lgr) Fatal(msg string, args ...interface{}) {
	g.e.Fatalf(msg, args...)
}
