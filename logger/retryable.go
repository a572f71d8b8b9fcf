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

import "fmt"

// retryableAdapter satisfies retryablehttp.LeveledLogger without importing
// that package here, so logger has no dependency on transport's choice of
// HTTP client. transport.NewClient assigns it to retryablehttp.Client's
// Logger field, which retryablehttp type-switches on when it logs.
type retryableAdapter struct {
	l Logger
}

// AsRetryableHTTPLogger adapts l to the {Error,Info,Debug,Warn}(msg string,
// keysAndValues ...interface{}) shape retryablehttp.LeveledLogger expects.
// Mirrors the teacher's hclog adapter (logger/hclog.go): same idea, a
// different target interface.
func AsRetryableHTTPLogger(l Logger) interface {
	Error(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
} {
	return &retryableAdapter{l: l}
}

func (a *retryableAdapter) format(msg string, kv []interface{}) string {
	for i := 0; i+1 < len(kv); i += 2 {
		msg += fmt.Sprintf(" %v=%v", kv[i], kv[i+1])
	}
	return msg
}

func (a *retryableAdapter) Error(msg string, kv ...interface{}) {
	a.l.Error("%s", a.format(msg, kv))
}

func (a *retryableAdapter) Info(msg string, kv ...interface{}) {
	a.l.Info("%s", a.format(msg, kv))
}

func (a *retryableAdapter) Debug(msg string, kv ...interface{}) {
	a.l.Debug("%s", a.format(msg, kv))
}

func (a *retryableAdapter) Warn(msg string, kv ...interface{}) {
	a.l.Warning("%s", a.format(msg, kv))
}
