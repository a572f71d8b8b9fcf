/*
 * MIT License
 *
 * Copyright (c) 2026 Nicolas JUHEL
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

// Package worker is the in-process dispatcher that runs inside the worker
// executable (spec.md §4.D): it resolves a requested method name against
// the user's extension, invokes it with decoded arguments, and turns the
// result (or a panic) into an encodable Response.
package worker

import (
	"context"

	"github.com/sabouaram/bitbridge/codec"
)

// Extension is the capability interface a worker module implements to
// expose its methods as remote calls. This replaces the source system's
// runtime attribute lookup (spec.md §9 "Dynamic attribute lookup on the
// extension object"): an author either implements Dispatch directly, or
// wraps a plain struct in Reflective to get attribute/method resolution
// by reflection.
type Extension interface {
	Dispatch(ctx context.Context, method string, args []codec.Value, kwargs map[string]codec.Value) (codec.Value, error)
}

// ShutdownHook is implemented by an Extension that wants to run cleanup
// logic before the worker process exits (spec.md §4.D.4). Its return
// value is carried in the shutdown Response.
type ShutdownHook interface {
	BeforeShutdown() codec.Value
}
