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

// Package mock is Mock Mode (spec.md §4.G): the same Extension runs
// in-process instead of inside a spawned worker, so host code can exercise
// its call surface under `go test` without a frozen worker executable on
// disk. It never touches a socket, never spawns a process, and never
// rejects a value the Object Codec would have refused — spec.md §4.G
// deliberately skips the encodability restriction, since nothing here is
// actually serialized.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/worker"
)

// Caller is a client.Caller implemented without importing package client,
// which would otherwise create an import cycle (client constructs a Caller
// that may be a mock.Caller). It drives worker.HandleRequest directly so
// Mock Mode and remote mode share identical dispatch semantics — spec.md
// §8 invariant 5 requires the two to return identical values for any call.
type Caller struct {
	ext worker.Extension

	mu     sync.Mutex
	closed bool
}

// New wraps ext as an in-process Caller.
func New(ext worker.Extension) *Caller {
	return &Caller{ext: ext}
}

// Call dispatches req against the wrapped Extension synchronously; deadline
// is accepted for interface parity with the remote Caller but is not
// enforced, since there is no network round trip to bound.
func (c *Caller) Call(ctx context.Context, req codec.Request, _ time.Duration) (codec.Response, error) {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return codec.Response{}, ferror.New(ferror.WorkerStopped, "call issued after Close", nil, "")
	}

	resp, wasShutdown := worker.HandleRequest(ctx, c.ext, req)
	if wasShutdown {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
	}

	return resp, nil
}

// Shutdown runs the BeforeShutdown hook (via the distinguished shutdown
// request, same as the remote path) and marks the Caller closed. It
// always returns empty streams, per spec.md §4.G: there is no child
// process to capture stdout/stderr from.
func (c *Caller) Shutdown(ctx context.Context, _, _ time.Duration) ([]byte, []byte, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, nil, nil
	}
	c.mu.Unlock()

	if _, err := c.Call(ctx, codec.NewRequest(0, codec.ShutdownMethod, nil, nil), 0); err != nil {
		return nil, nil, err
	}

	return nil, nil, nil
}
