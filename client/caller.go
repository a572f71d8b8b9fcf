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

package client

import (
	"context"
	"time"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/launcher"
	"github.com/sabouaram/bitbridge/transport"
)

// Caller is the seam between Client and its execution mode: a remoteCaller
// drives a launcher.Worker over transport.Client (spec.md §4.F's normal
// path), while mock.Caller (package mock) routes straight into
// worker.Runtime's dispatch logic in-process (spec.md §4.G). Client itself
// never knows which one it holds.
type Caller interface {
	// Call sends one Request and returns its Response frame, decoded.
	Call(ctx context.Context, req codec.Request, deadline time.Duration) (codec.Response, error)

	// Shutdown tears down whatever resource backs this Caller and returns
	// the captured stdout/stderr streams (empty in Mock Mode, per spec.md
	// §4.G).
	Shutdown(ctx context.Context, grace, kill time.Duration) (stdout, stderr []byte, err error)
}

// remoteCaller is the Caller used by normal (non-mock) Open: it owns the
// spawned launcher.Worker and the transport.Client talking to it.
type remoteCaller struct {
	worker *launcher.Worker
	trans  *transport.Client
}

func (r *remoteCaller) Call(ctx context.Context, req codec.Request, deadline time.Duration) (codec.Response, error) {
	frame, err := codec.EncodeRequest(req)
	if err != nil {
		return codec.Response{}, err
	}

	respFrame, err := r.trans.Call(ctx, frame, deadline)
	if err != nil {
		return codec.Response{}, err
	}

	return codec.DecodeResponse(respFrame)
}

func (r *remoteCaller) Shutdown(ctx context.Context, grace, kill time.Duration) ([]byte, []byte, error) {
	streams, err := r.worker.Shutdown(ctx, grace, kill)
	if err != nil {
		return nil, nil, err
	}
	return streams.Stdout(), streams.Stderr(), nil
}
