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

package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/bitbridge/atomicx"
	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/runner"
	"github.com/sabouaram/bitbridge/transport"
)

// Phase names the worker's state machine (spec.md §4.D):
// Starting -> Ready -> Handling <-> Ready -> Stopping -> Exited.
type Phase string

const (
	PhaseStarting Phase = "starting"
	PhaseReady    Phase = "ready"
	PhaseHandling Phase = "handling"
	PhaseStopping Phase = "stopping"
	PhaseExited   Phase = "exited"
)

// Runtime drives one worker process: it owns the transport.Server, decodes
// and dispatches each Request to an Extension, and tracks the state
// machine's current Phase. Its Start/Stop lifecycle is driven by the
// runner package.
type Runtime struct {
	ext     Extension
	srv     *transport.Server
	run     runner.Runner
	log     logger.Logger
	version codec.Version

	phase atomicx.Value[Phase]
	seq   uint64

	doneOnce sync.Once
	done     chan struct{}
}

// NewRuntime negotiates the requested protocol version and wires a
// transport.Server around ext. It does not bind a listener yet; call
// Start to do that.
func NewRuntime(ext Extension, host string, port int, maxBodyBytes int64, requestedProtocol string, log logger.Logger, reg prometheus.Registerer) (*Runtime, error) {
	version, ok, err := codec.Negotiate(requestedProtocol)
	if err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "invalid requested protocol version", err, requestedProtocol)
	}
	if !ok {
		return nil, ferror.New(ferror.ProtocolVersionMismatch,
			fmt.Sprintf("worker does not support requested protocol version %q", requestedProtocol), nil, "")
	}

	rt := &Runtime{
		ext:     ext,
		log:     logger.Resolve(func() logger.Logger { return log }),
		version: version,
		done:    make(chan struct{}),
		phase:   atomicx.NewValue[Phase](PhaseStarting),
	}

	rt.srv = transport.NewServer(host, port, maxBodyBytes, rt.handle, rt.log, reg)
	rt.run = runner.New(rt.serve, rt.teardown)

	return rt, nil
}

// Phase reports the worker's current lifecycle phase.
func (rt *Runtime) Phase() Phase {
	return rt.phase.Load()
}

// Addr returns the bound loopback address once Start has succeeded.
func (rt *Runtime) Addr() string {
	return rt.srv.Addr()
}

// Start binds the transport server, returning the bind error if there is
// one, and then blocks-in-background until either ctx is cancelled or a
// shutdown Request is handled.
func (rt *Runtime) Start(ctx context.Context) error {
	if err := rt.srv.Listen(); err != nil {
		return err
	}
	rt.phase.Store(PhaseReady)

	return rt.run.Start(ctx)
}

// Stop cancels the running instance and waits for the server to close.
func (rt *Runtime) Stop(ctx context.Context) error {
	return rt.run.Stop(ctx)
}

// Wait blocks until the worker has processed a shutdown Request.
func (rt *Runtime) Wait() {
	<-rt.done
}

func (rt *Runtime) serve(ctx context.Context) error {
	select {
	case <-ctx.Done():
	case <-rt.done:
	}

	return nil
}

func (rt *Runtime) teardown(ctx context.Context) error {
	rt.phase.Store(PhaseStopping)
	err := rt.srv.Shutdown(ctx)
	rt.phase.Store(PhaseExited)
	return err
}

// handle is the transport.Handler: decode one Request, dispatch it via
// HandleRequest, and encode exactly one Response (spec.md §3
// Request/Response invariant).
func (rt *Runtime) handle(ctx context.Context, body []byte) ([]byte, error) {
	req, err := codec.DecodeRequest(body)
	if err != nil {
		return codec.EncodeResponse(codec.FaultResponse(0, codec.Fault{
			Kind:    codec.FaultCodec,
			Message: err.Error(),
		}))
	}

	atomic.StoreUint64(&rt.seq, req.Seq)

	rt.phase.Store(PhaseHandling)
	resp, wasShutdown := HandleRequest(ctx, rt.ext, req)
	if wasShutdown {
		rt.doneOnce.Do(func() { close(rt.done) })
	} else {
		rt.phase.Store(PhaseReady)
	}

	return codec.EncodeResponse(resp)
}
