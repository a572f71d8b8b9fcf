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
	"sync"
	"sync/atomic"
	"time"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/launcher"
	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/mock"
	"github.com/sabouaram/bitbridge/portalloc"
	"github.com/sabouaram/bitbridge/transport"
	"github.com/sabouaram/bitbridge/worker"
)

// Client is the host-side handle to one worker instance, remote or mock.
// It serializes calls (spec.md §4.F "at most one in-flight call per
// Client") and is safe to Close more than once.
type Client struct {
	desc   Descriptor
	caller Caller
	log    logger.Logger

	mu     sync.Mutex
	seq    uint64
	closed int32
}

// Open either spawns a worker process and connects to it, or, when
// opts.Host == HostNone, constructs a mock.Caller running opts.Loader
// in-process (spec.md §4.G). Open either returns a fully usable Client or
// an error; there is no partially-initialized Client an error path can
// leave behind.
func Open(ctx context.Context, opts Options) (*Client, error) {
	opts = opts.withDefaults()
	log := logger.Resolve(opts.Log)

	if opts.Host == HostNone {
		return openMock(opts, log)
	}
	return openRemote(ctx, opts, log)
}

func openMock(opts Options, log logger.Logger) (*Client, error) {
	if opts.Loader == nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "mock mode requires a LibraryLoader", nil, "")
	}

	ext, err := opts.Loader(worker.BootstrapOptions{
		Host:              HostNone,
		Module:            opts.Module,
		SysPath:           opts.SysPath,
		EnvPath:           opts.EnvPath,
		Options:           opts.UserOptions,
		ProtocolRequested: opts.Protocol,
		MaxBodyBytes:      opts.MaxBodyBytes,
	})
	if err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "mock loader failed", err, "")
	}

	desc := Descriptor{
		ID:       newCorrelationID(),
		Module:   opts.Module,
		Host:     HostNone,
		Protocol: opts.Protocol,
	}

	return &Client{
		desc:   desc,
		caller: mock.New(ext),
		log:    log,
	}, nil
}

func openRemote(ctx context.Context, opts Options, log logger.Logger) (*Client, error) {
	if opts.WorkerPath == "" {
		return nil, ferror.New(ferror.WorkerStartFailed, "remote mode requires Options.WorkerPath", nil, "")
	}

	port := opts.Port
	if port == 0 {
		reserved, err := portalloc.Reserve()
		if err != nil {
			return nil, ferror.New(ferror.WorkerStartFailed, "failed to reserve a loopback port", err, "")
		}
		port = reserved
	}

	id := newCorrelationID()
	clog := log.WithField("correlation_id", id).WithField("module", opts.Module)

	ld := launcher.Descriptor{
		WorkerPath:    opts.WorkerPath,
		Module:        opts.Module,
		WorkerDir:     opts.WorkerDir,
		Host:          opts.Host,
		Port:          port,
		SysPath:       opts.SysPath,
		EnvPath:       opts.EnvPath,
		Options:       opts.UserOptions,
		Protocol:      opts.Protocol,
		ReadyDeadline: opts.ReadyDeadline,
		Grace:         opts.Grace,
		Kill:          opts.Kill,
	}

	w, err := launcher.Launch(ctx, ld, clog, true)
	if err != nil {
		return nil, err
	}

	desc := Descriptor{
		ID:            id,
		Module:        opts.Module,
		Host:          opts.Host,
		Port:          port,
		Protocol:      opts.Protocol,
		ReadyDeadline: opts.ReadyDeadline,
		Grace:         opts.Grace,
		Kill:          opts.Kill,
	}

	return &Client{
		desc: desc,
		caller: &remoteCaller{
			worker: w,
			trans:  transport.NewClient(opts.Host, port, clog),
		},
		log: clog,
	}, nil
}

// Descriptor returns the identity of the worker this Client is bound to.
func (c *Client) Descriptor() Descriptor {
	return c.desc
}

// Call invokes one remote method and returns its decoded result. Only one
// Call may be in flight on a given Client at a time; concurrent callers
// block on each other, matching spec.md §4.F.
func (c *Client) Call(ctx context.Context, method string, args []codec.Value, kwargs map[string]codec.Value, deadline time.Duration) (codec.Value, error) {
	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ferror.New(ferror.WorkerStopped, "call issued after Close", nil, "")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if atomic.LoadInt32(&c.closed) != 0 {
		return nil, ferror.New(ferror.WorkerStopped, "call issued after Close", nil, "")
	}

	c.seq++
	req := codec.NewRequest(c.seq, method, args, kwargs)

	resp, err := c.caller.Call(ctx, req, deadline)
	if err != nil {
		return nil, err
	}
	if !resp.Ok {
		return nil, faultToError(resp.Fault)
	}
	return resp.Value, nil
}

// Close runs the shutdown ladder (spec.md §4.E) exactly once and returns
// the worker's captured stdout/stderr (both nil in Mock Mode). Calling
// Close again after the first call is a no-op that returns the same
// streams: both Caller implementations skip the ladder once shut down.
func (c *Client) Close(ctx context.Context) (stdout, stderr []byte, err error) {
	atomic.StoreInt32(&c.closed, 1)

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.caller.Shutdown(ctx, c.desc.Grace, c.desc.Kill)
}

// With opens a Client, runs fn, and guarantees Close runs afterward
// regardless of how fn returns, including via panic — the context-manager
// pattern of spec.md §4.F's "Open/Close around Call" usage.
func With(ctx context.Context, opts Options, fn func(*Client) error) error {
	c, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _, _, _ = c.Close(ctx) }()

	return fn(c)
}
