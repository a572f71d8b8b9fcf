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

// Package client is the Client Facade (spec.md §4.F): the public object
// host code talks to. It composes the Worker Launcher, Port Allocator,
// Object Codec, and Transport into one `Open`/`Call`/`Close` surface, and
// falls back to Mock Mode when Options.Host is HostNone.
package client

import (
	"time"

	"github.com/hashicorp/go-uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/worker"
)

// HostNone selects Mock Mode (spec.md §4.G): the extension runs in-process
// and Open never spawns a worker.
const HostNone = "none"

// Descriptor identifies one worker instance (spec.md §3 Worker
// Descriptor), as observed from the client side after Open succeeds.
type Descriptor struct {
	// ID is a per-Open correlation identifier used only for log
	// correlation across the client and worker stderr streams
	// (SPEC_FULL.md §9.2); it is never sent over the wire.
	ID string

	Module   string
	Host     string
	Port     int
	Protocol string

	ReadyDeadline time.Duration
	Grace         time.Duration
	Kill          time.Duration
}

// Options configures Open. Zero-valued fields fall back to config.Defaults
// equivalents the caller may also supply directly.
type Options struct {
	// WorkerPath is the path to the frozen worker executable (spec.md §1's
	// single-file packaging step). Required unless Host == HostNone.
	WorkerPath string
	// Module is the user extension identifier passed as --module.
	Module string
	// WorkerDir is an optional working directory for the worker process.
	WorkerDir string

	// Host selects remote mode (a loopback literal, default 127.0.0.1) or
	// HostNone for Mock Mode.
	Host string
	// Port pins the worker's port; 0 lets portalloc choose one.
	Port int

	SysPath []string
	EnvPath []string
	// UserOptions are passed to the worker's --options flag (string-keyed,
	// string-valued only, per spec.md §6) or, in Mock Mode, straight to
	// Loader.
	UserOptions map[string]string

	Protocol     string
	MaxBodyBytes int64

	ReadyDeadline time.Duration
	Grace         time.Duration
	Kill          time.Duration

	// Loader constructs the worker.Extension. In remote mode the worker
	// process resolves it itself via worker.StaticRegistry; Loader here is
	// only consulted in Mock Mode, where the extension runs in this
	// process instead of a child one.
	Loader worker.LibraryLoader

	Log      logger.FuncLog
	Registry prometheus.Registerer
}

func (o Options) withDefaults() Options {
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	if o.Protocol == "" {
		o.Protocol = "1"
	}
	if o.ReadyDeadline <= 0 {
		o.ReadyDeadline = 10 * time.Second
	}
	if o.Grace <= 0 {
		o.Grace = 5 * time.Second
	}
	if o.Kill <= 0 {
		o.Kill = 2 * time.Second
	}
	return o
}

func newCorrelationID() string {
	id, err := uuid.GenerateUUID()
	if err != nil {
		return "unavailable"
	}
	return id
}
