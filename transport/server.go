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

// Package transport is the loopback HTTP/1.1 client/server pair that
// carries opaque codec frames between the client facade and the worker
// (spec.md §4.C). The server is always single-threaded: a mutex serializes
// request handling even though net/http would happily run handlers
// concurrently.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
)

// DefaultMaxBodyBytes is the default request body ceiling (spec.md §4.C).
const DefaultMaxBodyBytes int64 = 64 << 20

// RequestPath is the single fixed route the worker's HTTP server answers.
const RequestPath = "/"

// Handler processes one encoded request frame and returns the encoded
// response frame. It is invoked with the server's handling mutex held, so
// implementations do not need to worry about concurrent invocation.
type Handler func(ctx context.Context, body []byte) ([]byte, error)

// Server is the worker-side half of the transport: a single-threaded
// net/http.Server bound to loopback only, answering exactly one route.
// Modeled on the teacher's httpserver.Server Listen/Shutdown/IsRunning
// lifecycle, stripped of TLS/HTTP2/multi-handler support this domain does
// not need.
type Server struct {
	mu      sync.Mutex
	host    string
	port    int
	maxBody int64
	handler Handler
	log     logger.Logger

	httpSrv *http.Server
	running atomic.Bool

	metricRequests prometheus.Counter
	metricFaults   prometheus.Counter
}

// NewServer builds a Server bound to host:port. maxBody <= 0 falls back to
// DefaultMaxBodyBytes. Metrics are registered against reg if reg is
// non-nil; a nil registry disables metrics entirely (SPEC_FULL.md §9.1).
func NewServer(host string, port int, maxBody int64, handler Handler, log logger.Logger, reg prometheus.Registerer) *Server {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	s := &Server{
		host:    host,
		port:    port,
		maxBody: maxBody,
		handler: handler,
		log:     logger.Resolve(func() logger.Logger { return log }),
	}

	if reg != nil {
		s.metricRequests = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bitbridge_worker_requests_total",
			Help: "Total number of RPC requests handled by the worker transport.",
		})
		s.metricFaults = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bitbridge_worker_request_faults_total",
			Help: "Total number of RPC requests that produced a transport-level fault.",
		})
		reg.MustRegister(s.metricRequests, s.metricFaults)
	}

	return s
}

// Addr returns the bound address once Listen has succeeded.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, fmt.Sprintf("%d", s.port))
}

// IsRunning reports whether the server is currently accepting connections.
func (s *Server) IsRunning() bool {
	return s.running.Load()
}

// Listen binds and starts serving in a background goroutine, returning once
// the listener is bound (so a readiness probe immediately after Listen
// returns will observe the port in use).
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return ferror.New(ferror.WorkerStartFailed, "worker transport failed to bind", err, s.Addr())
	}

	s.httpSrv = &http.Server{
		Handler: s,
	}
	s.running.Store(true)

	go func() {
		defer s.running.Store(false)

		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("worker transport server loop exited")
		}
	}()

	return nil
}

// Shutdown stops accepting new connections and waits for ctx's deadline for
// the in-flight request (there is at most one) to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

// ServeHTTP implements http.Handler. It rejects anything but POST / and
// enforces maxBody, then serializes the call to Handler behind s.mu so
// spec.md §4.C's "one request in flight at a time" holds regardless of what
// net/http itself would otherwise allow.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != RequestPath {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.countFault()
		http.Error(w, "request body exceeds limit or is unreadable", http.StatusRequestEntityTooLarge)
		return
	}

	s.mu.Lock()
	resp, err := s.handler(r.Context(), body)
	s.mu.Unlock()

	s.countRequest()

	if err != nil {
		s.countFault()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp)
}

func (s *Server) countRequest() {
	if s.metricRequests != nil {
		s.metricRequests.Inc()
	}
}

func (s *Server) countFault() {
	if s.metricFaults != nil {
		s.metricFaults.Inc()
	}
}
