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

// Package launcher spawns and supervises the worker process (spec.md §4.E):
// CLI construction, stdout/stderr capture, readiness polling, and the
// graceful/forceful/kill shutdown ladder.
package launcher

import (
	"bytes"
	"io"
	"sync"

	"github.com/sabouaram/bitbridge/logger"
)

// Streams accumulates a child process's stdout and stderr for the lifetime
// of the launch, and remains readable after the process has exited so
// Shutdown can return the full captured output (spec.md §4.F shutdown
// returns "(stdout, stderr)").
//
// Each pipe is drained by a background goroutine copying into a buffer
// guarded by its own mutex, the same split between a synchronized sink and
// an async feeder the teacher's ioutils/aggregator uses for its write
// channel; unlike the aggregator this has no periodic flush callback to
// run, so a plain mutex-guarded bytes.Buffer replaces its buffered channel
// and ticking loop.
type Streams struct {
	outMu sync.Mutex
	out   bytes.Buffer

	errMu sync.Mutex
	err   bytes.Buffer

	wg sync.WaitGroup
}

func newStreams() *Streams {
	return &Streams{}
}

// pump tees r into the accumulating buffer and, at Debug level, into log,
// mirroring the teacher's ioutils/multi tee-to-multiple-writers shape: the
// same bytes are fed to two destinations (the rewindable buffer and the
// structured logger), one chunk at a time from the same goroutine.
func (s *Streams) pump(name string, r io.Reader, mu *sync.Mutex, buf *bytes.Buffer, log logger.Logger) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		chunk := make([]byte, 4096)
		for {
			n, rerr := r.Read(chunk)
			if n > 0 {
				mu.Lock()
				buf.Write(chunk[:n])
				mu.Unlock()
				log.Debug("worker %s: %s", name, chunk[:n])
			}
			if rerr != nil {
				return
			}
		}
	}()
}

// wait blocks until both pipes have been fully drained (EOF, which the
// runtime guarantees once the child process exits and closes its ends).
func (s *Streams) wait() {
	s.wg.Wait()
}

// Stdout returns a snapshot of everything captured so far. Safe to call
// concurrently with an in-progress capture.
func (s *Streams) Stdout() []byte {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	return append([]byte(nil), s.out.Bytes()...)
}

// Stderr returns a snapshot of everything captured so far.
func (s *Streams) Stderr() []byte {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return append([]byte(nil), s.err.Bytes()...)
}
