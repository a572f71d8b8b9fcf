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

// Package portalloc picks a free loopback TCP port and probes whether a
// given host:port is already accepting connections (spec.md §4.A). The OS
// chooses the port; no determinism beyond "currently free" is promised.
package portalloc

import (
	"fmt"
	"net"
	"time"
)

// Reserve binds a temporary TCP socket to port 0 on the loopback interface,
// reads back the port the kernel assigned, then closes the socket and
// returns the port number. Closing the socket before returning is a
// deliberate bind-then-release race: the caller (client.Open) accepts
// the small window where another process could steal the port before the
// worker binds it, per spec.md §4.A's own acknowledgement of that window.
func Reserve() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("portalloc: reserve: %w", err)
	}
	defer l.Close()

	addr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return 0, fmt.Errorf("portalloc: reserve: unexpected listener address type %T", l.Addr())
	}

	return addr.Port, nil
}

// IsInUse reports whether host:port currently accepts a TCP connection.
// A dial failure of any kind (refused, timed out, host unreachable) is
// treated as "not in use" — this function answers a liveness question, not
// a diagnostic one.
func IsInUse(host string, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}
