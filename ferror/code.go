/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package ferror provides the fault taxonomy shared by every bitbridge
// package: a numeric CodeError classification, parent-error chaining, call
// site capture, and compatibility with the standard errors.Is/errors.As.
package ferror

import (
	"math"
	"sync"
)

// CodeError is a numeric fault classification, analogous to an HTTP status
// code. Each bitbridge package reserves its own range (see modules.go) so a
// CodeError value alone identifies both the package and the fault kind.
type CodeError uint16

const (
	// UnknownError is the fallback when no specific code applies.
	UnknownError CodeError = 0
)

// Fault kinds from spec.md §7. These are the only codes the RPC bridge
// itself raises; worker.Extension authors may register additional codes
// in their own range starting at MinAvailable.
const (
	// WorkerStartFailed: the process exited before readiness or the
	// readiness deadline elapsed. Carries captured stderr.
	WorkerStartFailed CodeError = MinPkgLauncher + iota
	// ProtocolVersionMismatch: worker refused the requested codec
	// version during bootstrap. Raised as a WorkerStartFailed subtype.
	ProtocolVersionMismatch
)

const (
	// WorkerStopped: Call invoked after Close.
	WorkerStopped CodeError = MinPkgClient + iota
	// RemoteTimeout: the per-call deadline was exceeded client-side.
	RemoteTimeout
)

const (
	// Transport: network I/O error during a call.
	Transport CodeError = MinPkgTransport + iota
)

const (
	// Codec: a value offered to Call (or returned by the remote method)
	// cannot be encoded/decoded under the negotiated protocol.
	Codec CodeError = MinPkgCodec + iota
)

const (
	// AttributeMissing: the remote name was not found on the extension.
	AttributeMissing CodeError = MinPkgWorker + iota
	// User: the user's method raised; carries remote type name, message,
	// and traceback text.
	User
)

var (
	msgMu  sync.RWMutex
	msgFct = map[CodeError]func(CodeError) string{
		UnknownError:            func(CodeError) string { return "unknown error" },
		WorkerStartFailed:       func(CodeError) string { return "worker failed to start" },
		ProtocolVersionMismatch: func(CodeError) string { return "worker refused the requested protocol version" },
		WorkerStopped:           func(CodeError) string { return "call issued after shutdown" },
		RemoteTimeout:           func(CodeError) string { return "call deadline exceeded" },
		Transport:                func(CodeError) string { return "transport error" },
		Codec:                    func(CodeError) string { return "value is not encodable under the negotiated protocol" },
		AttributeMissing:         func(CodeError) string { return "no such remote method or attribute" },
		User:                     func(CodeError) string { return "remote method raised" },
	}
)

// RegisterMessage lets a worker.Extension author attach a human-readable
// message to a CodeError it defines in its own range (>= MinAvailable).
func RegisterMessage(code CodeError, fct func(CodeError) string) {
	msgMu.Lock()
	defer msgMu.Unlock()
	msgFct[code] = fct
}

// Message returns the registered message for code, or UnknownError's
// message if nothing was registered.
func Message(code CodeError) string {
	msgMu.RLock()
	fct, ok := msgFct[code]
	msgMu.RUnlock()

	if !ok {
		return UnknownError.String()
	}

	return fct(code)
}

// String implements fmt.Stringer.
func (c CodeError) String() string {
	return Message(c)
}

// Uint16 returns the raw numeric value.
func (c CodeError) Uint16() uint16 {
	return uint16(c)
}

// ParseCodeError clamps an arbitrary integer into the CodeError range,
// falling back to UnknownError for negative input.
func ParseCodeError(i int64) CodeError {
	switch {
	case i < 0:
		return UnknownError
	case i >= int64(math.MaxUint16):
		return math.MaxUint16
	default:
		return CodeError(i)
	}
}
