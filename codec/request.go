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

package codec

// ShutdownMethod is the distinguished pseudo-method name that triggers
// orderly worker shutdown (spec.md §4.D.4).
const ShutdownMethod = "__bitbridge_shutdown__"

// Request is one method invocation sent from the client facade to the
// worker. Seq is monotonic per worker and exists only for log
// correlation; the protocol itself is strictly request/response and does
// not need it for correctness.
type Request struct {
	Seq    uint64           `cbor:"seq"`
	Method string           `cbor:"method"`
	Args   []Value          `cbor:"args"`
	Kwargs map[string]Value `cbor:"kwargs"`
}

// NewRequest builds a Request, normalizing nil args/kwargs to empty
// collections so the wire form never needs to special-case "absent".
func NewRequest(seq uint64, method string, args []Value, kwargs map[string]Value) Request {
	if args == nil {
		args = []Value{}
	}
	if kwargs == nil {
		kwargs = map[string]Value{}
	}

	return Request{Seq: seq, Method: method, Args: args, Kwargs: kwargs}
}

// IsShutdown reports whether this request is the distinguished shutdown
// pseudo-method.
func (r Request) IsShutdown() bool {
	return r.Method == ShutdownMethod
}
