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

// FaultKind names the tagged-union branch of a Fault, matching spec.md §7
// one-for-one. Kept as a string (rather than an int enum) so it serializes
// identically regardless of which side produced it.
type FaultKind string

const (
	FaultWorkerStartFailed       FaultKind = "worker-start-failed"
	FaultWorkerStopped           FaultKind = "worker-stopped"
	FaultTransport               FaultKind = "transport"
	FaultCodec                   FaultKind = "codec"
	FaultProtocolVersionMismatch FaultKind = "protocol-version-mismatch"
	FaultAttributeMissing        FaultKind = "attribute-missing"
	FaultRemoteTimeout           FaultKind = "remote-timeout"
	FaultUser                    FaultKind = "user"
)

// Fault is the structured, typed failure half of the Response tagged
// union (spec.md §3 "Response"). Traceback is opaque text: the client
// never attempts to reconstitute the original remote error type.
type Fault struct {
	Kind      FaultKind `cbor:"kind"`
	TypeName  string    `cbor:"type_name,omitempty"`
	Message   string    `cbor:"message"`
	Traceback string    `cbor:"traceback,omitempty"`
}

func (f *Fault) Error() string {
	if f.TypeName != "" {
		return string(f.Kind) + ": " + f.TypeName + ": " + f.Message
	}
	return string(f.Kind) + ": " + f.Message
}

// Response is the outcome of exactly one Request: either Ok(Value) or
// Fault(kind, message, traceback), never both.
type Response struct {
	Seq   uint64  `cbor:"seq"`
	Ok    bool    `cbor:"ok"`
	Value Value   `cbor:"value,omitempty"`
	Fault *Fault  `cbor:"fault,omitempty"`
}

// OkResponse builds a successful Response.
func OkResponse(seq uint64, value Value) Response {
	return Response{Seq: seq, Ok: true, Value: value}
}

// FaultResponse builds a failed Response.
func FaultResponse(seq uint64, f Fault) Response {
	return Response{Seq: seq, Ok: false, Fault: &f}
}
