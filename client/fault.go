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
	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
)

// faultToError is the client-side mirror of worker.translateFault: it
// turns a Response's Fault (spec.md §7) into a Go error of the matching
// kind, so host code can branch on ferror.CodeOf without ever seeing the
// wire representation (spec.md §4.F).
func faultToError(f *codec.Fault) error {
	if f == nil {
		return nil
	}

	switch f.Kind {
	case codec.FaultWorkerStartFailed:
		return ferror.New(ferror.WorkerStartFailed, f.Message, nil, f.Traceback)
	case codec.FaultWorkerStopped:
		return ferror.New(ferror.WorkerStopped, f.Message, nil, f.Traceback)
	case codec.FaultTransport:
		return ferror.New(ferror.Transport, f.Message, nil, f.Traceback)
	case codec.FaultCodec:
		return ferror.New(ferror.Codec, f.Message, nil, f.Traceback)
	case codec.FaultProtocolVersionMismatch:
		return ferror.New(ferror.ProtocolVersionMismatch, f.Message, nil, f.Traceback)
	case codec.FaultAttributeMissing:
		return ferror.New(ferror.AttributeMissing, f.Message, nil, f.Traceback)
	case codec.FaultRemoteTimeout:
		return ferror.New(ferror.RemoteTimeout, f.Message, nil, f.Traceback)
	default:
		return ferror.New(ferror.User, f.Message, nil, f.Traceback)
	}
}
