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
	"runtime/debug"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
)

// HandleRequest resolves one Request against ext and builds its Response,
// recovering a panic inside the user's method into a "user" Fault (spec.md
// §4.D.3) and running the BeforeShutdown hook for the distinguished
// shutdown pseudo-method (spec.md §4.D.4). It is the single place this
// logic lives so Runtime (remote mode, spec.md §4.D) and mock.Caller
// (in-process mode, spec.md §4.G) share identical dispatch semantics —
// spec.md §8 invariant 5 requires the two modes produce identical return
// values for any call.
func HandleRequest(ctx context.Context, ext Extension, req codec.Request) (codec.Response, bool) {
	if req.IsShutdown() {
		var result codec.Value = codec.Unit{}
		if hook, ok := ext.(ShutdownHook); ok {
			result = hook.BeforeShutdown()
		}
		return codec.OkResponse(req.Seq, result), true
	}

	value, panicType, err := safeDispatch(ctx, ext, req)
	if err != nil {
		fault := translateFault(err)
		if panicType != "" {
			fault.TypeName = panicType
		}
		return codec.FaultResponse(req.Seq, fault), false
	}

	return codec.OkResponse(req.Seq, value), false
}

func safeDispatch(ctx context.Context, ext Extension, req codec.Request) (value codec.Value, panicType string, err error) {
	defer func() {
		if p := recover(); p != nil {
			panicType = fmt.Sprintf("%T", p)
			err = ferror.New(ferror.User, fmt.Sprintf("panic: %v", p), nil, string(debug.Stack()))
		}
	}()

	value, err = ext.Dispatch(ctx, req.Method, req.Args, req.Kwargs)
	return value, "", err
}

func translateFault(err error) codec.Fault {
	switch ferror.CodeOf(err) {
	case ferror.AttributeMissing:
		return codec.Fault{Kind: codec.FaultAttributeMissing, Message: err.Error()}
	case ferror.Codec:
		return codec.Fault{Kind: codec.FaultCodec, Message: err.Error()}
	default:
		var detail string
		if fe, ok := err.(ferror.Error); ok {
			detail = fe.Detail()
		}
		return codec.Fault{
			Kind:      codec.FaultUser,
			TypeName:  fmt.Sprintf("%T", err),
			Message:   err.Error(),
			Traceback: detail,
		}
	}
}
