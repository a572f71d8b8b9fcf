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

package ferror

import (
	"errors"
	"fmt"
)

// Error is a CodeError-classified error that may wrap a parent error and
// carries extra diagnostic text (e.g. a remote traceback for the User
// fault kind, or captured stderr for WorkerStartFailed).
type Error interface {
	error

	// Code returns the fault classification.
	Code() CodeError

	// IsCode reports whether this error (or any of its parents) carries
	// the given code.
	IsCode(code CodeError) bool

	// Parent returns the wrapped error, or nil if there is none.
	Parent() error

	// Detail returns extra diagnostic text attached at creation time
	// (captured stderr, remote traceback, ...). May be empty.
	Detail() string

	// Caller returns "file:line" of where the error was created.
	Caller() string

	// Unwrap supports errors.Is / errors.As against Parent().
	Unwrap() error
}

type fault struct {
	code   CodeError
	msg    string
	detail string
	parent error
	caller string
}

// New creates an Error with the given code, optional parent error, and
// optional extra detail text. msg overrides the registered message for
// code when non-empty.
func New(code CodeError, msg string, parent error, detail string) Error {
	return &fault{
		code:   code,
		msg:    msg,
		detail: detail,
		parent: parent,
		caller: caller(2),
	}
}

// Wrap is a convenience for New(code, "", parent, "").
func Wrap(code CodeError, parent error) Error {
	return &fault{
		code:   code,
		parent: parent,
		caller: caller(2),
	}
}

func (f *fault) Error() string {
	msg := f.msg
	if msg == "" {
		msg = Message(f.code)
	}

	if f.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, f.detail)
	}

	if f.parent != nil {
		return fmt.Sprintf("%s: %s", msg, f.parent.Error())
	}

	return msg
}

func (f *fault) Code() CodeError {
	return f.code
}

func (f *fault) IsCode(code CodeError) bool {
	if f.code == code {
		return true
	}

	var p Error
	if errors.As(f.parent, &p) {
		return p.IsCode(code)
	}

	return false
}

func (f *fault) Parent() error {
	return f.parent
}

func (f *fault) Detail() string {
	return f.detail
}

func (f *fault) Caller() string {
	return f.caller
}

func (f *fault) Unwrap() error {
	return f.parent
}
