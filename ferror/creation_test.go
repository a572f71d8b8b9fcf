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

package ferror_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/sabouaram/bitbridge/ferror"
)

var _ = Describe("Error creation", func() {
	It("formats the registered message for a known code", func() {
		err := New(User, "", nil, "")
		Expect(err.Error()).To(ContainSubstring("remote method raised"))
		Expect(err.Code()).To(Equal(User))
	})

	It("appends detail and parent text", func() {
		parent := errors.New("boom")
		err := New(WorkerStartFailed, "", parent, "captured stderr here")
		Expect(err.Error()).To(ContainSubstring("captured stderr here"))
		Expect(err.Error()).To(ContainSubstring("boom"))
	})

	It("tracks IsCode across a chain", func() {
		inner := Wrap(Transport, errors.New("dial tcp: timeout"))
		outer := New(RemoteTimeout, "", inner, "")

		Expect(outer.IsCode(RemoteTimeout)).To(BeTrue())
		Expect(outer.IsCode(Transport)).To(BeTrue())
		Expect(outer.IsCode(Codec)).To(BeFalse())
	})

	It("supports errors.Is/As through Unwrap", func() {
		inner := errors.New("sentinel")
		outer := Wrap(Codec, inner)

		Expect(errors.Is(outer, inner)).To(BeTrue())

		var f Error
		Expect(errors.As(error(outer), &f)).To(BeTrue())
		Expect(f.Code()).To(Equal(Codec))
	})

	It("exposes a caller location", func() {
		err := New(AttributeMissing, "", nil, "")
		Expect(err.Caller()).To(ContainSubstring("creation_test.go"))
	})
})

var _ = Describe("CodeOf / Is helpers", func() {
	It("returns UnknownError for a plain error", func() {
		Expect(CodeOf(errors.New("plain"))).To(Equal(UnknownError))
	})

	It("returns the wrapped code for a ferror.Error", func() {
		err := Wrap(ProtocolVersionMismatch, nil)
		Expect(CodeOf(err)).To(Equal(ProtocolVersionMismatch))
		Expect(Is(err, ProtocolVersionMismatch)).To(BeTrue())
		Expect(Is(err, WorkerStopped)).To(BeFalse())
	})
})

var _ = Describe("ParseCodeError", func() {
	It("clamps negative input to UnknownError", func() {
		Expect(ParseCodeError(-1)).To(Equal(UnknownError))
	})

	It("passes through valid values", func() {
		Expect(ParseCodeError(int64(User))).To(Equal(User))
	})
})
