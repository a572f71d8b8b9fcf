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

package codec_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
)

var _ = Describe("Encode/Decode round trip", func() {
	DescribeTable("round-trips scalar and collection values",
		func(v Value) {
			frame, err := Encode(v)
			Expect(err).ToNot(HaveOccurred())

			var out Value
			Expect(Decode(frame, &out)).ToNot(HaveOccurred())
			Expect(out).To(Equal(v))
		},
		Entry("bool true", true),
		Entry("bool false", false),
		Entry("int64", int64(17)),
		Entry("float64", 40.0),
		Entry("string", "!dlrow olleh"),
		Entry("byte string", []byte{0x01, 0x02, 0x03}),
		Entry("sequence", []Value{1.2, "hello world!"}),
		Entry("mapping", map[string]Value{"x": true, "y": "hello world!"}),
	)

	It("round-trips NaN bit-for-bit (NaN considered equal to NaN for this test)", func() {
		frame, err := Encode(math.NaN())
		Expect(err).ToNot(HaveOccurred())

		var out Value
		Expect(Decode(frame, &out)).ToNot(HaveOccurred())

		f, ok := out.(float64)
		Expect(ok).To(BeTrue())
		Expect(math.IsNaN(f)).To(BeTrue())
	})

	It("round-trips +Inf and -Inf", func() {
		for _, v := range []float64{math.Inf(1), math.Inf(-1)} {
			frame, err := Encode(v)
			Expect(err).ToNot(HaveOccurred())

			var out Value
			Expect(Decode(frame, &out)).ToNot(HaveOccurred())
			Expect(out).To(Equal(v))
		}
	})

	It("rejects a frame with an unsupported version header", func() {
		frame, err := Encode("hello")
		Expect(err).ToNot(HaveOccurred())

		frame[0] = byte(CurrentVersion) + 1

		var out Value
		err = Decode(frame, &out)
		Expect(err).To(HaveOccurred())
		Expect(ferror.Is(err, ferror.ProtocolVersionMismatch)).To(BeTrue())
	})

	It("rejects a frame shorter than the version header", func() {
		var out Value
		err := Decode([]byte{}, &out)
		Expect(err).To(HaveOccurred())
		Expect(ferror.CodeOf(err)).To(Equal(ferror.Codec))
	})
})

var _ = Describe("Request/Response frames", func() {
	It("round-trips a Request with positional and keyword arguments", func() {
		req := NewRequest(1, "send_data", []Value{1.2, map[string]Value{"my_list": []Value{int64(1), int64(2), int64(3)}}},
			map[string]Value{"x": true, "y": "hello world!"})

		frame, err := EncodeRequest(req)
		Expect(err).ToNot(HaveOccurred())

		out, err := DecodeRequest(frame)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Method).To(Equal("send_data"))
		Expect(out.Kwargs["x"]).To(Equal(true))
		Expect(out.Kwargs["y"]).To(Equal("hello world!"))
	})

	It("round-trips an Ok Response", func() {
		resp := OkResponse(5, int64(17))

		frame, err := EncodeResponse(resp)
		Expect(err).ToNot(HaveOccurred())

		out, err := DecodeResponse(frame)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Ok).To(BeTrue())
		Expect(out.Value).To(Equal(int64(17)))
	})

	It("round-trips a Fault Response carrying a user fault", func() {
		resp := FaultResponse(5, Fault{
			Kind:      FaultUser,
			TypeName:  "ValueError",
			Message:   "division by zero",
			Traceback: "line 12, in divide",
		})

		frame, err := EncodeResponse(resp)
		Expect(err).ToNot(HaveOccurred())

		out, err := DecodeResponse(frame)
		Expect(err).ToNot(HaveOccurred())
		Expect(out.Ok).To(BeFalse())
		Expect(out.Fault.Kind).To(Equal(FaultUser))
		Expect(out.Fault.Message).To(ContainSubstring("division by zero"))
	})

	It("recognizes the distinguished shutdown method", func() {
		req := NewRequest(0, ShutdownMethod, nil, nil)
		Expect(req.IsShutdown()).To(BeTrue())

		other := NewRequest(0, "add", nil, nil)
		Expect(other.IsShutdown()).To(BeFalse())
	})
})

var _ = Describe("Negotiate", func() {
	It("accepts the current version as a bare integer", func() {
		v, ok, err := Negotiate("1")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(CurrentVersion))
	})

	It("accepts the current version as a dotted string", func() {
		_, ok, err := Negotiate("1.0.0")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("refuses a version newer than CurrentVersion", func() {
		_, ok, err := Negotiate("99")
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("errors on a malformed version string", func() {
		_, _, err := Negotiate("not-a-version")
		Expect(err).To(HaveOccurred())
	})
})
