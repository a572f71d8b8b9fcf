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

package worker_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
	. "github.com/sabouaram/bitbridge/worker"
)

// demoExtension exercises every reflective dispatch shape against the
// literal scenarios of spec.md §8.
type demoExtension struct {
	Version int64
}

func (d *demoExtension) Add(args ...codec.Value) (codec.Value, error) {
	return args[0].(int64) + args[1].(int64), nil
}

func (d *demoExtension) Subtract(args ...codec.Value) (codec.Value, error) {
	return args[0].(float64) - args[1].(float64), nil
}

func (d *demoExtension) ScalarMultiply(args ...codec.Value) (codec.Value, error) {
	factor := args[0].(float64)
	list := args[1].([]codec.Value)
	out := make([]codec.Value, len(list))
	for i, v := range list {
		out[i] = factor * v.(float64)
	}
	return out, nil
}

func (d *demoExtension) ReverseStringV1(args ...codec.Value) (codec.Value, error) {
	r := []rune(args[0].(string))
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r), nil
}

func (d *demoExtension) SendData(args []codec.Value, kwargs map[string]codec.Value) (codec.Value, error) {
	return []codec.Value{args, kwargs}, nil
}

func (d *demoExtension) Boom(args ...codec.Value) (codec.Value, error) {
	panic("kaboom")
}

var _ = Describe("Reflective", func() {
	var ext *Reflective

	BeforeEach(func() {
		ext = NewReflective(&demoExtension{Version: 7})
	})

	It("add(3, 14) returns 17", func() {
		v, err := ext.Dispatch(context.Background(), "add", []codec.Value{int64(3), int64(14)}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(int64(17)))
	})

	It("subtract(43.2, 3.2) returns 40.0 exactly", func() {
		v, err := ext.Dispatch(context.Background(), "subtract", []codec.Value{43.2, 3.2}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(40.0))
	})

	It("scalar_multiply(2.0, [0,1,2,3,4]) returns the scaled list", func() {
		list := []codec.Value{0.0, 1.0, 2.0, 3.0, 4.0}
		v, err := ext.Dispatch(context.Background(), "scalar_multiply", []codec.Value{2.0, list}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal([]codec.Value{0.0, 2.0, 4.0, 6.0, 8.0}))
	})

	It("reverse_string_v1(\"hello world!\") returns the reversed string", func() {
		v, err := ext.Dispatch(context.Background(), "reverse_string_v1", []codec.Value{"hello world!"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal("!dlrow olleh"))
	})

	It("version (a non-callable attribute) returns its current value with zero args", func() {
		v, err := ext.Dispatch(context.Background(), "version", nil, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(int64(7)))
	})

	It("send_data passes positional and keyword arguments through untouched", func() {
		kwargs := map[string]codec.Value{"x": true, "y": "hello world!"}
		v, err := ext.Dispatch(context.Background(), "send_data", []codec.Value{1.2}, kwargs)
		Expect(err).ToNot(HaveOccurred())
		pair := v.([]codec.Value)
		Expect(pair[0]).To(Equal([]codec.Value{1.2}))
		Expect(pair[1]).To(Equal(kwargs))
	})

	It("returns an attribute-missing fault for an unknown name", func() {
		_, err := ext.Dispatch(context.Background(), "does_not_exist", nil, nil)
		Expect(err).To(HaveOccurred())
		Expect(ferror.CodeOf(err)).To(Equal(ferror.AttributeMissing))
	})

	It("rejects calling a non-callable attribute with arguments", func() {
		_, err := ext.Dispatch(context.Background(), "version", []codec.Value{int64(1)}, nil)
		Expect(err).To(HaveOccurred())
		Expect(ferror.CodeOf(err)).To(Equal(ferror.AttributeMissing))
	})
})
