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
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/portalloc"
	"github.com/sabouaram/bitbridge/transport"
	. "github.com/sabouaram/bitbridge/worker"
)

var _ = Describe("Runtime end-to-end", func() {
	var (
		rt   *Runtime
		cli  *transport.Client
		port int
	)

	BeforeEach(func() {
		var err error
		port, err = portalloc.Reserve()
		Expect(err).ToNot(HaveOccurred())

		rt, err = NewRuntime(NewReflective(&demoExtension{Version: 7}), "127.0.0.1", port, 0, "1", logger.Discard(), nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(rt.Start(context.Background())).ToNot(HaveOccurred())
		Eventually(func() bool { return portalloc.IsInUse("127.0.0.1", port, 20*time.Millisecond) }).Should(BeTrue())

		cli = transport.NewClient("127.0.0.1", port, logger.Discard())
	})

	AfterEach(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = rt.Stop(ctx)
	})

	call := func(method string, args []codec.Value, kwargs map[string]codec.Value) codec.Response {
		frame, err := codec.EncodeRequest(codec.NewRequest(1, method, args, kwargs))
		Expect(err).ToNot(HaveOccurred())

		respFrame, err := cli.Call(context.Background(), frame, time.Second)
		Expect(err).ToNot(HaveOccurred())

		resp, err := codec.DecodeResponse(respFrame)
		Expect(err).ToNot(HaveOccurred())
		return resp
	}

	It("rejects the worker's own protocol version requested too new", func() {
		_, err := NewRuntime(NewReflective(&demoExtension{}), "127.0.0.1", port, 0, "99", logger.Discard(), nil)
		Expect(err).To(HaveOccurred())
		Expect(ferror.Is(err, ferror.ProtocolVersionMismatch)).To(BeTrue())
	})

	It("dispatches add(3, 14) end to end and returns 17", func() {
		resp := call("add", []codec.Value{int64(3), int64(14)}, nil)
		Expect(resp.Ok).To(BeTrue())
		Expect(resp.Value).To(Equal(int64(17)))
	})

	It("produces a user fault for a method that panics", func() {
		resp := call("boom", nil, nil)
		Expect(resp.Ok).To(BeFalse())
		Expect(resp.Fault.Kind).To(Equal(codec.FaultUser))
		Expect(resp.Fault.Message).To(ContainSubstring("kaboom"))
	})

	It("produces an attribute-missing fault for an unknown method", func() {
		resp := call("does_not_exist", nil, nil)
		Expect(resp.Ok).To(BeFalse())
		Expect(resp.Fault.Kind).To(Equal(codec.FaultAttributeMissing))
	})

	It("shuts down in response to the distinguished shutdown method", func() {
		frame, err := codec.EncodeRequest(codec.NewRequest(9, codec.ShutdownMethod, nil, nil))
		Expect(err).ToNot(HaveOccurred())

		respFrame, err := cli.Call(context.Background(), frame, time.Second)
		Expect(err).ToNot(HaveOccurred())

		resp, err := codec.DecodeResponse(respFrame)
		Expect(err).ToNot(HaveOccurred())
		Expect(resp.Ok).To(BeTrue())

		done := make(chan struct{})
		go func() { rt.Wait(); close(done) }()
		Eventually(done).Should(BeClosed())
	})
})
