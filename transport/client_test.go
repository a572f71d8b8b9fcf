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

package transport_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/portalloc"
	. "github.com/sabouaram/bitbridge/transport"
)

var _ = Describe("Client", func() {
	var (
		srv  *Server
		cli  *Client
		port int
	)

	BeforeEach(func() {
		var err error
		port, err = portalloc.Reserve()
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}
	})

	It("round-trips a call to a running server", func() {
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			return append([]byte("got:"), body...), nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		cli = NewClient("127.0.0.1", port, logger.Discard())
		resp, err := cli.Call(context.Background(), []byte("ping"), 0)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(resp)).To(Equal("got:ping"))
	})

	It("surfaces ferror.RemoteTimeout when the deadline expires", func() {
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			time.Sleep(200 * time.Millisecond)
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		cli = NewClient("127.0.0.1", port, logger.Discard())
		_, err := cli.Call(context.Background(), []byte("ping"), 20*time.Millisecond)
		Expect(err).To(HaveOccurred())
		Expect(ferror.Is(err, ferror.RemoteTimeout)).To(BeTrue())
	})

	It("surfaces ferror.Transport when there is nothing listening", func() {
		cli = NewClient("127.0.0.1", port, logger.Discard())
		_, err := cli.Call(context.Background(), []byte("ping"), 200*time.Millisecond)
		Expect(err).To(HaveOccurred())
		Expect(ferror.CodeOf(err)).To(Equal(ferror.Transport))
	})
})
