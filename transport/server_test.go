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
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/portalloc"
	. "github.com/sabouaram/bitbridge/transport"
)

var _ = Describe("Server", func() {
	var (
		srv  *Server
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

	It("serves POST / and echoes the handler's response", func() {
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			return append([]byte("echo:"), body...), nil
		}, logger.Discard(), nil)

		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		resp, err := http.Post(fmt.Sprintf("http://%s/", srv.Addr()), "application/octet-stream", bytes.NewReader([]byte("hi")))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("rejects non-POST methods", func() {
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		resp, err := http.Get(fmt.Sprintf("http://%s/", srv.Addr()))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
	})

	It("rejects unknown paths", func() {
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		resp, err := http.Post(fmt.Sprintf("http://%s/other", srv.Addr()), "application/octet-stream", nil)
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
	})

	It("rejects a body one byte over the configured limit", func() {
		srv = NewServer("127.0.0.1", port, 8, func(ctx context.Context, body []byte) ([]byte, error) {
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		resp, err := http.Post(fmt.Sprintf("http://%s/", srv.Addr()), "application/octet-stream", bytes.NewReader(make([]byte, 9)))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusRequestEntityTooLarge))
	})

	It("accepts a body exactly at the configured limit", func() {
		srv = NewServer("127.0.0.1", port, 8, func(ctx context.Context, body []byte) ([]byte, error) {
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		resp, err := http.Post(fmt.Sprintf("http://%s/", srv.Addr()), "application/octet-stream", bytes.NewReader(make([]byte, 8)))
		Expect(err).ToNot(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))
	})

	It("serializes concurrent requests through the handling mutex", func() {
		var active, maxActive int32
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			active++
			if active > maxActive {
				maxActive = active
			}
			time.Sleep(5 * time.Millisecond)
			active--
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		done := make(chan struct{}, 4)
		for i := 0; i < 4; i++ {
			go func() {
				defer GinkgoRecover()
				resp, err := http.Post(fmt.Sprintf("http://%s/", srv.Addr()), "application/octet-stream", bytes.NewReader([]byte("x")))
				Expect(err).ToNot(HaveOccurred())
				resp.Body.Close()
				done <- struct{}{}
			}()
		}
		for i := 0; i < 4; i++ {
			<-done
		}

		Expect(maxActive).To(Equal(int32(1)))
	})

	It("shuts down cleanly and stops accepting", func() {
		srv = NewServer("127.0.0.1", port, 0, func(ctx context.Context, body []byte) ([]byte, error) {
			return body, nil
		}, logger.Discard(), nil)
		Expect(srv.Listen()).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeTrue())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(srv.Shutdown(ctx)).ToNot(HaveOccurred())
		Eventually(srv.IsRunning).Should(BeFalse())
	})
})
