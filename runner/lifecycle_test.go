/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package runner_test

import (
	"context"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/sabouaram/bitbridge/runner"
)

var _ = Describe("Lifecycle", func() {
	Context("Start", func() {
		It("should start successfully with a blocking function", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var started atomic.Bool

			start := func(c context.Context) error {
				started.Store(true)
				<-c.Done()
				return nil
			}
			stop := func(c context.Context) error { return nil }

			r := New(start, stop)
			Expect(r.Start(x)).ToNot(HaveOccurred())

			Eventually(started.Load, time.Second).Should(BeTrue())
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			_ = r.Stop(x)
		})

		It("should stop the previous instance when started again", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var startCount atomic.Int32

			start := func(c context.Context) error {
				startCount.Add(1)
				<-c.Done()
				return nil
			}
			stop := func(c context.Context) error { return nil }

			r := New(start, stop)
			Expect(r.Start(x)).ToNot(HaveOccurred())
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			Expect(r.Start(x)).ToNot(HaveOccurred())
			Eventually(func() int32 { return startCount.Load() }, time.Second).Should(BeNumerically(">=", int32(2)))

			_ = r.Stop(x)
		})
	})

	Context("Stop", func() {
		It("is idempotent", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var stopCount atomic.Int32

			start := func(c context.Context) error { <-c.Done(); return nil }
			stop := func(c context.Context) error { stopCount.Add(1); return nil }

			r := New(start, stop)
			Expect(r.Start(x)).ToNot(HaveOccurred())
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			Expect(r.Stop(x)).ToNot(HaveOccurred())
			Expect(r.Stop(x)).ToNot(HaveOccurred())

			Consistently(func() int32 { return stopCount.Load() }, 200*time.Millisecond, 50*time.Millisecond).
				Should(BeNumerically("<=", int32(1)))
		})

		It("is a no-op when nothing is running", func() {
			start := func(c context.Context) error { return nil }
			stop := func(c context.Context) error { return nil }

			r := New(start, stop)
			Expect(r.Stop(context.Background())).ToNot(HaveOccurred())
		})
	})

	Context("Restart", func() {
		It("stops then starts again", func() {
			x, n := context.WithTimeout(context.Background(), 5*time.Second)
			defer n()

			var startCount atomic.Int32

			start := func(c context.Context) error {
				startCount.Add(1)
				<-c.Done()
				return nil
			}
			stop := func(c context.Context) error { return nil }

			r := New(start, stop)
			Expect(r.Start(x)).ToNot(HaveOccurred())
			Eventually(r.IsRunning, time.Second).Should(BeTrue())

			initial := startCount.Load()
			Expect(r.Restart(x)).ToNot(HaveOccurred())

			Eventually(func() int32 { return startCount.Load() }, time.Second).Should(BeNumerically(">", initial))

			_ = r.Stop(x)
		})
	})
})
