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

package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
)

// Client is the host-side half of the transport: one persistent HTTP/1.1
// connection to 127.0.0.1:port (spec.md §4.C). It wraps
// retryablehttp.Client with CheckRetry replaced entirely: the library's
// default policy retries on a broad class of 5xx/network errors, but
// spec.md §7 permits exactly one automatic retry, and only when zero
// bytes of the request were written.
type Client struct {
	url string
	cli *retryablehttp.Client
}

// NewClient builds a Client targeting host:port. log receives the
// library's own request/retry diagnostics via the retryablehttp.LeveledLogger
// adapter built in the logger package.
func NewClient(host string, port int, log logger.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = logger.AsRetryableHTTPLogger(log)
	rc.RetryMax = 1
	rc.RetryWaitMin = 10 * time.Millisecond
	rc.RetryWaitMax = 50 * time.Millisecond
	rc.CheckRetry = checkRetryZeroBytesWritten

	// A persistent connection, not a one-shot client per call: the
	// transport MaxIdleConnsPerHost keeps the single TCP connection to
	// the worker alive across calls instead of reopening it.
	if t, ok := rc.HTTPClient.Transport.(*http.Transport); ok {
		t.MaxIdleConns = 1
		t.MaxIdleConnsPerHost = 1
		t.DisableCompression = true
	}

	return &Client{
		url: fmt.Sprintf("http://%s/", net.JoinHostPort(host, fmt.Sprintf("%d", port))),
		cli: rc,
	}
}

// checkRetryZeroBytesWritten retries only when the failure happened before
// the request could have put any bytes on the wire — a dial-phase error.
// A write- or read-phase net error cannot be distinguished from "zero bytes
// written" using only (resp, err) from the standard http.Client, so this
// function conservatively restricts the automatic retry to the one case it
// can prove: the connection was never established.
func checkRetryZeroBytesWritten(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err == nil {
		return false, nil
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true, nil
	}

	return false, nil
}

// Call issues one POST to the worker with body as the request payload and
// returns the response body. deadline <= 0 means unbounded, per spec.md
// §4.C's default. A timeout surfaces as ferror.RemoteTimeout; any other
// transport failure surfaces as ferror.Transport.
func (c *Client) Call(ctx context.Context, body []byte, deadline time.Duration) ([]byte, error) {
	if deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, ferror.New(ferror.Transport, "failed to build request", err, "")
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.cli.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ferror.New(ferror.RemoteTimeout, "call did not complete before deadline", err, "")
		}
		return nil, ferror.New(ferror.Transport, "request failed", err, "")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ferror.New(ferror.Transport, "failed reading response body", err, "")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, ferror.New(ferror.Transport, fmt.Sprintf("worker returned HTTP %d", resp.StatusCode), nil, string(respBody))
	}

	return respBody, nil
}
