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

package launcher

import (
	"encoding/base64"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Descriptor identifies one worker instance (spec.md §3 Worker Descriptor).
// Every field is supplied by the caller up front; Port is normally
// reserved with portalloc.Reserve before Launch is called.
type Descriptor struct {
	WorkerPath string            // path to the frozen worker executable
	Module     string            // user extension identifier (--module)
	WorkerDir  string            // optional cwd for the child process
	Host       string            // loopback literal bind address
	Port       int               // assigned by portalloc before Launch
	SysPath    []string          // --sys-path entries
	EnvPath    []string          // --env-path entries
	Options    map[string]string // opaque user options (string-typed, see §6)
	Protocol   string            // requested wire protocol version

	ReadyDeadline time.Duration // how long to wait for readiness
	Grace         time.Duration // graceful shutdown wait
	Kill          time.Duration // forceful shutdown wait before SIGKILL
}

// pathListSeparator mirrors the OS convention spec.md §6 calls for
// ("platform separator") for --sys-path / --env-path.
var pathListSeparator = string(os.PathListSeparator)

// encodeOptions turns the string-keyed, string-valued options map into the
// "length-prefixed encoded mapping" spec.md §6 specifies for --options: a
// CBOR encoding of the map (the same codec the wire protocol already uses,
// so the worker's --options flag shares one decoder with the rest of the
// system) wrapped in URL-safe base64 so it survives as a single shell
// argument with no embedded NUL or newline.
func encodeOptions(opts map[string]string) (string, error) {
	if len(opts) == 0 {
		return "", nil
	}

	raw, err := cbor.Marshal(opts)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(raw), nil
}

// DecodeOptions reverses encodeOptions; it is exported so the worker binary
// (package cmd/bitbridge-worker) can decode --options without reaching
// into this package's internals.
func DecodeOptions(encoded string) (map[string]string, error) {
	if encoded == "" {
		return nil, nil
	}

	raw, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}

	var opts map[string]string
	if err := cbor.Unmarshal(raw, &opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// buildArgs renders the Descriptor into the bit-exact worker CLI grammar
// of spec.md §6.
func (d Descriptor) buildArgs() ([]string, error) {
	args := []string{
		"--host", d.Host,
		"--port", strconv.Itoa(d.Port),
		"--module", d.Module,
	}

	if len(d.SysPath) > 0 {
		args = append(args, "--sys-path", strings.Join(d.SysPath, pathListSeparator))
	}
	if len(d.EnvPath) > 0 {
		args = append(args, "--env-path", strings.Join(d.EnvPath, pathListSeparator))
	}

	encoded, err := encodeOptions(d.Options)
	if err != nil {
		return nil, err
	}
	if encoded != "" {
		args = append(args, "--options", encoded)
	}

	if d.Protocol != "" {
		args = append(args, "--protocol", d.Protocol)
	}

	return args, nil
}
