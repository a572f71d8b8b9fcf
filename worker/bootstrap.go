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

package worker

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
)

// BootstrapOptions carries the parsed worker CLI surface (spec.md §6)
// needed to construct a Runtime.
type BootstrapOptions struct {
	Host              string
	Port              int
	Module            string
	SysPath           []string
	EnvPath           []string
	Options           map[string]string
	ProtocolRequested string
	MaxBodyBytes      int64
}

// LibraryLoader is the seam to the out-of-scope LoadLibrary facade
// (spec.md §1's "opaque library handle factory"): given the module
// identifier, the search path to resolve it against, and the worker's own
// (host, port, options), it returns a ready Extension instance.
type LibraryLoader func(opts BootstrapOptions) (Extension, error)

// StaticRegistry is a LibraryLoader for extensions linked directly into
// the worker binary. Go has no dynamic module-loading primitive
// equivalent to the source system's importable-name resolution, and
// spec.md §1 already treats the single-file packaging step as an external
// collaborator ("produce a standalone worker executable") — so the
// idiomatic Go analogue is a compile-time registry keyed by the same
// module identifier string the CLI's --module flag carries.
type StaticRegistry map[string]func(host string, port int, options map[string]string) (Extension, error)

// Load resolves opts.Module against the registry.
func (reg StaticRegistry) Load(opts BootstrapOptions) (Extension, error) {
	ctor, ok := reg[opts.Module]
	if !ok {
		return nil, fmt.Errorf("worker: no extension registered for module %q", opts.Module)
	}
	return ctor(opts.Host, opts.Port, opts.Options)
}

// Bootstrap implements spec.md §4.D.1: groom the environment, load the
// user extension via load, and build a Runtime ready to Start. Any error
// here is a bootstrap failure (CLI exit code 1).
func Bootstrap(opts BootstrapOptions, load LibraryLoader, log logger.Logger, reg prometheus.Registerer) (*Runtime, error) {
	if opts.Port <= 0 || opts.Port > 65535 {
		return nil, ferror.New(ferror.WorkerStartFailed, fmt.Sprintf("invalid port %d", opts.Port), nil, "")
	}

	if err := GroomEnvironment(opts.SysPath, opts.EnvPath); err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "failed to groom environment", err, "")
	}

	ext, err := load(opts)
	if err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, fmt.Sprintf("failed to construct extension from module %q", opts.Module), err, "")
	}

	return NewRuntime(ext, opts.Host, opts.Port, opts.MaxBodyBytes, opts.ProtocolRequested, log, reg)
}
