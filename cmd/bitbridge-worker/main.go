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

// Command bitbridge-worker is the worker binary of spec.md §6: a bit-exact
// CLI surface (--host, --port, --module, --sys-path, --env-path,
// --options, --protocol) over worker.Bootstrap/worker.Runtime. It never
// prints to stdout itself — stdout/stderr are reserved for the loaded
// extension and the structured logger, per the launcher's stream-capture
// contract.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/sabouaram/bitbridge/examples/demo"
	"github.com/sabouaram/bitbridge/launcher"
	liblog "github.com/sabouaram/bitbridge/logger"
	loglvl "github.com/sabouaram/bitbridge/logger/level"
	"github.com/sabouaram/bitbridge/worker"
)

// exitBootstrapFailure and exitRuntimeFailure are spec.md §6's exit codes
// 1 and 2; 0 (success) is cobra's own default.
const (
	exitBootstrapFailure = 1
	exitRuntimeFailure   = 2
)

// registry is the compile-time stand-in for the source system's
// importable-module resolution (spec.md §1, §4.D.1): every module name a
// caller may pass via --module must be linked in here.
var registry = worker.StaticRegistry{
	"demo.Calculator": demo.NewCalculator,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var (
		host     string
		port     int
		module   string
		sysPath  string
		envPath  string
		options  string
		protocol string
	)

	log := logrusLogger()

	cmd := &cobra.Command{
		Use:           "bitbridge-worker",
		Short:         "bitbridge worker process",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return serve(host, port, module, sysPath, envPath, options, protocol, log)
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "bind address")
	cmd.Flags().IntVar(&port, "port", 0, "bind port (mandatory)")
	cmd.Flags().StringVar(&module, "module", "", "module identifier to load")
	cmd.Flags().StringVar(&sysPath, "sys-path", "", "module search path entries, platform-separated")
	cmd.Flags().StringVar(&envPath, "env-path", "", "library search path entries, platform-separated")
	cmd.Flags().StringVar(&options, "options", "", "base64url-encoded CBOR string map of extension options")
	cmd.Flags().StringVar(&protocol, "protocol", "1", "requested object-codec version")
	_ = cmd.MarkFlagRequired("port")
	_ = cmd.MarkFlagRequired("module")

	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		code := exitCodeOf(err)
		fmt.Fprintln(os.Stderr, err)
		os.Stderr.Sync()
		return code
	}

	return 0
}

func serve(host string, port int, module, sysPath, envPath, options, protocol string, log liblog.Logger) error {
	opts := worker.BootstrapOptions{
		Host:              host,
		Port:              port,
		Module:            module,
		SysPath:           splitPathList(sysPath),
		EnvPath:           splitPathList(envPath),
		ProtocolRequested: protocol,
		MaxBodyBytes:      64 << 20,
	}

	decoded, err := launcher.DecodeOptions(options)
	if err != nil {
		return &exitError{code: exitBootstrapFailure, err: fmt.Errorf("failed to decode --options: %w", err)}
	}
	opts.Options = decoded

	rt, err := worker.Bootstrap(opts, registry.Load, log, prometheus.NewRegistry())
	if err != nil {
		return &exitError{code: exitBootstrapFailure, err: err}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rt.Start(ctx); err != nil {
		return &exitError{code: exitRuntimeFailure, err: err}
	}

	shutdown := make(chan struct{})
	go func() {
		rt.Wait()
		close(shutdown)
	}()

	select {
	case <-shutdown:
	case <-ctx.Done():
	}

	if err := rt.Stop(context.Background()); err != nil {
		return &exitError{code: exitRuntimeFailure, err: err}
	}

	return nil
}

func splitPathList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, string(os.PathListSeparator))
}

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCodeOf(err error) int {
	var ee *exitError
	if asExitError(err, &ee) {
		return ee.code
	}
	return exitBootstrapFailure
}

func asExitError(err error, target **exitError) bool {
	for err != nil {
		if ee, ok := err.(*exitError); ok {
			*target = ee
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

func logrusLogger() liblog.Logger {
	return liblog.New(os.Stderr, loglvl.InfoLevel)
}
