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

// Command bitbridgectl is a supplemental operator CLI (SPEC_FULL.md
// §9.3), not part of spec.md: it launches one worker and
// issues a single call/ping/shutdown against it, for manually
// smoke-testing a packaged worker binary outside of Go test code.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sabouaram/bitbridge/client"
	"github.com/sabouaram/bitbridge/codec"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

type rootFlags struct {
	workerPath string
	module     string
	host       string
	port       int
	protocol   string
	timeout    time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "bitbridgectl",
		Short: "drive one bitbridge worker from the command line",
	}

	root.PersistentFlags().StringVar(&flags.workerPath, "worker-path", "", "path to the worker executable")
	root.PersistentFlags().StringVar(&flags.module, "module", "", "module identifier to load")
	root.PersistentFlags().StringVar(&flags.host, "host", "127.0.0.1", "bind address, or \"none\" for mock mode")
	root.PersistentFlags().IntVar(&flags.port, "port", 0, "bind port; 0 lets the OS choose")
	root.PersistentFlags().StringVar(&flags.protocol, "protocol", "1", "requested object-codec version")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 10*time.Second, "per-call deadline")

	root.AddCommand(newPingCmd(flags))
	root.AddCommand(newCallCmd(flags))
	root.AddCommand(newShutdownCmd(flags))

	return root
}

func openClient(ctx context.Context, flags *rootFlags) (*client.Client, error) {
	return client.Open(ctx, client.Options{
		WorkerPath:    flags.workerPath,
		Module:        flags.module,
		Host:          flags.host,
		Port:          flags.port,
		Protocol:      flags.protocol,
		ReadyDeadline: flags.timeout,
	})
}

func newPingCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "launch the worker and confirm it becomes ready, then shut it down",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := openClient(ctx, flags)
			if err != nil {
				return err
			}
			defer func() { _, _, _ = c.Close(ctx) }()

			fmt.Println(color.GreenString("worker %s is ready on %s", flags.module, c.Descriptor().Host))
			return nil
		},
	}
}

func newCallCmd(flags *rootFlags) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "call",
		Short: "launch the worker, issue one call, print the result, shut it down",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := openClient(ctx, flags)
			if err != nil {
				return err
			}
			defer func() { _, _, _ = c.Close(ctx) }()

			values := make([]codec.Value, len(args))
			for i, a := range args {
				values[i] = a
			}

			result, err := c.Call(ctx, method, values, nil, flags.timeout)
			if err != nil {
				return err
			}

			fmt.Println(color.CyanString("%v", result))
			return nil
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "remote method name to call")
	_ = cmd.MarkFlagRequired("method")

	return cmd
}

func newShutdownCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shutdown",
		Short: "launch the worker, then immediately run the shutdown ladder and print captured streams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := openClient(ctx, flags)
			if err != nil {
				return err
			}

			stdout, stderr, err := c.Close(ctx)
			if err != nil {
				return err
			}

			if len(stdout) > 0 {
				fmt.Println(color.YellowString("stdout:"))
				os.Stdout.Write(stdout)
			}
			if len(stderr) > 0 {
				fmt.Println(color.YellowString("stderr:"))
				os.Stderr.Write(stderr)
			}

			return nil
		},
	}
}
