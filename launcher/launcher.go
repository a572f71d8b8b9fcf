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
	"context"
	"fmt"
	"os/exec"
	"sync"
	"time"

	gopsproc "github.com/shirou/gopsutil/v3/process"

	"github.com/sabouaram/bitbridge/codec"
	"github.com/sabouaram/bitbridge/ferror"
	"github.com/sabouaram/bitbridge/logger"
	"github.com/sabouaram/bitbridge/portalloc"
	"github.com/sabouaram/bitbridge/transport"
)

// Worker owns one spawned worker process end to end: it exposes the
// captured Streams, the recorded exit code once reaped, and the
// graceful/forceful/kill Shutdown ladder of spec.md §4.E.
type Worker struct {
	desc Descriptor
	log  logger.Logger

	cmd     *exec.Cmd
	streams *Streams

	mu       sync.Mutex
	exited   bool
	exitCode int
	waitErr  error
	waitDone chan struct{}
}

// Launch spawns the worker executable described by desc, starts draining
// its stdout/stderr, and blocks until it is observably ready (TCP connect
// plus, if warmup is true, one no-op request) or desc.ReadyDeadline
// elapses. A non-nil error here is always a WorkerStartFailed fault
// carrying whatever stderr was captured before the failure.
func Launch(ctx context.Context, desc Descriptor, log logger.Logger, warmup bool) (*Worker, error) {
	log = logger.Resolve(func() logger.Logger { return log })

	args, err := desc.buildArgs()
	if err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "failed to encode worker CLI arguments", err, "")
	}

	cmd := exec.CommandContext(ctx, desc.WorkerPath, args...)
	if desc.WorkerDir != "" {
		cmd.Dir = desc.WorkerDir
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "failed to open worker stdout pipe", err, "")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, "failed to open worker stderr pipe", err, "")
	}

	w := &Worker{
		desc:     desc,
		log:      log,
		cmd:      cmd,
		streams:  newStreams(),
		waitDone: make(chan struct{}),
	}

	prepareProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return nil, ferror.New(ferror.WorkerStartFailed, fmt.Sprintf("failed to start worker process %q", desc.WorkerPath), err, "")
	}

	w.streams.pump("stdout", stdout, &w.streams.outMu, &w.streams.out, log)
	w.streams.pump("stderr", stderr, &w.streams.errMu, &w.streams.err, log)

	go w.reap()

	if err := w.awaitReady(ctx, warmup); err != nil {
		_, _ = w.Shutdown(context.Background(), 0, 0)
		return nil, w.startFailedFault(err)
	}

	return w, nil
}

// reap waits for the process to exit exactly once and records its exit
// code, satisfying the ordering guarantee that the process is reaped
// before streams are handed to the caller.
func (w *Worker) reap() {
	err := w.cmd.Wait()
	w.streams.wait()

	w.mu.Lock()
	w.waitErr = err
	if w.cmd.ProcessState != nil {
		w.exitCode = w.cmd.ProcessState.ExitCode()
	}
	w.exited = true
	w.mu.Unlock()

	close(w.waitDone)
}

// awaitReady polls the loopback port, per spec.md §4.E, and optionally
// issues a no-op warm-up call once the TCP layer answers.
func (w *Worker) awaitReady(ctx context.Context, warmup bool) error {
	deadline := time.Now().Add(w.desc.ReadyDeadline)
	const pollInterval = 20 * time.Millisecond

	for {
		select {
		case <-w.waitDone:
			return fmt.Errorf("worker process exited before becoming ready")
		default:
		}

		if portalloc.IsInUse(w.desc.Host, w.desc.Port, pollInterval) {
			break
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("readiness deadline of %s elapsed", w.desc.ReadyDeadline)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}

	if !warmup {
		return nil
	}

	cli := transport.NewClient(w.desc.Host, w.desc.Port, w.log)
	frame, err := codec.EncodeRequest(codec.NewRequest(0, "__warmup__", nil, nil))
	if err != nil {
		return err
	}
	if _, err := cli.Call(ctx, frame, time.Until(deadline)); err != nil {
		return fmt.Errorf("warm-up call failed: %w", err)
	}
	return nil
}

// Streams exposes the captured stdout/stderr buffers.
func (w *Worker) Streams() *Streams {
	return w.streams
}

// Addr returns the worker's bound loopback address.
func (w *Worker) Addr() string {
	return fmt.Sprintf("%s:%d", w.desc.Host, w.desc.Port)
}

// ExitCode returns the recorded exit code and whether the process has
// actually exited yet.
func (w *Worker) ExitCode() (code int, exited bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exitCode, w.exited
}

// hasExited reports whether reap has already run, without blocking.
func (w *Worker) hasExited() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.exited
}

// Shutdown implements spec.md §4.E's graceful -> forceful -> kill ladder.
// It is idempotent: calling it again after the process has already exited
// just returns the (already complete) captured streams. A shutdown may be
// invoked while a request is in flight; per spec.md §4.E this proceeds on
// schedule regardless of whether that request ever completes.
func (w *Worker) Shutdown(ctx context.Context, grace, kill time.Duration) (*Streams, error) {
	if w.hasExited() {
		return w.streams, nil
	}

	w.sendShutdownRequest(ctx, grace)

	if w.waitExit(grace) {
		return w.streams, nil
	}

	w.log.WithField("pid", w.cmd.Process.Pid).Warning("worker did not exit within grace period, sending SIGTERM")
	if err := terminateGraceful(w.cmd.Process.Pid); err != nil {
		w.log.WithError(err).Debug("terminateGraceful failed, process may already be gone")
	}

	if w.waitExit(kill) {
		return w.streams, nil
	}

	w.log.WithField("pid", w.cmd.Process.Pid).Warning("worker did not exit after SIGTERM, sending SIGKILL")
	if err := killForceful(w.cmd.Process.Pid); err != nil {
		w.log.WithError(err).Debug("killForceful failed, process may already be gone")
	}

	<-w.waitDone

	return w.streams, nil
}

// sendShutdownRequest issues the distinguished shutdown pseudo-method as a
// best-effort call: a worker that is unreachable (already crashed, never
// became ready) just falls through to the signal ladder below.
func (w *Worker) sendShutdownRequest(ctx context.Context, deadline time.Duration) {
	frame, err := codec.EncodeRequest(codec.NewRequest(0, codec.ShutdownMethod, nil, nil))
	if err != nil {
		return
	}

	cli := transport.NewClient(w.desc.Host, w.desc.Port, w.log)
	if _, err := cli.Call(ctx, frame, deadline); err != nil {
		w.log.WithError(err).Debug("shutdown request did not complete cleanly")
	}
}

// waitExit blocks until reap has run or timeout elapses, reporting which.
func (w *Worker) waitExit(timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = time.Millisecond
	}

	select {
	case <-w.waitDone:
		return true
	case <-time.After(timeout):
		return false
	}
}

// startFailedFault wraps a readiness failure into the WorkerStartFailed
// fault of spec.md §7, enriched with a gopsutil process snapshot (RSS, CPU
// percent, open file count) when the PID is still resolvable — a worker
// that is thrashing looks different from one that exited immediately, and
// this is the one diagnostic signal available before the worker itself
// ever produced a usable log line.
func (w *Worker) startFailedFault(cause error) error {
	detail := string(w.streams.Stderr())

	if snap := w.processSnapshot(); snap != "" {
		detail = fmt.Sprintf("%s\n%s", detail, snap)
	}

	return ferror.New(ferror.WorkerStartFailed, "worker failed to become ready", cause, detail)
}

func (w *Worker) processSnapshot() string {
	if w.cmd.Process == nil {
		return ""
	}

	proc, err := gopsproc.NewProcess(int32(w.cmd.Process.Pid))
	if err != nil {
		return ""
	}

	mem, memErr := proc.MemoryInfo()
	cpu, cpuErr := proc.CPUPercent()
	files, filesErr := proc.OpenFiles()

	if memErr != nil && cpuErr != nil && filesErr != nil {
		return ""
	}

	rss := uint64(0)
	if mem != nil {
		rss = mem.RSS
	}

	return fmt.Sprintf("worker process snapshot: rss=%d bytes cpu=%.1f%% open_files=%d", rss, cpu, len(files))
}
