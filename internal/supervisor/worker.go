// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"context"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/sink"
	"github.com/matt-FFFFFF/multisync/internal/transfer"
)

// Runner performs one transfer, writing all of its output to w.
// *transfer.Invoker is the production implementation.
type Runner interface {
	Run(ctx context.Context, job transfer.Job, w io.Writer) (int, error)
}

var _ Runner = (*transfer.Invoker)(nil)

// WorkerState is the lifecycle state of a Worker.
type WorkerState int32

const (
	// StateCreated is the state of a worker that has not started yet.
	StateCreated WorkerState = iota
	// StateRunning is the state of a worker whose transfer is in progress.
	StateRunning
	// StateFinished is the state of a worker whose transfer has returned.
	StateFinished
)

// String returns a string representation of the worker state.
func (s WorkerState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Worker is one running or finished execution of a transfer job.
// It is started exactly once, when it is created, and never restarted.
type Worker struct {
	job   transfer.Job
	out   *sink.Sink
	done  chan struct{}
	state atomic.Int32

	// Written by the worker goroutine before done is closed.
	exitCode int
	err      error
	started  time.Time
	finished time.Time
}

// startWorker creates a worker for job and starts its transfer immediately.
func startWorker(ctx context.Context, runner Runner, job transfer.Job) *Worker {
	w := &Worker{
		job:  job,
		out:  sink.New(),
		done: make(chan struct{}),
	}

	w.started = time.Now()
	w.state.Store(int32(StateRunning))

	go w.run(ctx, runner)

	return w
}

func (w *Worker) run(ctx context.Context, runner Runner) {
	logger := ctxlog.Logger(ctx).
		With("label", w.job.Label()).
		With("destination", w.job.Destination)

	defer func() {
		w.finished = time.Now()
		w.state.Store(int32(StateFinished))
		close(w.done)
	}()

	logger.Debug("worker started")

	w.exitCode, w.err = runner.Run(ctx, w.job, w.out)

	if w.err != nil {
		// The transfer never got to say why, so say it in the status line.
		_, _ = w.out.WriteString("\n" + flatten(w.err) + "\n")

		logger.Error("transfer failed", "exitCode", w.exitCode, "error", w.err)

		return
	}

	logger.Debug("worker finished", "exitCode", w.exitCode)
}

// flatten turns a possibly multi-line joined error into a single line.
func flatten(err error) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(err.Error(), "\n", ": ")), " ")
}

// Job returns the job this worker is running.
func (w *Worker) Job() transfer.Job {
	return w.job
}

// Label returns the display label of the worker.
func (w *Worker) Label() string {
	return w.job.Label()
}

// Alive reports whether the transfer is still running. It never blocks.
func (w *Worker) Alive() bool {
	select {
	case <-w.done:
		return false
	default:
		return true
	}
}

// State returns the current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// Done returns a channel that is closed when the transfer has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Wait blocks until the transfer returns and reports its exit status and error.
func (w *Worker) Wait() (int, error) {
	<-w.done

	return w.exitCode, w.err
}

// ExitCode returns the exit status and true once the worker has finished,
// or zero and false while it is still running.
func (w *Worker) ExitCode() (int, bool) {
	if w.Alive() {
		return 0, false
	}

	return w.exitCode, true
}

// Err returns the error the transfer finished with, nil while it is running.
func (w *Worker) Err() error {
	if w.Alive() {
		return nil
	}

	return w.err
}

// Duration returns how long the transfer ran, or has been running so far.
func (w *Worker) Duration() time.Duration {
	if w.Alive() {
		return time.Since(w.started)
	}

	return w.finished.Sub(w.started)
}

// Status returns the label and most recent non-blank output line.
// Reading the status does not consume the output; calling it twice
// without new output in between returns the same value.
func (w *Worker) Status() Status {
	st := Status{
		Label: w.Label(),
		Line:  w.out.LastLine(),
		State: w.State(),
	}

	if code, ok := w.ExitCode(); ok {
		st.ExitCode = code
	}

	return st
}
