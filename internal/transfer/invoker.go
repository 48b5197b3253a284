// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/signalbroker"
	"github.com/spf13/afero"
)

const destinationPerm = 0o755

var (
	// ErrCreateDestination is returned when the destination directory cannot be created.
	ErrCreateDestination = errors.New("could not create destination directory")
	// ErrToolNotFound is returned when the mirror tool cannot be found.
	ErrToolNotFound = errors.New("mirror tool not found")
	// ErrFailedToCreatePipe is returned when the operating system pipe could not be created.
	ErrFailedToCreatePipe = errors.New("failed to create pipe")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrFailedToReadOutput is returned when the output of the tool could not be relayed.
	ErrFailedToReadOutput = errors.New("failed to read tool output")
	// ErrCancelled is returned when the context is done before the tool exits.
	ErrCancelled = errors.New("transfer cancelled")
	// ErrDuplicateSignalReceived is returned when a duplicate signal is received, forcing process termination.
	ErrDuplicateSignalReceived = errors.New("duplicate signal received, process forcefully terminated")
)

// FsFactory returns the filesystem used to create destinations when Invoker.Fs is nil.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Invoker runs the mirror tool for one job at a time. It holds no per-run
// state, so a single Invoker may be used by many goroutines.
type Invoker struct {
	Tool           string   // Mirror tool name or path, defaults to DefaultTool.
	BandwidthLimit int      // Bandwidth ceiling passed to the tool, defaults to DefaultBandwidthLimit.
	Fs             afero.Fs // Filesystem for destination creation, defaults to FsFactory().

	signals func(ctx context.Context) chan os.Signal // Allows mocking signal delivery in test.
}

// NewInvoker creates an Invoker with the given tool and bandwidth limit.
// Empty or zero values select the defaults.
func NewInvoker(tool string, bandwidthLimit int) *Invoker {
	return &Invoker{
		Tool:           tool,
		BandwidthLimit: bandwidthLimit,
	}
}

// ToolName returns the configured tool or the default.
func (inv *Invoker) ToolName() string {
	if inv.Tool == "" {
		return DefaultTool
	}

	return inv.Tool
}

// Limit returns the configured bandwidth limit or the default.
func (inv *Invoker) Limit() int {
	if inv.BandwidthLimit <= 0 {
		return DefaultBandwidthLimit
	}

	return inv.BandwidthLimit
}

func (inv *Invoker) fs() afero.Fs {
	if inv.Fs == nil {
		return FsFactory()
	}

	return inv.Fs
}

func (inv *Invoker) signalCh(ctx context.Context) chan os.Signal {
	if inv.signals != nil {
		return inv.signals(ctx)
	}

	return signalbroker.New(ctx)
}

// Run mirrors job.Source into job.Destination and relays the tool output to w.
// It returns the exit status of the tool. A nonzero status is not an error;
// the error is only set when the tool could not be run, or was killed because
// the context was done or a signal was received twice.
func (inv *Invoker) Run(ctx context.Context, job Job, w io.Writer) (int, error) {
	logger := ctxlog.Logger(ctx).
		With("runnableType", "Invoker").
		With("label", job.Label())

	if err := inv.fs().MkdirAll(job.Destination, destinationPerm); err != nil {
		return -1, errors.Join(ErrCreateDestination, err)
	}

	path, err := exec.LookPath(inv.ToolName())
	if err != nil {
		return -1, errors.Join(ErrToolNotFound, err)
	}

	args := BuildArgs(job, inv.Limit())
	logger.Debug("command info", "path", path, "args", args)

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return -1, errors.Join(ErrCouldNotStartProcess, err)
	}
	defer devNull.Close() //nolint:errcheck

	rOut, wOut, err := os.Pipe()
	if err != nil {
		return -1, errors.Join(ErrFailedToCreatePipe, err)
	}

	rErr, wErr, err := os.Pipe()
	if err != nil {
		_ = rOut.Close()
		_ = wOut.Close()

		return -1, errors.Join(ErrFailedToCreatePipe, err)
	}

	defer rOut.Close() //nolint:errcheck
	defer rErr.Close() //nolint:errcheck

	ps, err := os.StartProcess(path, slices.Concat([]string{filepath.Base(path)}, args), &os.ProcAttr{
		Env:   os.Environ(),
		Files: []*os.File{devNull, wOut, wErr},
	})

	// The child holds its own copies, the parent's write ends must close so the relays see EOF.
	_ = wOut.Close()
	_ = wErr.Close()

	if err != nil {
		return -1, errors.Join(ErrCouldNotStartProcess, err)
	}

	logger.Debug("process started", "pid", ps.Pid)

	out := newLineWriter(w)

	relayErrs := make([]error, 2) //nolint:mnd
	relays := &sync.WaitGroup{}
	relays.Add(2) //nolint:mnd

	go func() {
		defer relays.Done()

		relayErrs[0] = relayLines(rOut, out, progressTerminator)
	}()

	go func() {
		defer relays.Done()

		relayErrs[1] = relayLines(rErr, out, diagnosticTerminator)
	}()

	done := make(chan struct{})
	watchdogExited := make(chan struct{})
	wasKilled := make(chan error, 1)

	sigCh := inv.signalCh(ctx)
	defer signalbroker.Stop(sigCh)

	// watchdog for process signals and context cancellation
	go func() {
		defer close(watchdogExited)

		signalCount := make(map[os.Signal]struct{})

		for {
			select {
			case s := <-sigCh:
				if exited(done) {
					return
				}

				if _, ok := signalCount[s]; ok {
					logger.Info("received duplicate signal, killing process", "signal", s.String())
					out.WriteLine("received duplicate signal, killing process: "+s.String(), diagnosticTerminator)
					killPs(ctx, ps)

					wasKilled <- ErrDuplicateSignalReceived

					return
				}

				signalCount[s] = struct{}{}

				logger.Info("forwarding signal", "signal", s.String())

				if err := ps.Signal(s); err != nil {
					logger.Info("failed to send signal", "signal", s.String(), "error", err)
				}

			case <-ctx.Done():
				if exited(done) {
					return
				}

				logger.Info("context done, killing process")
				out.WriteLine("context done, killing process", diagnosticTerminator)
				killPs(ctx, ps)

				wasKilled <- ErrCancelled

				return

			case <-done:
				return
			}
		}
	}()

	logger.Debug("waiting for process to finish")

	state, psErr := ps.Wait()
	close(done)

	// Nothing may write to w once the success line is written or Run has returned.
	<-watchdogExited
	relays.Wait()

	exitCode := -1
	if state != nil {
		exitCode = state.ExitCode()
	}

	err = psErr

	select {
	case e := <-wasKilled:
		err = errors.Join(err, e)
	default:
	}

	for _, e := range relayErrs {
		if e != nil {
			err = errors.Join(err, ErrFailedToReadOutput, e)
		}
	}

	logger.Debug("process finished", "exitCode", exitCode, "error", err)

	if exitCode == 0 && err == nil {
		out.WriteLine("\n"+SuccessMessage, diagnosticTerminator)
	}

	if err != nil && exitCode == 0 {
		exitCode = -1
	}

	return exitCode, err
}

// exited reports whether done is closed.
func exited(done <-chan struct{}) bool {
	select {
	case <-done:
		return true
	default:
		return false
	}
}

// killPs kills the process, treating an already finished process as success.
func killPs(ctx context.Context, ps *os.Process) {
	if err := ps.Kill(); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "process already done", "pid", ps.Pid)
			return
		}

		ctxlog.Error(ctx, "process kill error", "pid", ps.Pid, "error", err)

		return
	}

	ctxlog.Info(ctx, "process killed", "pid", ps.Pid)
}

// String implements fmt.Stringer.
func (inv *Invoker) String() string {
	return fmt.Sprintf("%s (bwlimit=%d)", inv.ToolName(), inv.Limit())
}
