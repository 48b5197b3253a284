// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/transfer"
)

// DefaultInterval is the pause between two renders of the drive loop.
const DefaultInterval = 500 * time.Millisecond

var (
	// ErrSizeMismatch is returned when the number of sources and destinations differ.
	ErrSizeMismatch = errors.New("sources and destinations must have the same length")
)

// Options controls the drive loop.
type Options struct {
	Interval time.Duration // Pause between renders, defaults to DefaultInterval.
	Display  Display       // Where statuses are rendered, discarded if nil.
}

// DefaultOptions returns the options used when nil is passed to Drive.
func DefaultOptions() *Options {
	return &Options{
		Interval: DefaultInterval,
	}
}

func (o *Options) interval() time.Duration {
	if o == nil || o.Interval <= 0 {
		return DefaultInterval
	}

	return o.Interval
}

func (o *Options) display() Display {
	if o == nil || o.Display == nil {
		return discardDisplay{}
	}

	return o.Display
}

// Supervisor owns the workers of one invocation, one per job, in job order.
type Supervisor struct {
	workers []*Worker
}

// Jobs pairs sources with destinations by index. Two empty lists give no jobs.
func Jobs(sources, destinations []string) ([]transfer.Job, error) {
	if len(sources) != len(destinations) {
		return nil, fmt.Errorf("%w: %d sources, %d destinations", ErrSizeMismatch, len(sources), len(destinations))
	}

	jobs := make([]transfer.Job, len(sources))
	for i := range sources {
		jobs[i] = transfer.Job{
			Source:      sources[i],
			Destination: destinations[i],
		}
	}

	return jobs, nil
}

// New pairs sources with destinations by index and starts one worker per pair.
// When the lengths differ nothing is started and ErrSizeMismatch is returned.
func New(ctx context.Context, runner Runner, sources, destinations []string) (*Supervisor, error) {
	jobs, err := Jobs(sources, destinations)
	if err != nil {
		return nil, err
	}

	s := &Supervisor{
		workers: make([]*Worker, 0, len(jobs)),
	}

	for i, job := range jobs {
		ctxlog.Debug(ctx, "starting transfer", "index", i, "job", job.String())
		s.workers = append(s.workers, startWorker(ctx, runner, job))
	}

	return s, nil
}

// Workers returns the workers in job order.
func (s *Supervisor) Workers() []*Worker {
	return s.workers
}

// Statuses returns the current status of every worker in job order.
func (s *Supervisor) Statuses() []Status {
	statuses := make([]Status, len(s.workers))
	for i, w := range s.workers {
		statuses[i] = w.Status()
	}

	return statuses
}

// AnyAlive reports whether at least one worker is still running.
func (s *Supervisor) AnyAlive() bool {
	for _, w := range s.workers {
		if w.Alive() {
			return true
		}
	}

	return false
}

// Wait blocks until every worker has finished.
func (s *Supervisor) Wait() {
	for _, w := range s.workers {
		<-w.Done()
	}
}

// Drive renders the statuses until every worker has finished, pausing
// between renders and clearing the previous frame before the next one.
// After the last worker finishes the statuses are rendered one final time
// and left on screen. Display errors are logged and do not stop the loop.
func (s *Supervisor) Drive(ctx context.Context, opts *Options) Results {
	display := opts.display()
	interval := opts.interval()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	frames := 0

	for s.AnyAlive() {
		s.render(ctx, display)
		frames++

		<-ticker.C

		if err := display.Clear(); err != nil {
			ctxlog.Warn(ctx, "failed to clear display", "error", err)
		}
	}

	s.render(ctx, display)

	ctxlog.Debug(ctx, "all transfers finished", "frames", frames+1)

	return s.Results()
}

func (s *Supervisor) render(ctx context.Context, display Display) {
	if err := display.Render(s.Statuses()); err != nil {
		ctxlog.Warn(ctx, "failed to render display", "error", err)
	}
}

// Results returns one Result per worker in job order.
// Workers that are still running are reported as they are now.
func (s *Supervisor) Results() Results {
	results := make(Results, len(s.workers))
	for i, w := range s.workers {
		results[i] = newResult(w)
	}

	return results
}

// Run starts the transfers and drives them to completion.
// The error is only set when the transfers could not be started at all;
// the outcome of each transfer is in the returned Results.
func Run(ctx context.Context, runner Runner, sources, destinations []string, opts *Options) (Results, error) {
	s, err := New(ctx, runner, sources, destinations)
	if err != nil {
		return nil, err
	}

	return s.Drive(ctx, opts), nil
}
