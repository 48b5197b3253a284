// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/multisync/internal/transfer"
)

// script describes what fakeRunner does for one source.
type script struct {
	output  []string      // written to the sink in order
	code    int           // exit code returned
	err     error         // error returned
	release chan struct{} // when set, Run blocks until it is closed or ctx is done
}

type fakeRunner struct {
	mu      sync.Mutex
	scripts map[string]script
	calls   []transfer.Job
}

func newFakeRunner(scripts map[string]script) *fakeRunner {
	return &fakeRunner{scripts: scripts}
}

func (f *fakeRunner) Run(ctx context.Context, job transfer.Job, w io.Writer) (int, error) {
	f.mu.Lock()
	f.calls = append(f.calls, job)
	s := f.scripts[job.Source]
	f.mu.Unlock()

	for _, line := range s.output {
		_, _ = io.WriteString(w, line)
	}

	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return -1, ctx.Err()
		}
	}

	return s.code, s.err
}

func (f *fakeRunner) Calls() []transfer.Job {
	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.calls)
}

// recordingDisplay keeps every frame it is asked to render.
type recordingDisplay struct {
	mu        sync.Mutex
	events    []string
	frames    [][]Status
	renderErr error
	clearErr  error
}

func (d *recordingDisplay) Render(statuses []Status) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, "render")
	d.frames = append(d.frames, slices.Clone(statuses))

	return d.renderErr
}

func (d *recordingDisplay) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.events = append(d.events, "clear")

	return d.clearErr
}

func (d *recordingDisplay) Events() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	return slices.Clone(d.events)
}

func (d *recordingDisplay) Renders() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.frames)
}

func (d *recordingDisplay) LastFrame() []Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.frames) == 0 {
		return nil
	}

	return d.frames[len(d.frames)-1]
}

func lines(statuses []Status) []string {
	res := make([]string, len(statuses))
	for i, s := range statuses {
		res[i] = s.Line
	}

	return res
}
