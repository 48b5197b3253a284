// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"context"
	"errors"
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
)

var _ supervisor.Display = (*TUI)(nil)

// ErrTUINotStarted is returned by Stop when Start was never called.
var ErrTUINotStarted = errors.New("tui not started")

// TUI renders statuses through a bubbletea program.
// Closing the view with 'q' or ctrl+c does not stop the transfers;
// later frames are dropped.
type TUI struct {
	program *tea.Program
	done    chan struct{}
	err     error
	once    sync.Once
	started bool
	mu      sync.Mutex
}

// NewTUI creates a TUI bound to ctx. Extra program options are passed
// to bubbletea, tests use them to replace the terminal.
func NewTUI(ctx context.Context, opts ...tea.ProgramOption) *TUI {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)

	return &TUI{
		program: tea.NewProgram(NewModel(), opts...),
		done:    make(chan struct{}),
	}
}

// Start runs the bubbletea program in a new goroutine.
func (t *TUI) Start() {
	t.once.Do(func() {
		t.mu.Lock()
		t.started = true
		t.mu.Unlock()

		go func() {
			defer close(t.done)

			_, t.err = t.program.Run()
		}()
	})
}

// Render sends the statuses to the program. Frames are dropped until
// Start is called and after the view is closed.
func (t *TUI) Render(statuses []supervisor.Status) error {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if !started {
		return nil
	}

	select {
	case <-t.done:
		return nil
	default:
	}

	t.program.Send(StatusMsg(slices.Clone(statuses)))

	return nil
}

// Clear does nothing, bubbletea replaces the whole frame on every render.
func (t *TUI) Clear() error {
	return nil
}

// Stop quits the program, leaving the last frame on screen, and waits for it to exit.
func (t *TUI) Stop() error {
	t.mu.Lock()
	started := t.started
	t.mu.Unlock()

	if !started {
		return ErrTUINotStarted
	}

	t.program.Quit()
	<-t.done

	if errors.Is(t.err, tea.ErrProgramKilled) {
		return nil
	}

	return t.err //nolint:wrapcheck
}
