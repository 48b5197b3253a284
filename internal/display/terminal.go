// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/matt-FFFFFF/multisync/internal/color"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
	"golang.org/x/term"
)

const (
	linesPerStatus = 2
	ellipsis       = "..."
)

var _ supervisor.Display = (*Terminal)(nil)

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// Terminal renders status blocks to a writer.
// When the writer is a terminal, or ForceRedraw is set, Clear moves the cursor
// back over the previous frame so the next Render draws in place.
type Terminal struct {
	ForceRedraw bool // Redraw in place even when the writer is not a terminal.
	Colour      bool // Colour the labels.

	w        io.Writer
	terminal bool
	mu       sync.Mutex
	drawn    int

	columns func() int // Allows mocking the terminal width in test.
}

// NewTerminal creates a Terminal writing to w. Colour follows color.Enabled.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		Colour:   color.Enabled(),
		w:        w,
		terminal: isTerminal(w),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// width returns the terminal width, or zero when it is unknown.
func (t *Terminal) width() int {
	if t.columns != nil {
		return t.columns()
	}

	if !t.terminal {
		return 0
	}

	w, _, err := term.GetSize(int(t.w.(fder).Fd())) //nolint:forcetypeassert
	if err != nil {
		return 0
	}

	return w
}

// Render writes each status as two lines, label first.
// On a terminal both lines are cut to its width so each takes exactly one row.
func (t *Terminal) Render(statuses []supervisor.Status) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	width := t.width()
	sb := strings.Builder{}

	for _, s := range statuses {
		sb.WriteString(t.label(s, width))
		sb.WriteString("\n")
		sb.WriteString(truncate(s.Line, width))
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		return fmt.Errorf("failed to render statuses: %w", err)
	}

	t.drawn = len(statuses) * linesPerStatus

	return nil
}

// Clear removes the previous frame. It writes nothing unless redrawing.
func (t *Terminal) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.drawn == 0 || !(t.terminal || t.ForceRedraw) {
		return nil
	}

	if _, err := fmt.Fprintf(t.w, "\033[%dA\033[J", t.drawn); err != nil {
		return fmt.Errorf("failed to clear statuses: %w", err)
	}

	t.drawn = 0

	return nil
}

// label truncates before colouring so escape codes never count towards the width.
func (t *Terminal) label(s supervisor.Status, width int) string {
	text := truncate(s.Label, width)
	if !t.Colour {
		return text
	}

	var c color.Code

	switch {
	case s.State != supervisor.StateFinished:
		c = color.FgYellow
	case s.ExitCode == 0:
		c = color.FgGreen
	default:
		c = color.FgRed
	}

	return color.Apply(text, color.Bold, c)
}

// truncate shortens s so it fits on one line of the given width.
// A long line would wrap and make the cursor movement in Clear inaccurate.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}

	r := []rune(s)
	if len(r) < width {
		return s
	}

	if width <= len(ellipsis)+1 {
		return string(r[:width-1])
	}

	return string(r[:width-1-len(ellipsis)]) + ellipsis
}
