// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

// Status is the two line status block of one transfer: its label and the
// most recent non-blank line of its output.
type Status struct {
	Label    string
	Line     string
	State    WorkerState
	ExitCode int // Only meaningful once State is StateFinished.
}

// String returns the label and the line separated by a newline.
func (s Status) String() string {
	return s.Label + "\n" + s.Line
}

// Display presents status blocks. Render draws the given statuses in order,
// Clear removes whatever the previous Render drew.
type Display interface {
	Render(statuses []Status) error
	Clear() error
}

// discardDisplay is used when no display is configured.
type discardDisplay struct{}

func (discardDisplay) Render([]Status) error { return nil }

func (discardDisplay) Clear() error { return nil }
