// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"fmt"
	"io"
	"time"

	"github.com/matt-FFFFFF/multisync/internal/color"
)

// OutputOptions controls what is included in the text summary.
type OutputOptions struct {
	ShowDestination    bool // Whether to show where each transfer was mirrored to
	ShowDuration       bool // Whether to show how long each transfer took
	ShowSuccessDetails bool // Whether to show the final line of successful transfers
}

// DefaultOutputOptions returns a default set of output options.
func DefaultOutputOptions() *OutputOptions {
	return &OutputOptions{
		ShowDestination:    true,
		ShowDuration:       true,
		ShowSuccessDetails: false,
	}
}

func writeTextResults(w io.Writer, results Results, options *OutputOptions) error {
	if options == nil {
		options = DefaultOutputOptions()
	}

	for _, r := range results {
		if err := writeResult(w, r, options); err != nil {
			return err
		}
	}

	return nil
}

func writeResult(w io.Writer, r *Result, options *OutputOptions) error {
	var statusStr, labelPrefix string

	switch r.Status {
	case ResultStatusError:
		statusStr = color.Colorize("✗", color.FgRed)
		labelPrefix = labelStyle(color.Bold, color.FgRed)
	case ResultStatusSuccess:
		statusStr = color.Colorize("✓", color.FgGreen)
		labelPrefix = labelStyle(color.Bold, color.FgGreen)
	case ResultStatusRunning:
		statusStr = color.Colorize("…", color.FgYellow)
		labelPrefix = labelStyle(color.Bold, color.FgYellow)
	default:
		statusStr = color.Colorize("?", color.FgWhite)
	}

	label := r.Label
	if label == "" {
		label = "[unnamed]"
	}

	if _, err := fmt.Fprintf(w, "%s %s%s%s", statusStr, labelPrefix, label, labelStyle(color.Reset)); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if options.ShowDestination && r.Destination != "" {
		fmt.Fprintf(w, " -> %s", r.Destination) // nolint:errcheck
	}

	if r.ExitCode != 0 {
		fmt.Fprintf(w, " (exit code: %d)", r.ExitCode) // nolint:errcheck
	}

	if options.ShowDuration {
		fmt.Fprintf(w, " [%s]", r.Duration.Round(time.Millisecond)) // nolint:errcheck
	}

	fmt.Fprintln(w) // nolint:errcheck

	if r.Error != nil {
		fmt.Fprintf(w, "  %s %s\n", color.Colorize("➜ Error:", color.FgRed), flatten(r.Error)) // nolint:errcheck
	}

	showDetails := r.Status != ResultStatusSuccess || options.ShowSuccessDetails
	if showDetails && r.LastLine != "" {
		fmt.Fprintf(w, "  %s %s\n", color.Colorize("➜ Output:", color.FgHiWhite), r.LastLine) // nolint:errcheck
	}

	return nil
}

// labelStyle returns the escape sequence for codes, or nothing when colour is disabled.
func labelStyle(codes ...color.Code) string {
	if !color.Enabled() {
		return ""
	}

	return color.ControlString(codes...)
}
