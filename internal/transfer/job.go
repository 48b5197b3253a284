// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transfer

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultTool is the mirror tool used when none is configured.
	DefaultTool = "rsync"
	// DefaultBandwidthLimit is the bandwidth ceiling passed to the mirror tool, in KiB/s.
	DefaultBandwidthLimit = 500
	// SuccessMessage is appended to the output of a transfer that exits with status 0.
	SuccessMessage = "Transfer completed successfully!"

	sourceSeparator = "/"
)

// Job is a single source to destination mirror operation.
type Job struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Label returns the human readable name of the job, which is its source path.
func (j Job) Label() string {
	return j.Source
}

// NormalizeSource makes sure the source ends with a separator,
// so the tool copies the contents of the directory rather than the directory itself.
func NormalizeSource(path string) string {
	if strings.HasSuffix(path, sourceSeparator) {
		return path
	}

	return path + sourceSeparator
}

// BuildArgs returns the mirror tool arguments for the job, excluding the executable name.
func BuildArgs(job Job, bandwidthLimit int) []string {
	return []string{
		"-ah",
		"--info=progress2",
		"--bwlimit=" + strconv.Itoa(bandwidthLimit),
		NormalizeSource(job.Source),
		job.Destination,
	}
}

// CommandLine renders the full command for display, quoting arguments that need it.
func CommandLine(tool string, job Job, bandwidthLimit int) string {
	parts := []string{quote(tool)}
	for _, a := range BuildArgs(job, bandwidthLimit) {
		parts = append(parts, quote(a))
	}

	return strings.Join(parts, " ")
}

func quote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\"'\\$") {
		return strconv.Quote(s)
	}

	return s
}

// String implements fmt.Stringer.
func (j Job) String() string {
	return fmt.Sprintf("%s -> %s", j.Source, j.Destination)
}
