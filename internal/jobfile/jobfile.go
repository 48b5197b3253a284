// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package jobfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
)

var (
	// ErrUnknownFormat is returned when the file extension is not a supported format.
	ErrUnknownFormat = errors.New("unknown job file format, expected .yaml, .yml or .hcl")
	// ErrInvalidJobFile is returned when the job file cannot be decoded or fails validation.
	ErrInvalidJobFile = errors.New("invalid job file")
	// ErrNoJobs is returned when the job file defines no jobs.
	ErrNoJobs = errors.New("job file defines no jobs")
	// ErrMissingPath is returned for a job without a source or destination.
	ErrMissingPath = errors.New("job is missing a path")
	// ErrInvalidInterval is returned when the interval is not a positive duration.
	ErrInvalidInterval = errors.New("interval must be a positive duration")
	// ErrInvalidBandwidthLimit is returned when the bandwidth limit is negative.
	ErrInvalidBandwidthLimit = errors.New("bandwidth limit must not be negative")
)

// File is the decoded content of a job file.
// Zero values mean the setting was not given.
type File struct {
	BandwidthLimit int    `yaml:"bandwidth_limit" hcl:"bandwidth_limit,optional"`
	Interval       string `yaml:"interval"        hcl:"interval,optional"`
	Tool           string `yaml:"tool"            hcl:"tool,optional"`
	Jobs           []Job  `yaml:"jobs"            hcl:"job,block"`
}

// Job is one source and destination pair.
type Job struct {
	Source      string `yaml:"source"      hcl:"source,optional"`
	Destination string `yaml:"destination" hcl:"destination,optional"`
}

// Load fetches the job file at url and parses it.
func Load(ctx context.Context, url string) (*File, error) {
	data, name, err := Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	return Parse(name, data)
}

// Parse decodes data, choosing the format from the extension of name, and validates it.
func Parse(name string, data []byte) (*File, error) {
	var (
		f   *File
		err error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		f, err = parseYAML(data)
	case ".hcl":
		f, err = parseHCL(name, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}

	if err != nil {
		return nil, errors.Join(ErrInvalidJobFile, err)
	}

	if err := f.validate(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *File) validate() error {
	if len(f.Jobs) == 0 {
		return ErrNoJobs
	}

	var merr *multierror.Error

	for i, j := range f.Jobs {
		if strings.TrimSpace(j.Source) == "" {
			merr = multierror.Append(merr, fmt.Errorf("%w: job %d has no source", ErrMissingPath, i))
		}

		if strings.TrimSpace(j.Destination) == "" {
			merr = multierror.Append(merr, fmt.Errorf("%w: job %d has no destination", ErrMissingPath, i))
		}
	}

	if f.Interval != "" {
		if d, err := time.ParseDuration(f.Interval); err != nil || d <= 0 {
			merr = multierror.Append(merr, fmt.Errorf("%w: %q", ErrInvalidInterval, f.Interval))
		}
	}

	if f.BandwidthLimit < 0 {
		merr = multierror.Append(merr, fmt.Errorf("%w: %d", ErrInvalidBandwidthLimit, f.BandwidthLimit))
	}

	if err := merr.ErrorOrNil(); err != nil {
		return errors.Join(ErrInvalidJobFile, err)
	}

	return nil
}

// Sources returns the job sources in file order.
func (f *File) Sources() []string {
	res := make([]string, len(f.Jobs))
	for i, j := range f.Jobs {
		res[i] = j.Source
	}

	return res
}

// Destinations returns the job destinations in file order.
func (f *File) Destinations() []string {
	res := make([]string, len(f.Jobs))
	for i, j := range f.Jobs {
		res[i] = j.Destination
	}

	return res
}

// IntervalDuration returns the interval, or zero when it is not set.
func (f *File) IntervalDuration() time.Duration {
	if f.Interval == "" {
		return 0
	}

	d, err := time.ParseDuration(f.Interval)
	if err != nil {
		return 0
	}

	return d
}
