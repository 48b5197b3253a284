// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package jobflags holds the flags shared by the commands that operate on transfer jobs,
// and resolves them together with an optional job file into one Config.
package jobflags

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/jobfile"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
	"github.com/matt-FFFFFF/multisync/internal/transfer"
	"github.com/urfave/cli/v3"
)

// Flag names.
const (
	SourceFlag      = "source"
	DestinationFlag = "destination"
	FileFlag        = "file"
	BwLimitFlag     = "bwlimit"
	IntervalFlag    = "interval"
	ToolFlag        = "tool"
)

var (
	// ErrInvalidBandwidthLimit is returned when the bandwidth limit flag is not positive.
	ErrInvalidBandwidthLimit = errors.New("bandwidth limit must be positive")
	// ErrInvalidInterval is returned when the interval flag is not positive.
	ErrInvalidInterval = errors.New("interval must be positive")
	// ErrNoJobs is returned when neither the flags nor the job file name a transfer.
	ErrNoJobs = errors.New("no transfer jobs given, use --source and --destination or --file")
)

// Config is the resolved transfer configuration of one invocation.
type Config struct {
	Sources        []string
	Destinations   []string
	Tool           string
	BandwidthLimit int
	Interval       time.Duration
}

// Flags returns a new set of the shared job flags.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    SourceFlag,
			Aliases: []string{"s"},
			Usage: "Directory to mirror from. Specify multiple times for concurrent transfers, " +
				"each source is paired with the destination at the same position.",
		},
		&cli.StringSliceFlag{
			Name:    DestinationFlag,
			Aliases: []string{"d"},
			Usage:   "Directory to mirror into, created if it does not exist. Specify once per source.",
		},
		&cli.StringFlag{
			Name:    FileFlag,
			Aliases: []string{"f"},
			Usage: "URL of a YAML or HCL job file. " +
				"Supports Hashicorp's go-getter syntax for fetching files from various sources. " +
				"Its jobs run before any given with --source and --destination.",
			OnlyOnce:  true,
			TakesFile: true,
		},
		&cli.IntFlag{
			Name:     BwLimitFlag,
			Usage:    "Bandwidth limit passed to the mirror tool, in KiB/s",
			Value:    transfer.DefaultBandwidthLimit,
			OnlyOnce: true,
		},
		&cli.DurationFlag{
			Name:     IntervalFlag,
			Usage:    "Time between status refreshes",
			Value:    supervisor.DefaultInterval,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      ToolFlag,
			Usage:     "Name or path of the mirror tool",
			Value:     transfer.DefaultTool,
			OnlyOnce:  true,
			TakesFile: true,
		},
	}
}

// Resolve builds the Config from the job file, if any, and the flags.
// Settings given explicitly as flags win over the job file.
// At least one source or destination is required; pairing them is left to the supervisor.
func Resolve(ctx context.Context, cmd *cli.Command) (*Config, error) {
	cfg := &Config{
		Tool:           transfer.DefaultTool,
		BandwidthLimit: transfer.DefaultBandwidthLimit,
		Interval:       supervisor.DefaultInterval,
	}

	if url := cmd.String(FileFlag); url != "" {
		f, err := jobfile.Load(ctx, url)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		ctxlog.Debug(ctx, "loaded job file", "url", url, "jobs", len(f.Jobs))
		cfg.apply(f)
	}

	cfg.Sources = append(cfg.Sources, cmd.StringSlice(SourceFlag)...)
	cfg.Destinations = append(cfg.Destinations, cmd.StringSlice(DestinationFlag)...)

	if cmd.IsSet(ToolFlag) {
		cfg.Tool = cmd.String(ToolFlag)
	}

	if cmd.IsSet(BwLimitFlag) {
		if cmd.Int(BwLimitFlag) <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidBandwidthLimit, cmd.Int(BwLimitFlag))
		}

		cfg.BandwidthLimit = cmd.Int(BwLimitFlag)
	}

	if cmd.IsSet(IntervalFlag) {
		if cmd.Duration(IntervalFlag) <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInterval, cmd.Duration(IntervalFlag))
		}

		cfg.Interval = cmd.Duration(IntervalFlag)
	}

	if len(cfg.Sources) == 0 && len(cfg.Destinations) == 0 {
		return nil, ErrNoJobs
	}

	return cfg, nil
}

func (c *Config) apply(f *jobfile.File) {
	c.Sources = append(c.Sources, f.Sources()...)
	c.Destinations = append(c.Destinations, f.Destinations()...)

	if f.Tool != "" {
		c.Tool = f.Tool
	}

	if f.BandwidthLimit > 0 {
		c.BandwidthLimit = f.BandwidthLimit
	}

	if d := f.IntervalDuration(); d > 0 {
		c.Interval = d
	}
}

// Invoker returns the transfer invoker for the config.
func (c *Config) Invoker() *transfer.Invoker {
	return transfer.NewInvoker(c.Tool, c.BandwidthLimit)
}
