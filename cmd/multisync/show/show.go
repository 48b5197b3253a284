// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package show contains the command that prints the transfers without running them.
package show

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/multisync/cmd/multisync/jobflags"
	"github.com/matt-FFFFFF/multisync/internal/color"
	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
	"github.com/matt-FFFFFF/multisync/internal/transfer"
	"github.com/urfave/cli/v3"
)

// NewShowCmd creates the show command with a fresh set of flags.
func NewShowCmd() *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: "Print the mirror tool command of every transfer without running it",
		Description: `Resolve the jobs exactly as run does and print, for each one,
its label and the command line that would be executed. Nothing is started.`,
		Flags:  jobflags.Flags(),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}

	cfg, err := jobflags.Resolve(ctx, cmd)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit("", 1)
	}

	jobs, err := supervisor.Jobs(cfg.Sources, cfg.Destinations)
	if err != nil {
		logger.Error("invalid transfer configuration", "error", err)
		return cli.Exit("", 1)
	}

	for _, job := range jobs {
		fmt.Fprintf(w, "%s\n  %s\n", //nolint:errcheck
			color.Colorize(job.Label(), color.Bold),
			transfer.CommandLine(cfg.Tool, job, cfg.BandwidthLimit),
		)
	}

	return nil
}
