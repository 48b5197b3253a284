// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the multisync command-line interface (CLI).
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matt-FFFFFF/multisync"
	"github.com/matt-FFFFFF/multisync/cmd/multisync/report"
	"github.com/matt-FFFFFF/multisync/cmd/multisync/run"
	"github.com/matt-FFFFFF/multisync/cmd/multisync/show"
	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

const (
	logFormatFlag   = "log-format"
	logFormatPretty = "pretty"
	logFormatJSON   = "json"
)

// ErrInvalidLogFormat is returned when the log format flag has an unknown value.
var ErrInvalidLogFormat = errors.New("log format must be pretty or json")

// newRootCmd creates the root command for the CLI.
func newRootCmd(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  logFormatFlag,
				Usage: "Log format written to stderr, pretty or json",
				Value: logFormatPretty,
				Validator: func(s string) error {
					if !slices.Contains([]string{logFormatPretty, logFormatJSON}, s) {
						return fmt.Errorf("%w: %q", ErrInvalidLogFormat, s)
					}

					return nil
				},
				OnlyOnce: true,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.String(logFormatFlag) == logFormatJSON {
				return ctxlog.New(ctx, ctxlog.NewJSONLogger(stderr)), nil
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			run.NewRunCmd(),
			show.NewShowCmd(),
			report.NewReportCmd(),
		},
		Writer:    stdout,
		ErrWriter: stderr,
		Name:      "multisync",
		Description: `multisync mirrors several directories at the same time, one rsync process per
source and destination pair, and shows the latest progress line of every transfer
in a single live view until all of them have finished.`,
		Usage:     "multisync run --source /tmp/a --destination /tmp/x --source /tmp/b --destination /tmp/y",
		Version:   fmt.Sprintf("%s (commit: %s)", multisync.Version, multisync.Commit),
		Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
		Authors: []any{
			"Matt White (matt-FFFFFF)",
		},
		EnableShellCompletion:     true,
		DisableSliceFlagSeparator: true,
	}
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel)

	err := newRootCmd(os.Stdout, os.Stderr).Run(ctx, os.Args) // Err is handled by cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1) //nolint:gocritic
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
}
