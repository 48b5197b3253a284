// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the command that mirrors directories concurrently.
package run

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/matt-FFFFFF/multisync/cmd/multisync/jobflags"
	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
	"github.com/matt-FFFFFF/multisync/internal/display"
	"github.com/matt-FFFFFF/multisync/internal/supervisor"
	"github.com/urfave/cli/v3"
)

const (
	outFlag                  = "out"
	noFailFlag               = "no-fail"
	tuiFlag                  = "tui"
	plainFlag                = "plain"
	redrawFlag               = "redraw"
	outputSuccessDetailsFlag = "output-success-details"
	cliExitStr               = ""
)

// NewRunCmd creates the run command with a fresh set of flags.
func NewRunCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Mirror one or more directories concurrently",
		Description: `Run the mirror tool once per source and destination pair, all at the same time,
showing the latest progress line of every transfer until they have all finished.

Sources and destinations are paired by position. Jobs can also be read from a YAML or HCL
file given with --file, which uses Hashicorp's go-getter syntax so it can be fetched from
various sources. See https://github.com/hashicorp/go-getter.

The exit code is 1 if any transfer fails, unless --no-fail is given.`,
		Flags: slices.Concat(jobflags.Flags(), []cli.Flag{
			&cli.StringFlag{
				Name:      outFlag,
				Usage:     "Write the results to this file as JSON",
				TakesFile: true,
				OnlyOnce:  true,
			},
			&cli.BoolFlag{
				Name:        tuiFlag,
				Aliases:     []string{"t", "interactive"},
				Usage:       "Show progress in an interactive Terminal User Interface (TUI)",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        plainFlag,
				Usage:       "Append every status refresh to the output instead of redrawing it in place",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        redrawFlag,
				Usage:       "Redraw the statuses in place even when the output is not a terminal",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        noFailFlag,
				Usage:       "Exit with status 0 even if some transfers failed",
				DefaultText: "false",
				OnlyOnce:    true,
			},
			&cli.BoolFlag{
				Name:        outputSuccessDetailsFlag,
				Aliases:     []string{"success"},
				Usage:       "Include the final line of successful transfers in the summary",
				DefaultText: "false",
				OnlyOnce:    true,
			},
		}),
		Action: actionFunc,
	}
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("running run command")

	stdout := cmd.Root().Writer
	if stdout == nil {
		stdout = os.Stdout
	}

	stderr := cmd.Root().ErrWriter
	if stderr == nil {
		stderr = os.Stderr
	}

	cfg, err := jobflags.Resolve(ctx, cmd)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	// The display owns the screen while transfers run, so logs are held back until the end.
	logBuf := &bytes.Buffer{}
	runCtx := ctxlog.NewForTUI(ctx, logBuf)

	defer flushLogs(logBuf, stderr)

	sup, err := supervisor.New(runCtx, cfg.Invoker(), cfg.Sources, cfg.Destinations)
	if err != nil {
		logger.Error("invalid transfer configuration", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	opts := supervisor.DefaultOptions()
	opts.Interval = cfg.Interval

	var results supervisor.Results

	switch {
	case cmd.Bool(tuiFlag):
		t := display.NewTUI(runCtx)
		t.Start()

		opts.Display = t
		results = sup.Drive(runCtx, opts)

		if err := t.Stop(); err != nil {
			logger.Warn("TUI exited with error", "error", err)
		}
	case cmd.Bool(plainFlag):
		opts.Display = display.NewPlain(stdout)
		results = sup.Drive(runCtx, opts)
	default:
		term := display.NewTerminal(stdout)
		term.ForceRedraw = cmd.Bool(redrawFlag)

		opts.Display = term
		results = sup.Drive(runCtx, opts)
	}

	flushLogs(logBuf, stderr)

	if outFileName := cmd.String(outFlag); outFileName != "" {
		if err := writeResultsFile(outFileName, results); err != nil {
			logger.Error("failed to write results file", "file", outFileName, "error", err)
			return cli.Exit(cliExitStr, 1)
		}

		logger.Info("results written", "file", outFileName)
	}

	textOpts := supervisor.DefaultOutputOptions()
	textOpts.ShowSuccessDetails = cmd.Bool(outputSuccessDetailsFlag)

	fmt.Fprintln(stdout) //nolint:errcheck

	if err := results.WriteText(stdout, textOpts); err != nil {
		logger.Error("failed to write results", "error", err)
		return cli.Exit(cliExitStr, 1)
	}

	if results.HasError() {
		if cmd.Bool(noFailFlag) {
			logger.Warn("some transfers failed", "error", results.Err())
			return nil
		}

		logger.Error("some transfers failed", "error", results.Err())

		return cli.Exit(cliExitStr, 1)
	}

	return nil
}

func writeResultsFile(name string, results supervisor.Results) error {
	f, err := os.Create(name)
	if err != nil {
		return err //nolint:wrapcheck
	}

	defer f.Close() //nolint:errcheck

	return results.WriteJSON(f)
}

// flushLogs copies the buffered log lines to w and empties the buffer.
func flushLogs(buf *bytes.Buffer, w io.Writer) {
	if buf.Len() == 0 {
		return
	}

	buf.WriteTo(w) //nolint:errcheck
}
