// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package report contains the command that prints previously saved results.
package report

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/multisync/internal/supervisor"
	"github.com/urfave/cli/v3"
)

const (
	fileArg = "file"
)

var (
	// ErrReadFile is returned when the file cannot be read.
	ErrReadFile = errors.New("failed to read file")
	// ErrDecodeResults is returned when the results cannot be decoded from the file.
	ErrDecodeResults = errors.New("failed to decode results")
	// ErrWriteResults is returned when the results cannot be written.
	ErrWriteResults = errors.New("failed to write results")
)

// NewReportCmd creates the report command.
func NewReportCmd() *cli.Command {
	return &cli.Command{
		Name:        "report",
		Usage:       "Show results saved with run --out",
		Description: "Print the summary of previously saved results.",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      fileArg,
				UsageText: "RESULTSFILE",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			file, err := os.Open(cmd.StringArg(fileArg))
			if err != nil {
				return errors.Join(ErrReadFile, err)
			}

			defer file.Close() // nolint:errcheck

			results, err := supervisor.ReadJSON(file)
			if err != nil {
				return errors.Join(ErrDecodeResults, err)
			}

			w := cmd.Root().Writer
			if w == nil {
				w = os.Stdout
			}

			opts := supervisor.DefaultOutputOptions()
			opts.ShowSuccessDetails = true

			if err := results.WriteText(w, opts); err != nil {
				return errors.Join(ErrWriteResults, err)
			}

			return nil
		},
	}
}
