// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package supervisor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ErrTransferFailed is returned for a transfer that exited with a nonzero status.
var ErrTransferFailed = errors.New("transfer failed")

// ResultStatus is the outcome of a single transfer.
type ResultStatus int

const (
	// ResultStatusSuccess means the tool exited with status 0.
	ResultStatusSuccess ResultStatus = iota
	// ResultStatusError means the tool exited nonzero or could not be run.
	ResultStatusError
	// ResultStatusRunning means the transfer had not finished when the result was taken.
	ResultStatusRunning
)

// String returns a string representation of the result status.
func (s ResultStatus) String() string {
	switch s {
	case ResultStatusSuccess:
		return "success"
	case ResultStatusError:
		return "error"
	case ResultStatusRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Result is the outcome of one transfer.
type Result struct {
	Label       string        // Label of the transfer
	Source      string        // Source path as given
	Destination string        // Destination path as given
	ExitCode    int           // Exit code of the tool, -1 if it could not be run
	Error       error         // Error, if the tool could not be run or was killed
	LastLine    string        // Final status line
	Duration    time.Duration // How long the transfer ran
	Status      ResultStatus
}

func newResult(w *Worker) *Result {
	r := &Result{
		Label:       w.Label(),
		Source:      w.job.Source,
		Destination: w.job.Destination,
		LastLine:    w.out.LastLine(),
		Duration:    w.Duration(),
		Status:      ResultStatusRunning,
	}

	code, done := w.ExitCode()
	if !done {
		return r
	}

	r.ExitCode = code
	r.Error = w.Err()
	r.Status = ResultStatusSuccess

	if r.Error != nil || r.ExitCode != 0 {
		r.Status = ResultStatusError
	}

	return r
}

type resultJSON struct {
	Label       string  `json:"label"`
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	ExitCode    int     `json:"exit_code"`
	Error       string  `json:"error,omitempty"`
	LastLine    string  `json:"last_line"`
	Duration    float64 `json:"duration_seconds"`
	Status      string  `json:"status"`
}

// MarshalJSON implements json.Marshaler, writing the error as its message.
func (r *Result) MarshalJSON() ([]byte, error) {
	v := resultJSON{
		Label:       r.Label,
		Source:      r.Source,
		Destination: r.Destination,
		ExitCode:    r.ExitCode,
		LastLine:    r.LastLine,
		Duration:    r.Duration.Seconds(),
		Status:      r.Status.String(),
	}

	if r.Error != nil {
		v.Error = r.Error.Error()
	}

	return json.Marshal(v) //nolint:wrapcheck
}

// UnmarshalJSON implements json.Unmarshaler. The error, if any, comes back
// as a plain error carrying the saved message.
func (r *Result) UnmarshalJSON(data []byte) error {
	var v resultJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err //nolint:wrapcheck
	}

	*r = Result{
		Label:       v.Label,
		Source:      v.Source,
		Destination: v.Destination,
		ExitCode:    v.ExitCode,
		LastLine:    v.LastLine,
		Duration:    time.Duration(v.Duration * float64(time.Second)),
		Status:      parseResultStatus(v.Status),
	}

	if v.Error != "" {
		r.Error = errors.New(v.Error) //nolint:err113
	}

	return nil
}

func parseResultStatus(s string) ResultStatus {
	for _, st := range []ResultStatus{ResultStatusSuccess, ResultStatusError, ResultStatusRunning} {
		if st.String() == s {
			return st
		}
	}

	return ResultStatus(-1)
}

// Results is a slice of Result pointers in job order.
type Results []*Result

// HasError reports whether any transfer failed or could not be run.
func (r Results) HasError() bool {
	for v := range slices.Values(r) {
		if v.Error != nil || v.ExitCode != 0 {
			return true
		}
	}

	return false
}

// Err returns every failure as one error, or nil when all transfers succeeded.
func (r Results) Err() error {
	var merr *multierror.Error

	for _, v := range r {
		switch {
		case v.Error != nil:
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", v.Label, v.Error))
		case v.ExitCode != 0:
			merr = multierror.Append(merr, fmt.Errorf("%w: %s: exit code %d", ErrTransferFailed, v.Label, v.ExitCode))
		}
	}

	return merr.ErrorOrNil()
}

// ReadJSON decodes results written by WriteJSON.
func ReadJSON(r io.Reader) (Results, error) {
	var results Results

	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	return results, nil
}

// WriteText outputs a human readable summary of the results to w.
func (r Results) WriteText(w io.Writer, options *OutputOptions) error {
	return writeTextResults(w, r, options)
}

// WriteJSON outputs the results to w as an indented JSON array.
func (r Results) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	return nil
}
