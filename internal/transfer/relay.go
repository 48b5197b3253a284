// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package transfer

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"sync"
)

const (
	progressTerminator   = "\r"
	diagnosticTerminator = "\n"
	initialLineBuffer    = 4 * 1024
	maxLineLength        = 1024 * 1024 // 1MB
)

type flusher interface {
	Flush() error
}

// lineWriter serialises whole line writes from the two relay goroutines.
// Each line is handed to the destination in a single Write call and flushed
// straight away when the destination buffers.
type lineWriter struct {
	w  io.Writer
	mu sync.Mutex
}

func newLineWriter(w io.Writer) *lineWriter {
	return &lineWriter{w: w}
}

// WriteLine writes line followed by terminator. Write errors are dropped,
// the display is best effort and must never stall the tool.
func (lw *lineWriter) WriteLine(line, terminator string) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	_, _ = io.WriteString(lw.w, line+terminator)

	if f, ok := lw.w.(flusher); ok {
		_ = f.Flush()
	}
}

// relayLines copies every non-blank line from r to w with the given terminator.
// It returns when r reaches EOF.
func relayLines(r io.Reader, w *lineWriter, terminator string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)
	sc.Split(scanLines)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		w.WriteLine(line, terminator)
	}

	if err := sc.Err(); err != nil {
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)

		return err //nolint:wrapcheck
	}

	return nil
}

// scanLines is a bufio.SplitFunc that ends a line at "\n" or "\r".
// rsync rewrites its progress row with "\r", so both must end a token.
// A "\r\n" pair yields an empty token, which the relay skips.
func scanLines(data []byte, atEOF bool) (int, []byte, error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}

	if atEOF {
		return len(data), data, nil
	}

	return 0, nil, nil
}
