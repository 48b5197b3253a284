// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sink

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

var _ io.Writer = (*Sink)(nil)

// Sink is an append-only buffer that is safe for one writer and many readers.
// Each Write call is applied atomically, so a line written in a single call is
// never observed half written.
type Sink struct {
	buf bytes.Buffer
	mu  sync.RWMutex
}

// New creates an empty Sink.
func New() *Sink {
	return &Sink{}
}

// Write implements io.Writer. It never returns an error.
func (s *Sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.Write(p) //nolint:wrapcheck
}

// WriteString appends a string to the sink.
func (s *Sink) WriteString(str string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.buf.WriteString(str) //nolint:wrapcheck
}

// Len returns the number of bytes written so far.
func (s *Sink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.buf.Len()
}

// Bytes returns a copy of everything written so far.
func (s *Sink) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return bytes.Clone(s.buf.Bytes())
}

// LastLine returns the most recent line that is not blank, with surrounding
// whitespace removed. Only the tail of the content is scanned.
// Carriage returns end a line just like newlines do, because progress output
// overwrites its row with "\r".
// It returns an empty string if nothing but whitespace has been written.
func (s *Sink) LastLine() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return LastLine(s.buf.Bytes())
}

// LastLine returns the last non-blank line of data, trimmed.
// Lines end at "\n", "\r\n" or "\r".
func LastLine(data []byte) string {
	end := len(data)

	for end > 0 {
		start := bytes.LastIndexAny(data[:end], "\r\n") + 1

		if line := strings.TrimSpace(string(data[start:end])); line != "" {
			return line
		}

		end = start - 1
	}

	return ""
}
