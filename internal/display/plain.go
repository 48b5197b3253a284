// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/multisync/internal/supervisor"
)

var _ supervisor.Display = (*Plain)(nil)

// Plain appends every frame to a writer without escape sequences.
type Plain struct {
	w io.Writer
}

// NewPlain creates a Plain display writing to w.
func NewPlain(w io.Writer) *Plain {
	return &Plain{w: w}
}

// Render writes each status as its label and line.
func (p *Plain) Render(statuses []supervisor.Status) error {
	sb := strings.Builder{}

	for _, s := range statuses {
		sb.WriteString(s.String())
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(p.w, sb.String()); err != nil {
		return fmt.Errorf("failed to render statuses: %w", err)
	}

	return nil
}

// Clear does nothing.
func (p *Plain) Clear() error {
	return nil
}
