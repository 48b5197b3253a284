// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package display contains the supervisor.Display implementations.
//
// Terminal redraws the status blocks in place when writing to a terminal and
// appends them otherwise. Plain always appends. TUI hands the statuses to a
// bubbletea program.
package display
