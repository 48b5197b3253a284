// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sink provides the private output buffer of a transfer worker.
// A Sink is written by exactly one worker and read concurrently by the display
// loop, which only ever needs the most recent non-empty line.
package sink
