// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package transfer runs one directory mirror operation by delegating to an
// external mirror tool (rsync by default).
//
// The Invoker creates the destination, starts the tool with its stdout and
// stderr captured, and relays both streams to a caller supplied writer as they
// arrive. Progress lines from stdout are terminated with "\r" so that they
// overwrite one display row; diagnostics from stderr are terminated with "\n".
// When the tool exits successfully a final SuccessMessage line is appended.
package transfer
