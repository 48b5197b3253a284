// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package supervisor runs a fixed set of transfers concurrently and renders
// their live status until every one of them has finished.
//
// Each transfer runs in its own Worker, which owns a private sink.Sink that
// the transfer writes into. Nothing process wide is redirected: the sink is
// handed to the transfer when the worker starts. The drive loop polls worker
// liveness without blocking, renders the latest line of every sink, pauses,
// clears, and repeats. Once all workers are done it renders exactly once more
// so the final state of every transfer is always shown.
package supervisor
