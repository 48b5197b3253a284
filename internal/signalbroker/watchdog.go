// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/multisync/internal/ctxlog"
)

// Watch monitors the signal channel and cancels the context on the second
// signal of a given type. The first signal is left to the running transfers,
// which forward it to their child processes.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc) {
	sigMap := make(map[os.Signal]struct{})

	for sig := range sigCh {
		if _, ok := sigMap[sig]; ok {
			ctxlog.Info(ctx, "watchdog",
				"detail", "received second signal of type, cancelling transfers", "signal", sig.String())
			close(sigCh)
			cancel()

			return
		}

		ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, forwarding to transfers", "signal", sig.String())

		sigMap[sig] = struct{}{}
	}
}
