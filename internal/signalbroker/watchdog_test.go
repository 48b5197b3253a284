// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestWatch(t *testing.T) {
	tests := []struct {
		name       string
		signals    []os.Signal
		wantCancel bool
	}{
		{
			name:    "first interrupt is left to the transfers",
			signals: []os.Signal{os.Interrupt},
		},
		{
			name:    "one of each kind",
			signals: []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT},
		},
		{
			name:       "second interrupt cancels",
			signals:    []os.Signal{os.Interrupt, os.Interrupt},
			wantCancel: true,
		},
		{
			name:       "repeat after a different kind cancels",
			signals:    []os.Signal{syscall.SIGTERM, os.Interrupt, syscall.SIGTERM},
			wantCancel: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, len(tt.signals))
			returned := make(chan struct{})

			go func() {
				defer close(returned)
				Watch(ctx, sigCh, cancel)
			}()

			for _, s := range tt.signals {
				sigCh <- s
			}

			if !tt.wantCancel {
				assert.Never(t, func() bool { return ctx.Err() != nil }, 50*time.Millisecond, 5*time.Millisecond)

				// The caller owns the channel until Watch cancels.
				close(sigCh)
				<-returned

				return
			}

			require.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 5*time.Millisecond)
			<-returned

			_, open := <-sigCh
			assert.False(t, open, "Watch closes the channel once it has cancelled")
		})
	}
}
